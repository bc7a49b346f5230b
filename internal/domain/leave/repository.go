package leave

import "context"

type Repository interface {
	ListLeaveRequests(ctx context.Context, filter ListFilter) ([]LeaveRequestView, error)
	GetLeaveRequest(ctx context.Context, id string) (*LeaveRequest, error)
	CreateLeaveRequest(ctx context.Context, request *LeaveRequest) error
	UpdateLeaveRequest(ctx context.Context, request *LeaveRequest) error
	// DecideLeaveRequest only touches rows that are still pending.
	DecideLeaveRequest(ctx context.Context, request *LeaveRequest) (bool, error)
	DeleteLeaveRequest(ctx context.Context, id string) (bool, error)
}
