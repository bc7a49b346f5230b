package leave

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"hospital-admin-go/internal/domain/shared"
)

const table = "leave_requests"

type Service struct {
	repo     Repository
	notifier shared.Notifier
	now      func() time.Time
}

func NewService(repo Repository, notifier shared.Notifier) *Service {
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	return &Service{repo: repo, notifier: notifier, now: time.Now}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]LeaveRequestView, error) {
	filter.EmployeeID = strings.TrimSpace(filter.EmployeeID)
	filter.Status = strings.TrimSpace(filter.Status)
	return s.repo.ListLeaveRequests(ctx, filter)
}

func (s *Service) Create(ctx context.Context, input Input) (*LeaveRequest, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	request := LeaveRequest{
		ID:         uuid.NewString(),
		EmployeeID: input.EmployeeID,
		LoaiNghi:   input.LoaiNghi,
		TuNgay:     input.TuNgay,
		DenNgay:    input.DenNgay,
		LyDo:       input.LyDo,
		TrangThai:  StatusPending,
	}
	if err := s.repo.CreateLeaveRequest(ctx, &request); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, table, shared.ActionInsert, request.ID)
	return &request, nil
}

func (s *Service) Update(ctx context.Context, id string, input Input) (*LeaveRequest, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	request, err := s.repo.GetLeaveRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.TrangThai != StatusPending {
		return nil, ErrNotPending
	}

	request.EmployeeID = input.EmployeeID
	request.LoaiNghi = input.LoaiNghi
	request.TuNgay = input.TuNgay
	request.DenNgay = input.DenNgay
	request.LyDo = input.LyDo
	if err := s.repo.UpdateLeaveRequest(ctx, request); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, table, shared.ActionUpdate, id)
	return request, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	request, err := s.repo.GetLeaveRequest(ctx, id)
	if err != nil {
		return err
	}
	if request.TrangThai != StatusPending {
		return ErrNotPending
	}

	deleted, err := s.repo.DeleteLeaveRequest(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrLeaveNotFound
	}

	s.notifier.Notify(ctx, table, shared.ActionDelete, id)
	return nil
}

func (s *Service) Approve(ctx context.Context, id, approver string) (*LeaveRequest, error) {
	return s.decide(ctx, id, approver, StatusApproved)
}

func (s *Service) Reject(ctx context.Context, id, approver string) (*LeaveRequest, error) {
	return s.decide(ctx, id, approver, StatusRejected)
}

func (s *Service) decide(ctx context.Context, id, approver, status string) (*LeaveRequest, error) {
	approver = strings.TrimSpace(approver)
	if approver == "" {
		return nil, ErrApproverRequired
	}

	request, err := s.repo.GetLeaveRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.TrangThai != StatusPending {
		return nil, ErrNotPending
	}

	decidedAt := s.now().UTC()
	request.TrangThai = status
	request.NguoiDuyet = &approver
	request.ThoiGianDuyet = &decidedAt

	updated, err := s.repo.DecideLeaveRequest(ctx, request)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrNotPending
	}

	s.notifier.Notify(ctx, table, shared.ActionUpdate, id)
	return request, nil
}

func validateInput(input *Input) error {
	input.EmployeeID = strings.TrimSpace(input.EmployeeID)
	input.LoaiNghi = strings.TrimSpace(input.LoaiNghi)
	input.LyDo = strings.TrimSpace(input.LyDo)

	if input.EmployeeID == "" {
		return ErrEmployeeRequired
	}
	if _, err := uuid.Parse(input.EmployeeID); err != nil {
		return ErrInvalidEmployee
	}
	if input.LoaiNghi == "" {
		return ErrTypeRequired
	}
	if input.TuNgay.IsZero() || input.DenNgay.IsZero() {
		return ErrDatesRequired
	}
	if input.TuNgay.After(input.DenNgay.Time) {
		return ErrInvalidDateRange
	}
	return nil
}
