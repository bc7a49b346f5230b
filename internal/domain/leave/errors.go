package leave

import "errors"

var (
	ErrLeaveNotFound    = errors.New("leave request not found")
	ErrNotPending       = errors.New("leave request already decided")
	ErrEmployeeRequired = errors.New("employee_id is required")
	ErrInvalidEmployee  = errors.New("employee_id is not a valid uuid")
	ErrTypeRequired     = errors.New("loai_nghi is required")
	ErrInvalidDateRange = errors.New("tu_ngay must not be after den_ngay")
	ErrDatesRequired    = errors.New("tu_ngay and den_ngay are required")
	ErrApproverRequired = errors.New("approver is required")
)
