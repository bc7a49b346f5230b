package research

import "errors"

var (
	ErrTopicNotFound  = errors.New("research topic not found")
	ErrTitleRequired  = errors.New("topic title is required")
	ErrInvalidStatus  = errors.New("invalid topic status")
	ErrInvalidPeriod  = errors.New("end date is before start date")
	ErrNoFiles        = errors.New("no files uploaded")
	ErrEvidenceAbsent = errors.New("evidence url not attached to topic")
	ErrInvalidOwner   = errors.New("employee_id is not a valid uuid")
)
