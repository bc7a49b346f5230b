package schedule

import "errors"

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrContentRequired  = errors.New("content is required")
	ErrTimeRequired     = errors.New("start and end time are required")
	ErrInvalidTimeRange = errors.New("end time is before start time")
	ErrInvalidStatus    = errors.New("invalid schedule status")
	ErrInvalidRange     = errors.New("invalid calendar range")
	ErrNoFile           = errors.New("no file uploaded")
	ErrInvalidPerformer = errors.New("performer id is not a valid uuid")
)
