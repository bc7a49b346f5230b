package analytics

import "errors"

var (
	ErrInvalidGroupBy = errors.New("group_by must be day, week or month")
	ErrInvalidRange   = errors.New("invalid date range")
	ErrRangeTooLong   = errors.New("date range too long")
)
