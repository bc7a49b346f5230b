package realtime

import (
	"errors"
	"time"
)

const (
	TableEmployees      = "employees"
	TableLeaveRequests  = "leave_requests"
	TableSchedules      = "schedules"
	TableCards          = "cards"
	TableCardRecords    = "card_records"
	TableResearchTopics = "research_topics"
	TableSystemUsers    = "system_users"
	TableAppSettings    = "app_settings"
)

var ErrUnknownTable = errors.New("unknown realtime table")

var knownTables = map[string]struct{}{
	TableEmployees:      {},
	TableLeaveRequests:  {},
	TableSchedules:      {},
	TableCards:          {},
	TableCardRecords:    {},
	TableResearchTopics: {},
	TableSystemUsers:    {},
	TableAppSettings:    {},
}

func IsKnownTable(table string) bool {
	_, ok := knownTables[table]
	return ok
}

// Event is a change notification. It carries no row data; subscribers
// re-fetch.
type Event struct {
	Table  string    `json:"table"`
	Action string    `json:"action"`
	ID     string    `json:"id,omitempty"`
	At     time.Time `json:"at"`
}
