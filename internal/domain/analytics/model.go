package analytics

import "time"

const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

// MaxRangeDays caps a borrow time series request.
const MaxRangeDays = 366

type GroupCount struct {
	Key   string `gorm:"column:key" json:"key"`
	Count int64  `gorm:"column:count" json:"count"`
}

// CardSummary describes the lending desk right now. DepositHeld sums the
// deposits of records that are still borrowed.
type CardSummary struct {
	ActiveBorrows    int64 `gorm:"column:active_borrows" json:"active_borrows"`
	DepositHeld      int64 `gorm:"column:deposit_held" json:"deposit_held"`
	BorrowLegPending int64 `gorm:"column:borrow_leg_pending" json:"borrow_leg_pending"`
	ReturnLegPending int64 `gorm:"column:return_leg_pending" json:"return_leg_pending"`
}

type Overview struct {
	EmployeesByStatus   []GroupCount `json:"employees_by_status"`
	EmployeesByCategory []GroupCount `json:"employees_by_category"`
	PendingLeave        int64        `json:"pending_leave"`
	Cards               CardSummary  `json:"cards"`
	SchedulesToday      int64        `json:"schedules_today"`
	GeneratedAt         time.Time    `json:"generated_at"`
}

type BorrowFilter struct {
	From     time.Time
	To       time.Time
	GroupBy  string
	Timezone string
}

// BorrowPoint counts records borrowed in a period; Returned is how many of
// those have since come back.
type BorrowPoint struct {
	Period   string `gorm:"column:period" json:"period"`
	Borrowed int64  `gorm:"column:borrowed" json:"borrowed"`
	Returned int64  `gorm:"column:returned" json:"returned"`
}
