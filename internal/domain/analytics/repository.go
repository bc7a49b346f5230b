package analytics

import (
	"context"
	"time"
)

type Repository interface {
	EmployeesByStatus(ctx context.Context) ([]GroupCount, error)
	EmployeesByCategory(ctx context.Context) ([]GroupCount, error)
	CountPendingLeave(ctx context.Context) (int64, error)
	CardSummary(ctx context.Context) (CardSummary, error)
	CountSchedulesBetween(ctx context.Context, from, to time.Time) (int64, error)
	BorrowTimeseries(ctx context.Context, filter BorrowFilter) ([]BorrowPoint, error)
}
