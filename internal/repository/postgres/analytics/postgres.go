package analytics

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	analyticsdomain "hospital-admin-go/internal/domain/analytics"
	carddomain "hospital-admin-go/internal/domain/card"
	leavedomain "hospital-admin-go/internal/domain/leave"
	scheduledomain "hospital-admin-go/internal/domain/schedule"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) EmployeesByStatus(ctx context.Context) ([]analyticsdomain.GroupCount, error) {
	return r.groupEmployees(ctx, "trang_thai")
}

func (r *PostgresRepository) EmployeesByCategory(ctx context.Context) ([]analyticsdomain.GroupCount, error) {
	return r.groupEmployees(ctx, "doi_tuong")
}

// groupEmployees is only called with fixed column names.
func (r *PostgresRepository) groupEmployees(ctx context.Context, column string) ([]analyticsdomain.GroupCount, error) {
	query := fmt.Sprintf("SELECT COALESCE(%[1]s, '') AS key, COUNT(*) AS count FROM employees GROUP BY 1 ORDER BY count DESC, key", column)

	var rows []analyticsdomain.GroupCount
	if err := r.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) CountPendingLeave(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&leavedomain.LeaveRequest{}).
		Where("trang_thai = ?", leavedomain.StatusPending).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) CardSummary(ctx context.Context) (analyticsdomain.CardSummary, error) {
	query := "SELECT " +
		"COUNT(*) FILTER (WHERE trang_thai = ?) AS active_borrows, " +
		"COALESCE(SUM(tien_coc) FILTER (WHERE trang_thai = ?), 0) AS deposit_held, " +
		"COUNT(*) FILTER (WHERE trang_thai_tien_muon = ?) AS borrow_leg_pending, " +
		"COUNT(*) FILTER (WHERE trang_thai = ? AND trang_thai_tien_tra = ?) AS return_leg_pending " +
		"FROM card_records"

	var summary analyticsdomain.CardSummary
	err := r.db.WithContext(ctx).Raw(query,
		carddomain.RecordBorrowing,
		carddomain.RecordBorrowing,
		carddomain.HandoverPending,
		carddomain.RecordReturned,
		carddomain.HandoverPending,
	).Scan(&summary).Error
	if err != nil {
		return analyticsdomain.CardSummary{}, err
	}
	return summary, nil
}

// CountSchedulesBetween counts items overlapping [from, to) that were not
// cancelled.
func (r *PostgresRepository) CountSchedulesBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&scheduledomain.Schedule{}).
		Where("bat_dau < ? AND ket_thuc >= ?", to, from).
		Where("trang_thai <> ?", scheduledomain.StatusCancelled).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) BorrowTimeseries(ctx context.Context, filter analyticsdomain.BorrowFilter) ([]analyticsdomain.BorrowPoint, error) {
	switch filter.GroupBy {
	case analyticsdomain.GroupByDay, analyticsdomain.GroupByWeek, analyticsdomain.GroupByMonth:
	default:
		return nil, analyticsdomain.ErrInvalidGroupBy
	}

	// ngay_muon is a timestamptz; buckets follow the hospital's calendar.
	periodExpr := fmt.Sprintf("date_trunc('%s', ngay_muon AT TIME ZONE ?)", filter.GroupBy)
	query := fmt.Sprintf("SELECT to_char(%s, 'YYYY-MM-DD') AS period, COUNT(*) AS borrowed, COUNT(ngay_tra) AS returned "+
		"FROM card_records WHERE ngay_muon >= ? AND ngay_muon < ? GROUP BY 1 ORDER BY 1", periodExpr)

	var rows []analyticsdomain.BorrowPoint
	if err := r.db.WithContext(ctx).Raw(query, filter.Timezone, filter.From, filter.To).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
