package leave

import (
	"context"
	"errors"

	"gorm.io/gorm"

	leavedomain "hospital-admin-go/internal/domain/leave"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListLeaveRequests(ctx context.Context, filter leavedomain.ListFilter) ([]leavedomain.LeaveRequestView, error) {
	query := r.db.WithContext(ctx).
		Table("leave_requests").
		Select("leave_requests.*, employees.ho_ten AS ho_ten").
		Joins("LEFT JOIN employees ON employees.id = leave_requests.employee_id")
	if filter.EmployeeID != "" {
		query = query.Where("leave_requests.employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		query = query.Where("leave_requests.trang_thai = ?", filter.Status)
	}

	var views []leavedomain.LeaveRequestView
	if err := query.Order("leave_requests.tu_ngay desc, leave_requests.created_at desc").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}

func (r *PostgresRepository) GetLeaveRequest(ctx context.Context, id string) (*leavedomain.LeaveRequest, error) {
	var request leavedomain.LeaveRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leavedomain.ErrLeaveNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *PostgresRepository) CreateLeaveRequest(ctx context.Context, request *leavedomain.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *PostgresRepository) UpdateLeaveRequest(ctx context.Context, request *leavedomain.LeaveRequest) error {
	return r.db.WithContext(ctx).
		Model(&leavedomain.LeaveRequest{}).
		Where("id = ?", request.ID).
		Updates(map[string]interface{}{
			"employee_id": request.EmployeeID,
			"loai_nghi":   request.LoaiNghi,
			"tu_ngay":     request.TuNgay,
			"den_ngay":    request.DenNgay,
			"ly_do":       request.LyDo,
		}).Error
}

func (r *PostgresRepository) DecideLeaveRequest(ctx context.Context, request *leavedomain.LeaveRequest) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&leavedomain.LeaveRequest{}).
		Where("id = ? AND trang_thai = ?", request.ID, leavedomain.StatusPending).
		Updates(map[string]interface{}{
			"trang_thai":      request.TrangThai,
			"nguoi_duyet":     request.NguoiDuyet,
			"thoi_gian_duyet": request.ThoiGianDuyet,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteLeaveRequest(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&leavedomain.LeaveRequest{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}
