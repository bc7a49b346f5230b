package schedule

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	scheduledomain "hospital-admin-go/internal/domain/schedule"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListSchedules(ctx context.Context) ([]scheduledomain.Schedule, error) {
	var schedules []scheduledomain.Schedule
	if err := r.db.WithContext(ctx).Order("bat_dau asc").Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *PostgresRepository) ListOverlapping(ctx context.Context, from, to time.Time) ([]scheduledomain.Schedule, error) {
	var schedules []scheduledomain.Schedule
	if err := r.db.WithContext(ctx).
		Where("bat_dau < ? AND ket_thuc >= ?", to, from).
		Order("bat_dau asc").
		Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *PostgresRepository) GetSchedule(ctx context.Context, id string) (*scheduledomain.Schedule, error) {
	var schedule scheduledomain.Schedule
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&schedule).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, scheduledomain.ErrScheduleNotFound
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *PostgresRepository) CreateSchedule(ctx context.Context, schedule *scheduledomain.Schedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *PostgresRepository) UpdateSchedule(ctx context.Context, schedule *scheduledomain.Schedule) error {
	result := r.db.WithContext(ctx).
		Model(schedule).
		Select("noi_dung", "bat_dau", "ket_thuc", "nguoi_thuc_hien", "trang_thai").
		Updates(schedule)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return scheduledomain.ErrScheduleNotFound
	}
	return nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id, status string) (bool, error) {
	return r.updateColumn(ctx, id, "trang_thai", status)
}

func (r *PostgresRepository) SetAttachment(ctx context.Context, id, url string) (bool, error) {
	return r.updateColumn(ctx, id, "tep_dinh_kem", url)
}

func (r *PostgresRepository) DeleteSchedule(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&scheduledomain.Schedule{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) updateColumn(ctx context.Context, id, column string, value interface{}) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&scheduledomain.Schedule{}).
		Where("id = ?", id).
		Update(column, value)
	return result.RowsAffected > 0, result.Error
}
