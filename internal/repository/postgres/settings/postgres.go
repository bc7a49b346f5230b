package settings

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	settingsdomain "hospital-admin-go/internal/domain/settings"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetSetting(ctx context.Context, key string) (*settingsdomain.AppSetting, error) {
	var setting settingsdomain.AppSetting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, settingsdomain.ErrSettingNotFound
		}
		return nil, err
	}
	return &setting, nil
}

func (r *PostgresRepository) UpsertSetting(ctx context.Context, setting *settingsdomain.AppSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(setting).Error
}
