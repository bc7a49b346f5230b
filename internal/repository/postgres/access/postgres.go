package access

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	accessdomain "hospital-admin-go/internal/domain/access"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListPermissions(ctx context.Context, role string) ([]accessdomain.Permission, error) {
	var permissions []accessdomain.Permission
	if err := r.db.WithContext(ctx).Where("role = ?", role).Order("module_id asc").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *PostgresRepository) ListAllPermissions(ctx context.Context) ([]accessdomain.Permission, error) {
	var permissions []accessdomain.Permission
	if err := r.db.WithContext(ctx).Order("role asc, module_id asc").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *PostgresRepository) UpsertPermissions(ctx context.Context, permissions []accessdomain.Permission) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "role"}, {Name: "module_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"can_view", "can_create", "can_update", "can_delete"}),
		}).
		Create(&permissions).Error
}

func (r *PostgresRepository) CountPermissions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&accessdomain.Permission{}).Count(&count).Error
	return count, err
}
