package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	userdomain "hospital-admin-go/internal/domain/user"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]userdomain.SystemUser, error) {
	var users []userdomain.SystemUser
	if err := r.db.WithContext(ctx).Order("username asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresRepository) GetUser(ctx context.Context, id string) (*userdomain.SystemUser, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*userdomain.SystemUser, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *PostgresRepository) first(ctx context.Context, query string, arg string) (*userdomain.SystemUser, error) {
	var user userdomain.SystemUser
	if err := r.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *userdomain.SystemUser) error {
	err := r.db.WithContext(ctx).Create(user).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return userdomain.ErrUsernameTaken
	}
	return err
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *userdomain.SystemUser) error {
	result := r.db.WithContext(ctx).
		Model(user).
		Select("ho_ten", "password_hash", "role", "is_active").
		Updates(user)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return userdomain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&userdomain.SystemUser{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userdomain.SystemUser{}).
		Where("role = ? AND is_active", userdomain.RoleAdmin).
		Count(&count).Error
	return count, err
}
