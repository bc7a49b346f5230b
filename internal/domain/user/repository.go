package user

import "context"

type Repository interface {
	ListUsers(ctx context.Context) ([]SystemUser, error)
	GetUser(ctx context.Context, id string) (*SystemUser, error)
	GetUserByUsername(ctx context.Context, username string) (*SystemUser, error)
	CreateUser(ctx context.Context, user *SystemUser) error
	UpdateUser(ctx context.Context, user *SystemUser) error
	DeleteUser(ctx context.Context, id string) (bool, error)
	CountActiveAdmins(ctx context.Context) (int64, error)
}
