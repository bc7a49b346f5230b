package access

import "context"

type Repository interface {
	ListPermissions(ctx context.Context, role string) ([]Permission, error)
	ListAllPermissions(ctx context.Context) ([]Permission, error)
	UpsertPermissions(ctx context.Context, permissions []Permission) error
	CountPermissions(ctx context.Context) (int64, error)
}
