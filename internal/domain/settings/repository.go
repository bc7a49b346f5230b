package settings

import "context"

type Repository interface {
	GetSetting(ctx context.Context, key string) (*AppSetting, error)
	UpsertSetting(ctx context.Context, setting *AppSetting) error
}
