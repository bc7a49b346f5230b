package admin

import (
	accessdomain "hospital-admin-go/internal/domain/access"
	settingsdomain "hospital-admin-go/internal/domain/settings"
	userdomain "hospital-admin-go/internal/domain/user"
	"hospital-admin-go/pkg/logger"
)

// Handlers serve the administration screens: accounts, the permission
// matrix and app-wide settings.
type Handlers struct {
	Users          *userdomain.Service
	Access         *accessdomain.Service
	Settings       *settingsdomain.Service
	maxUploadBytes int64
	log            logger.Logger
}

func New(users *userdomain.Service, access *accessdomain.Service, settings *settingsdomain.Service, maxUploadBytes int64, log logger.Logger) *Handlers {
	return &Handlers{
		Users:          users,
		Access:         access,
		Settings:       settings,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}
