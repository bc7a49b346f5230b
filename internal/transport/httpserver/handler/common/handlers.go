package common

import (
	accessdomain "hospital-admin-go/internal/domain/access"
	userdomain "hospital-admin-go/internal/domain/user"
	"hospital-admin-go/pkg/logger"
)

type Handlers struct {
	Users  *userdomain.Service
	Access *accessdomain.Service
	log    logger.Logger
}

func New(users *userdomain.Service, access *accessdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Users:  users,
		Access: access,
		log:    log,
	}
}
