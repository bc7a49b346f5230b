package handler

import (
	"hospital-admin-go/internal/transport/httpserver/handler/admin"
	"hospital-admin-go/internal/transport/httpserver/handler/analytics"
	"hospital-admin-go/internal/transport/httpserver/handler/cards"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
	"hospital-admin-go/internal/transport/httpserver/handler/leave"
	"hospital-admin-go/internal/transport/httpserver/handler/personnel"
	"hospital-admin-go/internal/transport/httpserver/handler/realtime"
	"hospital-admin-go/internal/transport/httpserver/handler/research"
	"hospital-admin-go/internal/transport/httpserver/handler/schedules"
)

type Handlers struct {
	Common    *commonhandler.Handlers
	Personnel *personnel.Handlers
	Leave     *leave.Handlers
	Cards     *cards.Handlers
	Schedules *schedules.Handlers
	Research  *research.Handlers
	Admin     *admin.Handlers
	Realtime  *realtime.Handlers
	Analytics *analytics.Handlers
}
