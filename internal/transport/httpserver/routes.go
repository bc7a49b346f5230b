package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hospital-admin-go/internal/config"
	accessdomain "hospital-admin-go/internal/domain/access"
	"hospital-admin-go/internal/realtime"
	"hospital-admin-go/internal/transport/httpserver/handler"
	authmw "hospital-admin-go/internal/transport/httpserver/middleware"
)

const (
	view   = accessdomain.ActionView
	create = accessdomain.ActionCreate
	update = accessdomain.ActionUpdate
	remove = accessdomain.ActionDelete
)

// realtimeModules gates each change feed behind view on the module that owns
// the table.
var realtimeModules = map[string]string{
	realtime.TableEmployees:      accessdomain.ModulePersonnel,
	realtime.TableLeaveRequests:  accessdomain.ModuleLeave,
	realtime.TableSchedules:      accessdomain.ModuleSchedule,
	realtime.TableCards:          accessdomain.ModuleCards,
	realtime.TableCardRecords:    accessdomain.ModuleCards,
	realtime.TableResearchTopics: accessdomain.ModuleResearch,
	realtime.TableSystemUsers:    accessdomain.ModuleUsers,
	realtime.TableAppSettings:    accessdomain.ModuleSettings,
}

func realtimeModule(r *http.Request) (string, bool) {
	module, ok := realtimeModules[chi.URLParam(r, "table")]
	return module, ok
}

func NewRouter(cfg config.Config, handlers *handler.Handlers, auth *authmw.JWTAuth, perms *authmw.Permissions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(authmw.NewCORS(cfg.CORSOrigins))

	r.Route("/api", func(r chi.Router) {
		// The change feed is long-lived and must stay outside the request timeout.
		r.With(auth.Middleware, perms.RequireFor(realtimeModule, view)).Get("/realtime/{table}", handlers.Realtime.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(30 * time.Second))

			r.Get("/health", handlers.Common.Health)
			r.Post("/auth/login", handlers.Common.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.Middleware)

				r.Get("/auth/me", handlers.Common.AuthMe)
				r.Post("/auth/password", handlers.Common.ChangePassword)

				r.Get("/settings/background", handlers.Admin.Background)
				r.Get("/settings/menu-order", handlers.Admin.MenuOrder)
				r.Get("/analytics/overview", handlers.Analytics.Overview)

				personnelRoutes(r, handlers, perms)
				leaveRoutes(r, handlers, perms)
				cardRoutes(r, handlers, perms)
				scheduleRoutes(r, handlers, perms)
				researchRoutes(r, handlers, perms)
				adminRoutes(r, handlers, perms)
			})
		})
	})

	return r
}

func personnelRoutes(r chi.Router, h *handler.Handlers, perms *authmw.Permissions) {
	module := accessdomain.ModulePersonnel
	r.With(perms.Require(module, view)).Get("/employees", h.Personnel.ListEmployees)
	r.With(perms.Require(module, view)).Get("/employees/export", h.Personnel.ExportEmployees)
	r.With(perms.Require(module, view)).Get("/employees/import-template", h.Personnel.ImportTemplate)
	r.With(perms.Require(module, view)).Get("/employees/{id}", h.Personnel.GetEmployee)
	r.With(perms.Require(module, create)).Post("/employees", h.Personnel.CreateEmployee)
	r.With(perms.Require(module, create)).Post("/employees/import", h.Personnel.ImportEmployees)
	r.With(perms.Require(module, update)).Post("/employees/bulk-update", h.Personnel.BulkUpdateEmployees)
	r.With(perms.Require(module, update)).Put("/employees/{id}", h.Personnel.UpdateEmployee)
	r.With(perms.Require(module, remove)).Delete("/employees/{id}", h.Personnel.DeleteEmployee)
}

func leaveRoutes(r chi.Router, h *handler.Handlers, perms *authmw.Permissions) {
	module := accessdomain.ModuleLeave
	r.With(perms.Require(module, view)).Get("/leave-requests", h.Leave.ListLeaveRequests)
	r.With(perms.Require(module, create)).Post("/leave-requests", h.Leave.CreateLeaveRequest)
	r.With(perms.Require(module, update)).Put("/leave-requests/{id}", h.Leave.UpdateLeaveRequest)
	r.With(perms.Require(module, update)).Post("/leave-requests/{id}/approve", h.Leave.ApproveLeaveRequest)
	r.With(perms.Require(module, update)).Post("/leave-requests/{id}/reject", h.Leave.RejectLeaveRequest)
	r.With(perms.Require(module, remove)).Delete("/leave-requests/{id}", h.Leave.DeleteLeaveRequest)
}

func cardRoutes(r chi.Router, h *handler.Handlers, perms *authmw.Permissions) {
	module := accessdomain.ModuleCards
	r.With(perms.Require(module, view)).Get("/cards", h.Cards.ListCards)
	r.With(perms.Require(module, create)).Post("/cards", h.Cards.CreateCard)
	r.With(perms.Require(module, update)).Put("/cards/{id}", h.Cards.UpdateCard)
	r.With(perms.Require(module, update)).Post("/cards/{id}/lost", h.Cards.MarkCardLost)
	r.With(perms.Require(module, remove)).Delete("/cards/{id}", h.Cards.DeleteCard)

	r.With(perms.Require(module, view)).Get("/card-records", h.Cards.ListRecords)
	r.With(perms.Require(module, view)).Get("/card-records/export", h.Cards.ExportRecords)
	r.With(perms.Require(module, view)).Get("/card-records/duplicate-warning", h.Cards.DuplicateWarning)
	r.With(perms.Require(module, create)).Post("/card-records", h.Cards.Borrow)
	r.With(perms.Require(module, create)).Post("/card-records/import", h.Cards.ImportRecords)
	r.With(perms.Require(module, update)).Post("/card-records/handover", h.Cards.BatchHandover)
	r.With(perms.Require(module, update)).Post("/card-records/{id}/return", h.Cards.Return)
	r.With(perms.Require(module, update)).Put("/card-records/{id}", h.Cards.UpdateRecord)
	r.With(perms.Require(module, remove)).Delete("/card-records/{id}", h.Cards.DeleteRecord)
	r.With(perms.Require(module, view)).Get("/analytics/borrows", h.Analytics.Borrows)
}

func scheduleRoutes(r chi.Router, h *handler.Handlers, perms *authmw.Permissions) {
	module := accessdomain.ModuleSchedule
	r.With(perms.Require(module, view)).Get("/schedules", h.Schedules.ListSchedules)
	r.With(perms.Require(module, view)).Get("/schedules/calendar", h.Schedules.Calendar)
	r.With(perms.Require(module, view)).Get("/schedules/{id}", h.Schedules.GetSchedule)
	r.With(perms.Require(module, create)).Post("/schedules", h.Schedules.CreateSchedule)
	r.With(perms.Require(module, update)).Put("/schedules/{id}", h.Schedules.UpdateSchedule)
	r.With(perms.Require(module, update)).Patch("/schedules/{id}/status", h.Schedules.SetStatus)
	r.With(perms.Require(module, update)).Post("/schedules/{id}/attachment", h.Schedules.UploadAttachment)
	r.With(perms.Require(module, remove)).Delete("/schedules/{id}", h.Schedules.DeleteSchedule)
}

func researchRoutes(r chi.Router, h *handler.Handlers, perms *authmw.Permissions) {
	module := accessdomain.ModuleResearch
	r.With(perms.Require(module, view)).Get("/research", h.Research.ListTopics)
	r.With(perms.Require(module, view)).Get("/research/{id}", h.Research.GetTopic)
	r.With(perms.Require(module, create)).Post("/research", h.Research.CreateTopic)
	r.With(perms.Require(module, create)).Post("/research/{id}/clone", h.Research.CloneTopic)
	r.With(perms.Require(module, update)).Put("/research/{id}", h.Research.UpdateTopic)
	r.With(perms.Require(module, update)).Post("/research/{id}/evidence", h.Research.UploadEvidence)
	r.With(perms.Require(module, update)).Delete("/research/{id}/evidence", h.Research.RemoveEvidence)
	r.With(perms.Require(module, remove)).Delete("/research/{id}", h.Research.DeleteTopic)
}

func adminRoutes(r chi.Router, h *handler.Handlers, perms *authmw.Permissions) {
	users := accessdomain.ModuleUsers
	r.With(perms.Require(users, view)).Get("/users", h.Admin.ListUsers)
	r.With(perms.Require(users, create)).Post("/users", h.Admin.CreateUser)
	r.With(perms.Require(users, update)).Patch("/users/{id}", h.Admin.UpdateUser)
	r.With(perms.Require(users, remove)).Delete("/users/{id}", h.Admin.DeleteUser)

	settings := accessdomain.ModuleSettings
	r.With(perms.Require(settings, view)).Get("/permissions", h.Admin.PermissionMatrix)
	r.With(perms.Require(settings, update)).Put("/permissions", h.Admin.UpdatePermissions)
	r.With(perms.Require(settings, update)).Post("/settings/background", h.Admin.UploadBackground)
	r.With(perms.Require(settings, update)).Put("/settings/menu-order", h.Admin.SaveMenuOrder)
}
