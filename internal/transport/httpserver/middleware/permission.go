package middleware

import (
	"context"
	"net/http"

	accessdomain "hospital-admin-go/internal/domain/access"
	"hospital-admin-go/pkg/logger"
)

type PermissionChecker interface {
	Allowed(ctx context.Context, role, moduleID string, action accessdomain.Action) (bool, error)
}

type Permissions struct {
	checker PermissionChecker
	log     logger.Logger
}

func NewPermissions(checker PermissionChecker, log logger.Logger) *Permissions {
	return &Permissions{checker: checker, log: log}
}

// Require lets the request through only if the authenticated user's role
// may perform action in moduleID.
func (p *Permissions) Require(moduleID string, action accessdomain.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p.allow(w, r, moduleID, action) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireFor is Require with the module resolved per request, for routes
// such as the change feed where a path parameter names the resource.
// Requests that resolve to no module pass through so the handler can reject
// them.
func (p *Permissions) RequireFor(moduleOf func(*http.Request) (string, bool), action accessdomain.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			moduleID, ok := moduleOf(r)
			if !ok || p.allow(w, r, moduleID, action) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// allow writes the rejection itself and reports whether to continue.
func (p *Permissions) allow(w http.ResponseWriter, r *http.Request, moduleID string, action accessdomain.Action) bool {
	user, ok := UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return false
	}

	allowed, err := p.checker.Allowed(r.Context(), user.Role, moduleID, action)
	if err != nil {
		p.log.InternalError("permissions: lookup failed", err, "role", user.Role, "module", moduleID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return false
	}
	if !allowed {
		p.log.Warn("permissions: denied", "user_id", user.ID, "role", user.Role, "module", moduleID, "action", string(action))
		writeError(w, http.StatusForbidden, "forbidden", "Bạn không có quyền thực hiện thao tác này")
		return false
	}
	return true
}
