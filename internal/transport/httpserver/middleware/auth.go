package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"hospital-admin-go/internal/config"
	userdomain "hospital-admin-go/internal/domain/user"
	"hospital-admin-go/pkg/logger"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*userdomain.SystemUser, error)
}

type JWTAuth struct {
	users    Authenticator
	skipAuth bool
	mockUser User
	log      logger.Logger
}

type contextKey int

const (
	userIDKey contextKey = iota
	userKey
)

type User struct {
	ID       string
	Username string
	Name     string
	Role     string
}

func NewJWTAuth(cfg config.AuthConfig, users Authenticator, log logger.Logger) *JWTAuth {
	return &JWTAuth{
		users:    users,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:       strings.TrimSpace(cfg.MockUserID),
			Username: strings.TrimSpace(cfg.MockUsername),
			Name:     strings.TrimSpace(cfg.MockUsername),
			Role:     strings.TrimSpace(cfg.MockUserRole),
		},
		log: log,
	}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			user := a.mockUser
			if user.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}

		token, ok := requestToken(r)
		if !ok {
			unauthorized(w)
			return
		}

		account, err := a.users.Authenticate(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, userdomain.ErrUserInactive):
				writeError(w, http.StatusForbidden, "user_inactive", "Tài khoản đã bị khóa")
			case errors.Is(err, userdomain.ErrInvalidToken):
				unauthorized(w)
			case errors.Is(err, userdomain.ErrTokenNotConfigured):
				a.log.InternalError("auth: token secret missing", err)
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			default:
				a.log.InternalError("auth: authenticate failed", err)
				writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
			}
			return
		}

		user := User{
			ID:       account.ID,
			Username: account.Username,
			Name:     account.HoTen,
			Role:     account.Role,
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// requestToken reads the bearer header, falling back to the access_token
// query parameter that browsers must use for websocket upgrades.
func requestToken(r *http.Request) (string, bool) {
	if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
		return token, true
	}
	token := strings.TrimSpace(r.URL.Query().Get("access_token"))
	return token, token != ""
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "invalid_token", "Phiên đăng nhập không hợp lệ hoặc đã hết hạn")
}

func WithUser(ctx context.Context, user User) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, userIDKey, user.ID)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// Actor is the display name stamped on records a user touches.
func (u User) Actor() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
