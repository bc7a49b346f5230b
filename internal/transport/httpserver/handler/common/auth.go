package common

import (
	"net/http"
	"strings"

	accessdomain "hospital-admin-go/internal/domain/access"
	userdomain "hospital-admin-go/internal/domain/user"
	"hospital-admin-go/internal/transport/httpserver/middleware"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type authMeResponse struct {
	ID          string                    `json:"id"`
	Username    string                    `json:"username"`
	HoTen       string                    `json:"ho_ten"`
	Role        string                    `json:"role"`
	Permissions []accessdomain.Permission `json:"permissions"`
}

var authErrors = []ErrorCase{
	{Err: userdomain.ErrInvalidCredentials, Status: http.StatusUnauthorized, Code: "invalid_credentials", Message: "Sai tên đăng nhập hoặc mật khẩu"},
	{Err: userdomain.ErrUserInactive, Status: http.StatusForbidden, Code: "user_inactive", Message: "Tài khoản đã bị khóa"},
	{Err: userdomain.ErrPasswordTooShort, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Mật khẩu phải có ít nhất 6 ký tự"},
	{Err: userdomain.ErrPasswordTooLong, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Mật khẩu quá dài (tối đa 72 byte)"},
	{Err: userdomain.ErrPasswordMismatch, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Mật khẩu xác nhận không khớp"},
	{Err: userdomain.ErrUserNotFound, Status: http.StatusNotFound, Code: "user_not_found", Message: "Không tìm thấy người dùng"},
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Vui lòng nhập tên đăng nhập và mật khẩu")
		return
	}

	session, err := h.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		WriteServiceError(w, h.log, "auth.login", err, authErrors, "username", req.Username)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	permissions, err := h.Access.RolePermissions(r.Context(), user.Role)
	if err != nil {
		WriteServiceError(w, h.log, "auth.me: load permissions", err, nil, "user_id", user.ID)
		return
	}

	writeJSON(w, http.StatusOK, authMeResponse{
		ID:          user.ID,
		Username:    user.Username,
		HoTen:       user.Name,
		Role:        user.Role,
		Permissions: permissions,
	})
}

func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Users.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.Password, req.ConfirmPassword); err != nil {
		WriteServiceError(w, h.log, "auth.change_password", err, authErrors, "user_id", user.ID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
