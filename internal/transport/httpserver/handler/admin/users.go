package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	userdomain "hospital-admin-go/internal/domain/user"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
	"hospital-admin-go/internal/transport/httpserver/middleware"
)

type createUserRequest struct {
	Username        string `json:"username"`
	HoTen           string `json:"ho_ten"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Role            string `json:"role"`
}

type updateUserRequest struct {
	HoTen           *string `json:"ho_ten"`
	Role            *string `json:"role"`
	IsActive        *bool   `json:"is_active"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
}

type userListResponse struct {
	Items []userdomain.SystemUser `json:"items"`
}

var userErrors = []commonhandler.ErrorCase{
	{Err: userdomain.ErrUserNotFound, Status: http.StatusNotFound, Code: "user_not_found", Message: "Không tìm thấy người dùng"},
	{Err: userdomain.ErrUsernameTaken, Status: http.StatusConflict, Code: "username_taken", Message: "Tên đăng nhập đã tồn tại"},
	{Err: userdomain.ErrLastAdmin, Status: http.StatusConflict, Code: "last_admin", Message: "Phải còn ít nhất một quản trị viên đang hoạt động"},
	{Err: userdomain.ErrUsernameRequired, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng nhập tên đăng nhập"},
	{Err: userdomain.ErrPasswordTooShort, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Mật khẩu phải có ít nhất 6 ký tự"},
	{Err: userdomain.ErrPasswordTooLong, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Mật khẩu quá dài (tối đa 72 byte)"},
	{Err: userdomain.ErrPasswordMismatch, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Mật khẩu xác nhận không khớp"},
	{Err: userdomain.ErrInvalidRole, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vai trò không hợp lệ"},
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "users.list", err, userErrors)
		return
	}
	if users == nil {
		users = []userdomain.SystemUser{}
	}
	writeJSON(w, http.StatusOK, userListResponse{Items: users})
}

func (h *Handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Users.Create(r.Context(), userdomain.CreateInput(req))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "users.create", err, userErrors, "username", req.Username)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Users.Update(r.Context(), id, userdomain.UpdateInput(req))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "users.update", err, userErrors, "user_id", id)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if current, ok := middleware.UserFromContext(r.Context()); ok && current.ID == id {
		writeError(w, http.StatusConflict, "self_delete", "Không thể xóa tài khoản đang đăng nhập")
		return
	}

	if err := h.Users.Delete(r.Context(), id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "users.delete", err, userErrors, "user_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
