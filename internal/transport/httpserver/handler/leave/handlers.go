package leave

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	leavedomain "hospital-admin-go/internal/domain/leave"
	"hospital-admin-go/internal/domain/shared"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
	"hospital-admin-go/internal/transport/httpserver/middleware"
	"hospital-admin-go/pkg/logger"
)

type Handlers struct {
	Leave *leavedomain.Service
	log   logger.Logger
}

func New(leave *leavedomain.Service, log logger.Logger) *Handlers {
	return &Handlers{Leave: leave, log: log}
}

type leaveRequest struct {
	EmployeeID string      `json:"employee_id"`
	LoaiNghi   string      `json:"loai_nghi"`
	TuNgay     shared.Date `json:"tu_ngay"`
	DenNgay    shared.Date `json:"den_ngay"`
	LyDo       string      `json:"ly_do"`
}

type leaveResponse struct {
	leavedomain.LeaveRequestView
	SoNgay int `json:"so_ngay"`
}

type leaveListResponse struct {
	Items []leaveResponse `json:"items"`
}

var leaveErrors = []commonhandler.ErrorCase{
	{Err: leavedomain.ErrLeaveNotFound, Status: http.StatusNotFound, Code: "leave_not_found", Message: "Không tìm thấy đơn nghỉ"},
	{Err: leavedomain.ErrNotPending, Status: http.StatusConflict, Code: "leave_not_pending", Message: "Đơn nghỉ đã được xử lý"},
	{Err: leavedomain.ErrEmployeeRequired, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng chọn nhân viên"},
	{Err: leavedomain.ErrInvalidEmployee, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Mã nhân viên không hợp lệ"},
	{Err: leavedomain.ErrTypeRequired, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng chọn loại nghỉ"},
	{Err: leavedomain.ErrDatesRequired, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng nhập từ ngày và đến ngày"},
	{Err: leavedomain.ErrInvalidDateRange, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Từ ngày không được sau đến ngày"},
	{Err: leavedomain.ErrApproverRequired, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Thiếu người duyệt"},
}

func (h *Handlers) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	views, err := h.Leave.List(r.Context(), leavedomain.ListFilter{
		EmployeeID: query.Get("employee_id"),
		Status:     query.Get("trang_thai"),
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "leave.list", err, leaveErrors)
		return
	}

	items := make([]leaveResponse, 0, len(views))
	for _, view := range views {
		items = append(items, leaveResponse{LeaveRequestView: view, SoNgay: view.Days()})
	}
	writeJSON(w, http.StatusOK, leaveListResponse{Items: items})
}

func (h *Handlers) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req leaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Leave.Create(r.Context(), req.input())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "leave.create", err, leaveErrors)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req leaveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Leave.Update(r.Context(), id, req.input())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "leave.update", err, leaveErrors, "leave_id", id)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteLeaveRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Leave.Delete(r.Context(), id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "leave.delete", err, leaveErrors, "leave_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ApproveLeaveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "leave.approve", h.Leave.Approve)
}

func (h *Handlers) RejectLeaveRequest(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, "leave.reject", h.Leave.Reject)
}

type decideFunc func(ctx context.Context, id, approver string) (*leavedomain.LeaveRequest, error)

func (h *Handlers) decide(w http.ResponseWriter, r *http.Request, op string, decide decideFunc) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	id := chi.URLParam(r, "id")
	decided, err := decide(r.Context(), id, user.Actor())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, op, err, leaveErrors, "leave_id", id, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, decided)
}

func (req leaveRequest) input() leavedomain.Input {
	return leavedomain.Input{
		EmployeeID: req.EmployeeID,
		LoaiNghi:   req.LoaiNghi,
		TuNgay:     req.TuNgay,
		DenNgay:    req.DenNgay,
		LyDo:       req.LyDo,
	}
}
