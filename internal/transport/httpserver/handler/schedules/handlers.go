package schedules

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	scheduledomain "hospital-admin-go/internal/domain/schedule"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
	"hospital-admin-go/internal/transport/httpserver/middleware"
	"hospital-admin-go/pkg/logger"
)

type Handlers struct {
	Schedules      *scheduledomain.Service
	loc            *time.Location
	maxUploadBytes int64
	log            logger.Logger
}

func New(schedules *scheduledomain.Service, loc *time.Location, maxUploadBytes int64, log logger.Logger) *Handlers {
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{
		Schedules:      schedules,
		loc:            loc,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

type scheduleRequest struct {
	NoiDung       string    `json:"noi_dung"`
	BatDau        time.Time `json:"bat_dau"`
	KetThuc       time.Time `json:"ket_thuc"`
	NguoiThucHien []string  `json:"nguoi_thuc_hien"`
	TrangThai     string    `json:"trang_thai"`
}

type statusRequest struct {
	TrangThai string `json:"trang_thai"`
}

type attachmentResponse struct {
	URL string `json:"url"`
}

type scheduleListResponse struct {
	Items []scheduledomain.View `json:"items"`
}

var scheduleErrors = []commonhandler.ErrorCase{
	{Err: scheduledomain.ErrScheduleNotFound, Status: http.StatusNotFound, Code: "schedule_not_found", Message: "Không tìm thấy lịch công tác"},
	{Err: scheduledomain.ErrContentRequired, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng nhập nội dung"},
	{Err: scheduledomain.ErrTimeRequired, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng nhập thời gian bắt đầu và kết thúc"},
	{Err: scheduledomain.ErrInvalidTimeRange, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Thời gian kết thúc phải sau thời gian bắt đầu"},
	{Err: scheduledomain.ErrInvalidStatus, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Trạng thái không hợp lệ"},
	{Err: scheduledomain.ErrInvalidPerformer, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Người thực hiện không hợp lệ"},
	{Err: scheduledomain.ErrInvalidRange, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Khoảng thời gian không hợp lệ"},
	{Err: scheduledomain.ErrNoFile, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng chọn tệp đính kèm"},
}

func (h *Handlers) ListSchedules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := scheduledomain.ListFilter{
		Search: strings.TrimSpace(query.Get("q")),
		Bucket: scheduledomain.Bucket(strings.TrimSpace(query.Get("bucket"))),
		Status: strings.TrimSpace(query.Get("trang_thai")),
	}
	switch filter.Bucket {
	case scheduledomain.BucketAll, scheduledomain.BucketToday, scheduledomain.BucketWeek, scheduledomain.BucketMonth, scheduledomain.BucketRange:
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid bucket")
		return
	}

	from, err := commonhandler.ParseTimeParam(query.Get("from"), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from")
		return
	}
	to, err := commonhandler.ParseTimeParam(query.Get("to"), h.loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to")
		return
	}
	filter.From = from
	filter.To = to

	views, err := h.Schedules.List(r.Context(), filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "schedules.list", err, scheduleErrors)
		return
	}
	writeJSON(w, http.StatusOK, scheduleListResponse{Items: views})
}

// Calendar returns every item overlapping [from, to).
func (h *Handlers) Calendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, err := commonhandler.ParseTimeParam(query.Get("from"), h.loc)
	if err != nil || from == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from is required")
		return
	}
	to, err := commonhandler.ParseTimeParam(query.Get("to"), h.loc)
	if err != nil || to == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "to is required")
		return
	}

	views, err := h.Schedules.Calendar(r.Context(), *from, *to)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "schedules.calendar", err, scheduleErrors)
		return
	}
	writeJSON(w, http.StatusOK, scheduleListResponse{Items: views})
}

func (h *Handlers) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := h.Schedules.Get(r.Context(), id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "schedules.get", err, scheduleErrors, "schedule_id", id)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Schedules.Create(r.Context(), req.input(user.Actor()))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "schedules.create", err, scheduleErrors, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Schedules.Update(r.Context(), id, req.input(""))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "schedules.update", err, scheduleErrors, "schedule_id", id)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) SetStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Schedules.SetStatus(r.Context(), id, req.TrangThai); err != nil {
		commonhandler.WriteServiceError(w, h.log, "schedules.set_status", err, scheduleErrors, "schedule_id", id, "trang_thai", req.TrangThai)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	uploads, err := commonhandler.ReadUploads(w, r, "file", h.maxUploadBytes)
	if err != nil {
		h.log.BusinessError("schedules.upload_attachment: read upload", err, "schedule_id", id)
		if errors.Is(err, commonhandler.ErrNoFiles) {
			writeError(w, http.StatusBadRequest, "invalid_request", "Vui lòng chọn tệp đính kèm")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_file", "Không đọc được tệp tải lên")
		return
	}
	defer uploads.Close()

	url, err := h.Schedules.UploadAttachment(r.Context(), id, uploads.Files[0])
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "schedules.upload_attachment", err, scheduleErrors, "schedule_id", id)
		return
	}
	writeJSON(w, http.StatusOK, attachmentResponse{URL: url})
}

func (h *Handlers) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Schedules.Delete(r.Context(), id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "schedules.delete", err, scheduleErrors, "schedule_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (req scheduleRequest) input(actor string) scheduledomain.Input {
	return scheduledomain.Input{
		NoiDung:       req.NoiDung,
		BatDau:        req.BatDau,
		KetThuc:       req.KetThuc,
		NguoiThucHien: req.NguoiThucHien,
		TrangThai:     req.TrangThai,
		Actor:         actor,
	}
}
