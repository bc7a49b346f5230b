package cards

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	carddomain "hospital-admin-go/internal/domain/card"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
	"hospital-admin-go/internal/transport/httpserver/middleware"
	"hospital-admin-go/pkg/logger"
)

type Handlers struct {
	Cards          *carddomain.Service
	maxUploadBytes int64
	log            logger.Logger
}

func New(cards *carddomain.Service, maxUploadBytes int64, log logger.Logger) *Handlers {
	return &Handlers{
		Cards:          cards,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

type cardRequest struct {
	SoThe     string `json:"so_the"`
	TrangThai string `json:"trang_thai"`
	GhiChu    string `json:"ghi_chu"`
}

type recordRequest struct {
	SoThe        string     `json:"so_the"`
	TenBenhNhan  string     `json:"ten_benh_nhan"`
	TenNguoiCham string     `json:"ten_nguoi_cham"`
	SoDienThoai  string     `json:"so_dien_thoai"`
	KhoaPhong    string     `json:"khoa_phong"`
	TienCoc      int64      `json:"tien_coc"`
	NgayMuon     *time.Time `json:"ngay_muon"`
	GhiChu       string     `json:"ghi_chu"`
}

type handoverRequest struct {
	IDs       []string `json:"ids"`
	Leg       string   `json:"leg"`
	TrangThai string   `json:"trang_thai"`
}

type borrowResponse struct {
	Record  *carddomain.CardRecord `json:"record"`
	Warning string                 `json:"warning,omitempty"`
}

type warningResponse struct {
	Warning string `json:"warning"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

var cardErrors = []commonhandler.ErrorCase{
	{Err: carddomain.ErrCardNotFound, Status: http.StatusNotFound, Code: "card_not_found", Message: "Không tìm thấy thẻ"},
	{Err: carddomain.ErrRecordNotFound, Status: http.StatusNotFound, Code: "record_not_found", Message: "Không tìm thấy phiếu mượn thẻ"},
	{Err: carddomain.ErrCardExists, Status: http.StatusConflict, Code: "card_exists", Message: "Số thẻ đã tồn tại"},
	{Err: carddomain.ErrCardLost, Status: http.StatusConflict, Code: "card_lost", Message: "Thẻ đã được báo mất"},
	{Err: carddomain.ErrAlreadyReturned, Status: http.StatusConflict, Code: "already_returned", Message: "Thẻ đã được trả"},
	{Err: carddomain.ErrCardNumberRequired, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng nhập số thẻ"},
	{Err: carddomain.ErrPatientRequired, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng nhập tên bệnh nhân"},
	{Err: carddomain.ErrInvalidLeg, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Loại bàn giao không hợp lệ"},
	{Err: carddomain.ErrInvalidHandover, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Trạng thái bàn giao không hợp lệ"},
	{Err: carddomain.ErrNoRecordSelected, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Chưa chọn phiếu nào"},
	{Err: carddomain.ErrInvalidCardStatus, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Trạng thái thẻ không hợp lệ"},
	{Err: carddomain.ErrEmptyImport, Status: http.StatusBadRequest, Code: "empty_import", Message: "Tệp không có dòng hợp lệ"},
}

func (h *Handlers) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Cards.ListCards(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.list", err, cardErrors)
		return
	}
	if cards == nil {
		cards = []carddomain.Card{}
	}
	writeJSON(w, http.StatusOK, itemsResponse[carddomain.Card]{Items: cards})
}

func (h *Handlers) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	card, err := h.Cards.CreateCard(r.Context(), carddomain.CardInput(req))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.create", err, cardErrors, "so_the", req.SoThe)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (h *Handlers) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req cardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	card, err := h.Cards.UpdateCard(r.Context(), id, carddomain.CardInput(req))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.update", err, cardErrors, "card_id", id)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handlers) MarkCardLost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	card, err := h.Cards.MarkLost(r.Context(), id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.mark_lost", err, cardErrors, "card_id", id)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (h *Handlers) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Cards.DeleteCard(r.Context(), id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.delete", err, cardErrors, "card_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.recordFilter(w, r)
	if !ok {
		return
	}

	records, err := h.Cards.ListRecords(r.Context(), filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.list_records", err, cardErrors)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse[carddomain.CardRecord]{Items: records})
}

func (h *Handlers) DuplicateWarning(w http.ResponseWriter, r *http.Request) {
	warning, err := h.Cards.DuplicateWarning(r.Context(), r.URL.Query().Get("ten_benh_nhan"))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.duplicate_warning", err, cardErrors)
		return
	}
	writeJSON(w, http.StatusOK, warningResponse{Warning: warning})
}

func (h *Handlers) Borrow(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.TienCoc < 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "Tiền cọc không hợp lệ")
		return
	}

	result, err := h.Cards.Borrow(r.Context(), carddomain.BorrowInput{
		SoThe:        req.SoThe,
		TenBenhNhan:  req.TenBenhNhan,
		TenNguoiCham: req.TenNguoiCham,
		SoDienThoai:  req.SoDienThoai,
		KhoaPhong:    req.KhoaPhong,
		TienCoc:      req.TienCoc,
		NgayMuon:     req.NgayMuon,
		GhiChu:       req.GhiChu,
		Actor:        user.Actor(),
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.borrow", err, cardErrors, "so_the", req.SoThe, "user_id", user.ID)
		return
	}
	if result.Warning != "" {
		h.log.Info("cards.borrow: duplicate borrow warning", "so_the", req.SoThe, "record_id", result.Record.ID)
	}
	writeJSON(w, http.StatusCreated, borrowResponse{Record: result.Record, Warning: result.Warning})
}

func (h *Handlers) Return(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	id := chi.URLParam(r, "id")
	record, err := h.Cards.Return(r.Context(), id, user.Actor())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.return", err, cardErrors, "record_id", id, "user_id", user.ID)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	record, err := h.Cards.UpdateRecord(r.Context(), id, carddomain.RecordUpdateInput{
		SoThe:        req.SoThe,
		TenBenhNhan:  req.TenBenhNhan,
		TenNguoiCham: req.TenNguoiCham,
		SoDienThoai:  req.SoDienThoai,
		KhoaPhong:    req.KhoaPhong,
		TienCoc:      req.TienCoc,
		NgayMuon:     req.NgayMuon,
		GhiChu:       req.GhiChu,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.update_record", err, cardErrors, "record_id", id)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Cards.DeleteRecord(r.Context(), id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.delete_record", err, cardErrors, "record_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) BatchHandover(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	var req handoverRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Cards.BatchHandover(r.Context(), carddomain.HandoverInput{
		IDs:   req.IDs,
		Leg:   carddomain.Leg(req.Leg),
		State: req.TrangThai,
		Actor: user.Actor(),
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.batch_handover", err, cardErrors, "count", len(req.IDs), "leg", req.Leg)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: updated})
}

func (h *Handlers) ExportRecords(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.recordFilter(w, r)
	if !ok {
		return
	}

	data, err := h.Cards.ExportRecords(r.Context(), filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.export", err, cardErrors)
		return
	}
	commonhandler.WriteFile(w, "muon-the.xlsx", commonhandler.XLSXContentType, data)
}

func (h *Handlers) ImportRecords(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	rows, err := commonhandler.ReadSheet(w, r, "file", h.maxUploadBytes)
	if err != nil {
		h.log.BusinessError("cards.import: read upload", err, "user_id", user.ID)
		if errors.Is(err, commonhandler.ErrNoFiles) {
			writeError(w, http.StatusBadRequest, "invalid_request", "Vui lòng chọn tệp Excel")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_file", "Không đọc được tệp Excel")
		return
	}

	inserted, err := h.Cards.ImportRecords(r.Context(), rows, user.Actor())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "cards.import", err, cardErrors, "rows", len(rows))
		return
	}
	writeJSON(w, http.StatusCreated, countResponse{Count: int64(inserted)})
}

// recordFilter reads q, bucket (today, yesterday, days_ago, range), days,
// from, to and status (all, borrowing, returned).
func (h *Handlers) recordFilter(w http.ResponseWriter, r *http.Request) (carddomain.RecordFilter, bool) {
	query := r.URL.Query()
	loc := h.Cards.Location()

	filter := carddomain.RecordFilter{
		Search:   strings.TrimSpace(query.Get("q")),
		Bucket:   carddomain.DateBucket(strings.TrimSpace(query.Get("bucket"))),
		Status:   carddomain.StatusFilter(strings.TrimSpace(query.Get("status"))),
		Location: loc,
	}

	switch filter.Bucket {
	case carddomain.BucketAll, carddomain.BucketToday, carddomain.BucketYesterday, carddomain.BucketDaysAgo, carddomain.BucketRange:
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid bucket")
		return filter, false
	}
	switch filter.Status {
	case "", carddomain.StatusAll, carddomain.StatusBorrowing, carddomain.StatusReturned:
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid status")
		return filter, false
	}

	days, err := commonhandler.ParseIntParam(query.Get("days"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid days")
		return filter, false
	}
	filter.DaysAgo = days

	from, err := commonhandler.ParseTimeParam(query.Get("from"), loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from")
		return filter, false
	}
	to, err := commonhandler.ParseTimeParam(query.Get("to"), loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to")
		return filter, false
	}
	filter.From = from
	filter.To = to
	return filter, true
}
