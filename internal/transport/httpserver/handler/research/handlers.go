package research

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	researchdomain "hospital-admin-go/internal/domain/research"
	"hospital-admin-go/internal/domain/shared"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
	"hospital-admin-go/pkg/logger"
)

type Handlers struct {
	Research       *researchdomain.Service
	maxUploadBytes int64
	log            logger.Logger
}

func New(research *researchdomain.Service, maxUploadBytes int64, log logger.Logger) *Handlers {
	return &Handlers{
		Research:       research,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

type topicRequest struct {
	TenDeTai    string       `json:"ten_de_tai"`
	EmployeeID  *string      `json:"employee_id"`
	VaiTro      string       `json:"vai_tro"`
	CapQuanLy   string       `json:"cap_quan_ly"`
	TrangThai   string       `json:"trang_thai"`
	NgayBatDau  *shared.Date `json:"ngay_bat_dau"`
	NgayKetThuc *shared.Date `json:"ngay_ket_thuc"`
	KetQua      string       `json:"ket_qua"`
}

type evidenceResponse struct {
	URLs []string `json:"urls"`
}

var researchErrors = []commonhandler.ErrorCase{
	{Err: researchdomain.ErrTopicNotFound, Status: http.StatusNotFound, Code: "topic_not_found", Message: "Không tìm thấy đề tài"},
	{Err: researchdomain.ErrEvidenceAbsent, Status: http.StatusNotFound, Code: "evidence_not_found", Message: "Không tìm thấy minh chứng"},
	{Err: researchdomain.ErrTitleRequired, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng nhập tên đề tài"},
	{Err: researchdomain.ErrInvalidStatus, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Trạng thái đề tài không hợp lệ"},
	{Err: researchdomain.ErrInvalidOwner, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Mã nhân viên chủ nhiệm không hợp lệ"},
	{Err: researchdomain.ErrInvalidPeriod, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Ngày kết thúc không được trước ngày bắt đầu"},
	{Err: researchdomain.ErrNoFiles, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng chọn tệp minh chứng"},
}

func (h *Handlers) ListTopics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := commonhandler.ParseIntParam(query.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page")
		return
	}
	pageSize, err := commonhandler.ParseIntParam(query.Get("page_size"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid page_size")
		return
	}

	result, err := h.Research.List(r.Context(), researchdomain.ListQuery{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(query.Get("q")),
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "research.list", err, researchErrors)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetTopic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	topic, err := h.Research.Get(r.Context(), id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "research.get", err, researchErrors, "topic_id", id)
		return
	}
	writeJSON(w, http.StatusOK, topic)
}

func (h *Handlers) CreateTopic(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Research.Create(r.Context(), researchdomain.Input(req))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "research.create", err, researchErrors)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req topicRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Research.Update(r.Context(), id, researchdomain.Input(req))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "research.update", err, researchErrors, "topic_id", id)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Research.Delete(r.Context(), id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "research.delete", err, researchErrors, "topic_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CloneTopic(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	clone, err := h.Research.Clone(r.Context(), id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "research.clone", err, researchErrors, "topic_id", id)
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}

func (h *Handlers) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	uploads, err := commonhandler.ReadUploads(w, r, "files", h.maxUploadBytes)
	if err != nil {
		h.log.BusinessError("research.upload_evidence: read upload", err, "topic_id", id)
		if errors.Is(err, commonhandler.ErrNoFiles) {
			writeError(w, http.StatusBadRequest, "invalid_request", "Vui lòng chọn tệp minh chứng")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_file", "Không đọc được tệp tải lên")
		return
	}
	defer uploads.Close()

	urls, err := h.Research.UploadEvidence(r.Context(), id, uploads.Files)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "research.upload_evidence", err, researchErrors, "topic_id", id, "files", len(uploads.Files))
		return
	}
	writeJSON(w, http.StatusOK, evidenceResponse{URLs: urls})
}

// RemoveEvidence detaches the link given in ?url= from the topic. The stored
// object itself is left in the bucket.
func (h *Handlers) RemoveEvidence(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "url is required")
		return
	}

	if err := h.Research.RemoveEvidence(r.Context(), id, url); err != nil {
		commonhandler.WriteServiceError(w, h.log, "research.remove_evidence", err, researchErrors, "topic_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
