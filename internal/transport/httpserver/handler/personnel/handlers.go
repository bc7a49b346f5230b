package personnel

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	personneldomain "hospital-admin-go/internal/domain/personnel"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
	"hospital-admin-go/pkg/logger"
)

type Handlers struct {
	Personnel      *personneldomain.Service
	maxUploadBytes int64
	log            logger.Logger
}

func New(personnel *personneldomain.Service, maxUploadBytes int64, log logger.Logger) *Handlers {
	return &Handlers{
		Personnel:      personnel,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

type employeeListResponse struct {
	Items []personneldomain.Employee `json:"items"`
	Total int64                      `json:"total"`
}

type bulkUpdateRequest struct {
	IDs       []string `json:"ids"`
	TrangThai *string  `json:"trang_thai"`
	DoiTuong  *string  `json:"doi_tuong"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

var employeeErrors = []commonhandler.ErrorCase{
	{Err: personneldomain.ErrEmployeeNotFound, Status: http.StatusNotFound, Code: "employee_not_found", Message: "Không tìm thấy nhân viên"},
	{Err: personneldomain.ErrNameRequired, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng nhập họ và tên"},
	{Err: personneldomain.ErrNoEmployeeSelected, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Chưa chọn nhân viên nào"},
	{Err: personneldomain.ErrNoFieldsToUpdate, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Không có trường nào để cập nhật"},
	{Err: personneldomain.ErrEmptyImport, Status: http.StatusBadRequest, Code: "empty_import", Message: "Tệp không có dòng hợp lệ (thiếu họ và tên)"},
}

func (h *Handlers) ListEmployees(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	items, total, err := h.Personnel.List(r.Context(), filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "personnel.list", err, employeeErrors)
		return
	}
	if items == nil {
		items = []personneldomain.Employee{}
	}
	writeJSON(w, http.StatusOK, employeeListResponse{Items: items, Total: total})
}

func (h *Handlers) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	details, err := h.Personnel.GetDetails(r.Context(), id)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "personnel.get", err, employeeErrors, "employee_id", id)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handlers) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req personneldomain.EmployeeDetails
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	created, err := h.Personnel.Create(r.Context(), req)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "personnel.create", err, employeeErrors)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req personneldomain.EmployeeDetails
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Personnel.Update(r.Context(), id, req)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "personnel.update", err, employeeErrors, "employee_id", id)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handlers) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Personnel.Delete(r.Context(), id); err != nil {
		commonhandler.WriteServiceError(w, h.log, "personnel.delete", err, employeeErrors, "employee_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) BulkUpdateEmployees(w http.ResponseWriter, r *http.Request) {
	var req bulkUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	updated, err := h.Personnel.BulkUpdate(r.Context(), personneldomain.BulkUpdateInput{
		IDs:      req.IDs,
		Status:   req.TrangThai,
		Category: req.DoiTuong,
	})
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "personnel.bulk_update", err, employeeErrors, "count", len(req.IDs))
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: updated})
}

func (h *Handlers) ImportEmployees(w http.ResponseWriter, r *http.Request) {
	rows, err := commonhandler.ReadSheet(w, r, "file", h.maxUploadBytes)
	if err != nil {
		h.log.BusinessError("personnel.import: read upload", err)
		if errors.Is(err, commonhandler.ErrNoFiles) {
			writeError(w, http.StatusBadRequest, "invalid_request", "Vui lòng chọn tệp Excel")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_file", "Không đọc được tệp Excel")
		return
	}

	inserted, err := h.Personnel.Import(r.Context(), rows, strings.TrimSpace(r.FormValue("doi_tuong")))
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "personnel.import", err, employeeErrors, "rows", len(rows))
		return
	}
	writeJSON(w, http.StatusCreated, countResponse{Count: int64(inserted)})
}

func (h *Handlers) ImportTemplate(w http.ResponseWriter, r *http.Request) {
	data, err := h.Personnel.Template()
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "personnel.template", err, nil)
		return
	}
	commonhandler.WriteFile(w, "mau-nhap-nhan-su.xlsx", commonhandler.XLSXContentType, data)
}

func (h *Handlers) ExportEmployees(w http.ResponseWriter, r *http.Request) {
	filter, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	data, err := h.Personnel.Export(r.Context(), filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "personnel.export", err, nil)
		return
	}
	commonhandler.WriteFile(w, "danh-sach-nhan-su.xlsx", commonhandler.XLSXContentType, data)
}

func (h *Handlers) listFilter(w http.ResponseWriter, r *http.Request) (personneldomain.ListFilter, bool) {
	query := r.URL.Query()
	limit, err := parseIntParam(query.Get("limit"), 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return personneldomain.ListFilter{}, false
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return personneldomain.ListFilter{}, false
	}

	return personneldomain.ListFilter{
		Category: query.Get("doi_tuong"),
		Status:   query.Get("trang_thai"),
		Query:    query.Get("q"),
		Limit:    limit,
		Offset:   offset,
	}, true
}
