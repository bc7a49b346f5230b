package admin

import (
	"errors"
	"net/http"

	settingsdomain "hospital-admin-go/internal/domain/settings"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
)

type backgroundResponse struct {
	URL string `json:"url"`
}

type menuOrderRequest struct {
	Order []string `json:"order"`
}

type menuOrderResponse struct {
	Order []string `json:"order"`
}

var settingErrors = []commonhandler.ErrorCase{
	{Err: settingsdomain.ErrNotAnImage, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Ảnh nền phải là tệp hình ảnh"},
	{Err: settingsdomain.ErrNoFile, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Vui lòng chọn ảnh nền"},
	{Err: settingsdomain.ErrEmptyMenuOrder, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Thứ tự menu không được để trống"},
}

func (h *Handlers) Background(w http.ResponseWriter, r *http.Request) {
	url, err := h.Settings.Background(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "settings.background", err, settingErrors)
		return
	}
	writeJSON(w, http.StatusOK, backgroundResponse{URL: url})
}

func (h *Handlers) UploadBackground(w http.ResponseWriter, r *http.Request) {
	uploads, err := commonhandler.ReadUploads(w, r, "file", h.maxUploadBytes)
	if err != nil {
		h.log.BusinessError("settings.upload_background: read upload", err)
		if errors.Is(err, commonhandler.ErrNoFiles) {
			writeError(w, http.StatusBadRequest, "invalid_request", "Vui lòng chọn ảnh nền")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_file", "Không đọc được tệp tải lên")
		return
	}
	defer uploads.Close()

	url, err := h.Settings.UploadBackground(r.Context(), uploads.Files[0])
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "settings.upload_background", err, settingErrors, "content_type", uploads.Files[0].ContentType)
		return
	}
	writeJSON(w, http.StatusOK, backgroundResponse{URL: url})
}

func (h *Handlers) MenuOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Settings.MenuOrder(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "settings.menu_order", err, settingErrors)
		return
	}
	writeJSON(w, http.StatusOK, menuOrderResponse{Order: order})
}

func (h *Handlers) SaveMenuOrder(w http.ResponseWriter, r *http.Request) {
	var req menuOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	order, err := h.Settings.SaveMenuOrder(r.Context(), req.Order)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "settings.save_menu_order", err, settingErrors)
		return
	}
	writeJSON(w, http.StatusOK, menuOrderResponse{Order: order})
}
