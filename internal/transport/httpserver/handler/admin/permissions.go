package admin

import (
	"net/http"

	accessdomain "hospital-admin-go/internal/domain/access"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
)

type permissionMatrixResponse struct {
	Modules     []string                  `json:"modules"`
	Permissions []accessdomain.Permission `json:"permissions"`
}

type updatePermissionsRequest struct {
	Permissions []accessdomain.Permission `json:"permissions"`
}

var permissionErrors = []commonhandler.ErrorCase{
	{Err: accessdomain.ErrInvalidRole, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Chỉ được phân quyền cho vai trò user hoặc manager"},
	{Err: accessdomain.ErrUnknownModule, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Phân hệ không hợp lệ"},
}

func (h *Handlers) PermissionMatrix(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.Access.Matrix(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "permissions.matrix", err, permissionErrors)
		return
	}
	if permissions == nil {
		permissions = []accessdomain.Permission{}
	}
	writeJSON(w, http.StatusOK, permissionMatrixResponse{Modules: accessdomain.Modules, Permissions: permissions})
}

func (h *Handlers) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	var req updatePermissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	if err := h.Access.Update(r.Context(), req.Permissions); err != nil {
		commonhandler.WriteServiceError(w, h.log, "permissions.update", err, permissionErrors, "count", len(req.Permissions))
		return
	}
	h.PermissionMatrix(w, r)
}
