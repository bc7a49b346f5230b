package analytics

import (
	"net/http"
	"time"

	analyticsdomain "hospital-admin-go/internal/domain/analytics"
	commonhandler "hospital-admin-go/internal/transport/httpserver/handler/common"
	"hospital-admin-go/pkg/logger"
)

type Handlers struct {
	Analytics *analyticsdomain.Service
	loc       *time.Location
	log       logger.Logger
}

func New(analytics *analyticsdomain.Service, loc *time.Location, log logger.Logger) *Handlers {
	if loc == nil {
		loc = time.UTC
	}
	return &Handlers{Analytics: analytics, loc: loc, log: log}
}

type borrowsResponse struct {
	GroupBy string                        `json:"group_by"`
	Items   []analyticsdomain.BorrowPoint `json:"items"`
}

var analyticsErrors = []commonhandler.ErrorCase{
	{Err: analyticsdomain.ErrInvalidGroupBy, Status: http.StatusBadRequest, Code: "invalid_request", Message: "group_by phải là day, week hoặc month"},
	{Err: analyticsdomain.ErrInvalidRange, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Khoảng thời gian không hợp lệ"},
	{Err: analyticsdomain.ErrRangeTooLong, Status: http.StatusBadRequest, Code: "invalid_request", Message: "Khoảng thời gian tối đa là 366 ngày"},
}

func (h *Handlers) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Analytics.Overview(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "analytics.overview", err, analyticsErrors)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *Handlers) Borrows(w http.ResponseWriter, r *http.Request) {
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

	filter := analyticsdomain.BorrowFilter{From: *from, To: *to, GroupBy: query.Get("group_by")}
	points, err := h.Analytics.Borrows(r.Context(), filter)
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "analytics.borrows", err, analyticsErrors, "group_by", filter.GroupBy)
		return
	}

	groupBy := filter.GroupBy
	if groupBy == "" {
		groupBy = analyticsdomain.GroupByDay
	}
	writeJSON(w, http.StatusOK, borrowsResponse{GroupBy: groupBy, Items: points})
}
