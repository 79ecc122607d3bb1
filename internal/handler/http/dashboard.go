package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// Overview returns headline KPIs, rollups and highlight lists
	Overview(w http.ResponseWriter, r *http.Request)
	// TopPeople ranks people by days or records
	TopPeople(w http.ResponseWriter, r *http.Request)
	Shifts(w http.ResponseWriter, r *http.Request)
	MonthlyRate(w http.ResponseWriter, r *http.Request)
	Subtotals(w http.ResponseWriter, r *http.Request)
	Absenteeism(w http.ResponseWriter, r *http.Request)
	// Permits and Leaves feed the dedicated trays
	Permits(w http.ResponseWriter, r *http.Request)
	Leaves(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// Overview handles GET /dashboard
func (h *dashboardHandlerImpl) Overview(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.Overview(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TopPeople handles GET /dashboard/top-people
func (h *dashboardHandlerImpl) TopPeople(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	n, err := queryInt(r, "n", 0)
	if err != nil || n < 0 {
		response.BadRequest(w, "invalid n parameter", nil)
		return
	}
	metric := dashboard.ParseMetric(r.URL.Query().Get("metric")) // dias (default) or registros

	result, err := h.dashboardService.TopPeople(r.Context(), filter, metric, n)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Shifts handles GET /dashboard/shifts
func (h *dashboardHandlerImpl) Shifts(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.Shifts(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MonthlyRate handles GET /dashboard/monthly-rate
func (h *dashboardHandlerImpl) MonthlyRate(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	headcount, err := queryInt(r, "headcount", 0)
	if err != nil || headcount < 0 {
		response.BadRequest(w, "invalid headcount parameter", nil)
		return
	}

	result, err := h.dashboardService.MonthlyRate(r.Context(), filter, headcount)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Subtotals handles GET /dashboard/subtotals?dims=sede,tipo_registro
func (h *dashboardHandlerImpl) Subtotals(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.Subtotals(r.Context(), filter, queryList(r, "dims"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Absenteeism handles GET /dashboard/absenteeism
func (h *dashboardHandlerImpl) Absenteeism(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.Absenteeism(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Permits handles GET /dashboard/permits
func (h *dashboardHandlerImpl) Permits(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.Permits(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Leaves handles GET /dashboard/leaves
func (h *dashboardHandlerImpl) Leaves(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	result, err := h.dashboardService.Leaves(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
