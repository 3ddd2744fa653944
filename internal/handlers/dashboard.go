package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"beemine-admin/internal/middleware"
	"beemine-admin/internal/services"
	"beemine-admin/internal/views"
)

const recentActivityLimit = 10

// DashboardHandler handles the dashboard page
type DashboardHandler struct {
	*Base
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(base *Base, dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		Base:             base,
		dashboardService: dashboardService,
	}
}

// Dashboard handles GET /dashboard. The from and to query values narrow the revenue
// trend without another remote call.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, ticket := h.begin(r, "dashboard")
	defer ticket.Done()

	stats, err := h.dashboardService.Stats(ctx, middleware.GetCredentials(r.Context()))
	if h.discard(w, r, ticket) {
		return
	}

	p := h.page(r, "Dashboard", "/dashboard")
	if err != nil {
		log.Error().Err(err).Msg("Failed to load dashboard stats")
		p.Error = errorMessage(err)
		h.render(w, errorStatus(err), views.PageDashboard, p)
		return
	}

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	data := views.DashboardData{
		Stats: stats,
		From:  from,
		To:    to,
		Bars:  views.Bars(views.FilterSeries(stats.RevenueGraph, from, to)),
	}

	activity, err := h.dashboardService.RecentActivity(ctx, recentActivityLimit)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load recent moderation activity")
	}
	data.Activity = activity

	p.Data = data
	h.render(w, http.StatusOK, views.PageDashboard, p)
}
