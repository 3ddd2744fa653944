package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"beemine-admin/internal/middleware"
	"beemine-admin/internal/services"
	"beemine-admin/internal/views"
)

// RevenueHandler handles the revenue analytics page
type RevenueHandler struct {
	*Base
	revenueService *services.RevenueService
	now            func() time.Time
}

// NewRevenueHandler creates a new revenue handler
func NewRevenueHandler(base *Base, revenueService *services.RevenueService) *RevenueHandler {
	return &RevenueHandler{
		Base:           base,
		revenueService: revenueService,
		now:            time.Now,
	}
}

// Revenue handles GET /revenue. Without a range it shows the last 30 days; an invalid
// range keeps the form and shows the problem instead of calling the API.
func (h *RevenueHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, to := q.Get("from"), q.Get("to")
	if from == "" && to == "" {
		from, to = services.DefaultRange(h.now())
	}

	data := views.RevenueData{From: from, To: to}
	if err := services.ValidateRange(from, to); err != nil {
		p := h.page(r, "Revenue", "/revenue")
		p.Notice = &views.Notice{Kind: "error", Message: errorMessage(err)}
		p.Data = data
		h.render(w, http.StatusBadRequest, views.PageRevenue, p)
		return
	}

	ctx, ticket := h.begin(r, "revenue")
	defer ticket.Done()

	analytics, err := h.revenueService.Analytics(ctx, middleware.GetCredentials(r.Context()), from, to)
	if h.discard(w, r, ticket) {
		return
	}

	p := h.page(r, "Revenue", "/revenue")
	if err != nil {
		log.Error().Err(err).Str("from", from).Str("to", to).Msg("Failed to load revenue analytics")
		p.Error = errorMessage(err)
		h.render(w, errorStatus(err), views.PageRevenue, p)
		return
	}

	data.Analytics = analytics
	data.Bars = views.DailyBars(analytics.Daily)
	p.Data = data
	h.render(w, http.StatusOK, views.PageRevenue, p)
}
