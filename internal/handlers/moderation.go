package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"beemine-admin/internal/middleware"
	"beemine-admin/internal/models"
	"beemine-admin/internal/services"
	"beemine-admin/internal/views"
)

// Moderation queue pages
const (
	PhotoVerificationPath   = "/photo-verification"
	ProfileVerificationPath = "/profile-verification"
	ReportsPath             = "/reports"
	ReviewsPath             = "/reviews"
)

// ModerationHandler handles the four moderation queues. Every mutation is answered with a
// redirect back to the queue page, so the list shown afterwards is always a fresh fetch.
type ModerationHandler struct {
	*Base
	photoService   *services.PhotoVerificationService
	profileService *services.ProfileVerificationService
	reportService  *services.ReportService
	reviewService  *services.ReviewService
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(
	base *Base,
	photoService *services.PhotoVerificationService,
	profileService *services.ProfileVerificationService,
	reportService *services.ReportService,
	reviewService *services.ReviewService,
) *ModerationHandler {
	return &ModerationHandler{
		Base:           base,
		photoService:   photoService,
		profileService: profileService,
		reportService:  reportService,
		reviewService:  reviewService,
	}
}

type queuePage struct {
	name  string
	title string
	path  string
	queue string
}

var (
	photoQueuePage   = queuePage{name: views.PagePhotoVerification, title: "Photo Verification", path: PhotoVerificationPath, queue: services.QueuePhotoVerification}
	profileQueuePage = queuePage{name: views.PageProfileVerification, title: "Profile Verification", path: ProfileVerificationPath, queue: services.QueueProfileVerification}
	reportQueuePage  = queuePage{name: views.PageReports, title: "Reports", path: ReportsPath, queue: services.QueueReports}
	reviewQueuePage  = queuePage{name: views.PageReviews, title: "Review Verification", path: ReviewsPath, queue: services.QueueReviews}
)

// renderQueue fetches one page of a queue and renders it
func renderQueue[T any](h *ModerationHandler, w http.ResponseWriter, r *http.Request, q queuePage, fetch func(context.Context, models.Credentials, int, int) (models.Page[T], error)) {
	page := pageParam(r.URL.Query().Get("page"))

	ctx, ticket := h.begin(r, q.queue)
	defer ticket.Done()

	result, err := fetch(ctx, middleware.GetCredentials(r.Context()), page, h.pageSize)
	if h.discard(w, r, ticket) {
		return
	}

	p := h.page(r, q.title, q.path)
	p.LiveQueue = q.queue
	if err != nil {
		log.Error().Err(err).Str("queue", q.queue).Int("page", page).Msg("Failed to load moderation queue")
		p.Error = errorMessage(err)
		h.render(w, errorStatus(err), q.name, p)
		return
	}

	p.Data = views.ListData[T]{
		Items: result.Items,
		Pager: views.NewPager(result.Page, result.TotalPages),
		Path:  q.path,
	}
	h.render(w, http.StatusOK, q.name, p)
}

type mutateFunc func(ctx context.Context, creds models.Credentials, id, action string) (string, error)

// mutate applies one moderation action and redirects back to the page it was taken on
func (h *ModerationHandler) mutate(w http.ResponseWriter, r *http.Request, q queuePage, do mutateFunc) {
	id := chi.URLParam(r, "id")
	action := strings.TrimSpace(r.PostFormValue("action"))
	page := pageParam(r.PostFormValue("page"))

	message, err := do(r.Context(), middleware.GetCredentials(r.Context()), id, action)
	if err != nil {
		log.Warn().
			Err(err).
			Str("queue", q.queue).
			Str("id", id).
			Str("action", action).
			Msg("Moderation action failed")
		h.flash(r, "error", errorMessage(err))
	} else {
		log.Info().
			Str("queue", q.queue).
			Str("id", id).
			Str("action", action).
			Msg("Moderation action applied")
		h.flash(r, "success", message)
	}

	redirect(w, r, withPage(q.path, page, tabParam(r)))
}

// PhotoVerifications handles GET /photo-verification
func (h *ModerationHandler) PhotoVerifications(w http.ResponseWriter, r *http.Request) {
	renderQueue(h, w, r, photoQueuePage, h.photoService.List)
}

// UpdatePhotoVerification handles POST /photo-verification/{id}
func (h *ModerationHandler) UpdatePhotoVerification(w http.ResponseWriter, r *http.Request) {
	reason := strings.TrimSpace(r.PostFormValue("reason"))
	h.mutate(w, r, photoQueuePage, func(ctx context.Context, creds models.Credentials, id, action string) (string, error) {
		return h.photoService.Update(ctx, creds, id, action, reason)
	})
}

// ProfileVerifications handles GET /profile-verification
func (h *ModerationHandler) ProfileVerifications(w http.ResponseWriter, r *http.Request) {
	renderQueue(h, w, r, profileQueuePage, h.profileService.List)
}

// UpdateProfileVerification handles POST /profile-verification/{id}
func (h *ModerationHandler) UpdateProfileVerification(w http.ResponseWriter, r *http.Request) {
	remarks := strings.TrimSpace(r.PostFormValue("remarks"))
	h.mutate(w, r, profileQueuePage, func(ctx context.Context, creds models.Credentials, id, action string) (string, error) {
		return h.profileService.Update(ctx, creds, id, action, remarks)
	})
}

// Reports handles GET /reports
func (h *ModerationHandler) Reports(w http.ResponseWriter, r *http.Request) {
	renderQueue(h, w, r, reportQueuePage, h.reportService.List)
}

// UpdateReport handles POST /reports/{id}
func (h *ModerationHandler) UpdateReport(w http.ResponseWriter, r *http.Request) {
	remarks := strings.TrimSpace(r.PostFormValue("remarks"))
	h.mutate(w, r, reportQueuePage, func(ctx context.Context, creds models.Credentials, id, action string) (string, error) {
		return h.reportService.Update(ctx, creds, id, action, remarks)
	})
}

// Reviews handles GET /reviews
func (h *ModerationHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	renderQueue(h, w, r, reviewQueuePage, h.reviewService.List)
}

// UpdateReview handles POST /reviews/{id}
func (h *ModerationHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, reviewQueuePage, h.reviewService.Update)
}
