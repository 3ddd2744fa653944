package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"beemine-admin/internal/middleware"
)

// RouterOptions carries the handlers and middleware the router mounts
type RouterOptions struct {
	Guard      *middleware.Guard
	Auth       *AuthHandler
	Dashboard  *DashboardHandler
	Users      *UserHandler
	Revenue    *RevenueHandler
	Moderation *ModerationHandler
	WebSocket  *WebSocketHandler
	Health     *HealthHandler
	// Gatherer backs /metrics; nil uses the default registry
	Gatherer prometheus.Gatherer
	// LoginPerMinute limits login attempts per client IP; zero disables the limit
	LoginPerMinute int
}

// Router builds the HTTP router with the console pages, probes and metrics
func Router(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", opts.Health.Healthz)
	r.Get("/readyz", opts.Health.Readyz)

	metrics := promhttp.Handler()
	if opts.Gatherer != nil {
		metrics = promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})
	}
	r.Method(http.MethodGet, "/metrics", metrics)

	// Public routes
	r.Get("/", opts.Auth.LoginPage)
	r.Group(func(r chi.Router) {
		if opts.LoginPerMinute > 0 {
			r.Use(httprate.LimitByIP(opts.LoginPerMinute, time.Minute))
		}
		r.Post("/login", opts.Auth.Login)
	})
	r.Post("/logout", opts.Auth.Logout)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(opts.Guard))

		r.Get("/dashboard", opts.Dashboard.Dashboard)
		r.Get("/users", opts.Users.ListUsers)
		r.Get("/profiles/{profile_id}", opts.Users.GetProfile)
		r.Get("/revenue", opts.Revenue.Revenue)

		r.Get(PhotoVerificationPath, opts.Moderation.PhotoVerifications)
		r.Post(PhotoVerificationPath+"/{id}", opts.Moderation.UpdatePhotoVerification)
		r.Get(ProfileVerificationPath, opts.Moderation.ProfileVerifications)
		r.Post(ProfileVerificationPath+"/{id}", opts.Moderation.UpdateProfileVerification)
		r.Get(ReportsPath, opts.Moderation.Reports)
		r.Post(ReportsPath+"/{id}", opts.Moderation.UpdateReport)
		r.Get(ReviewsPath, opts.Moderation.Reviews)
		r.Post(ReviewsPath+"/{id}", opts.Moderation.UpdateReview)

		r.Get("/ws", opts.WebSocket.HandleWebSocket)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})

	return r
}
