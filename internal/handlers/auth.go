package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"beemine-admin/internal/middleware"
	"beemine-admin/internal/services"
	"beemine-admin/internal/upstream"
	"beemine-admin/internal/views"
)

// AuthHandler handles the login and logout pages
type AuthHandler struct {
	*Base
	authService *services.AuthService
	guard       *middleware.Guard
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(base *Base, authService *services.AuthService, guard *middleware.Guard) *AuthHandler {
	return &AuthHandler{
		Base:        base,
		authService: authService,
		guard:       guard,
	}
}

// LoginPage handles GET /. An admin whose stored token still checks out goes straight
// to the dashboard.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	res := h.guard.Evaluate(r)
	if res.State == middleware.StateAuthenticated {
		redirect(w, r, "/dashboard")
		return
	}

	h.render(w, http.StatusOK, views.PageLogin, views.Page{Title: "Login", Data: views.LoginData{}})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Cache-Control", "no-store")

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	result, err := h.authService.Login(ctx, email, password)
	if err != nil {
		log.Info().
			Str("email", email).
			Str("kind", upstream.Kind(err)).
			Msg("Login failed")

		status := http.StatusUnauthorized
		if errorStatus(err) == http.StatusBadRequest {
			status = http.StatusBadRequest
		}
		h.render(w, status, views.PageLogin, views.Page{
			Title: "Login",
			Error: errorMessage(err),
			Data:  views.LoginData{Email: email},
		})
		return
	}

	store, err := h.sessions.Renew(ctx, w, r)
	if err == nil {
		err = store.SaveLogin(ctx, result)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to save session")
		h.render(w, http.StatusInternalServerError, views.PageLogin, views.Page{
			Title: "Login",
			Error: "Could not start your session. Please try again.",
			Data:  views.LoginData{Email: email},
		})
		return
	}

	log.Info().
		Str("session", store.String()).
		Str("role", result.Role).
		Msg("Admin logged in")

	redirect(w, r, "/dashboard")
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	store, _ := h.sessions.Lookup(r)
	if err := h.sessions.Destroy(r.Context(), w, store); err != nil {
		log.Error().Err(err).Msg("Failed to clear session on logout")
	}
	middleware.RedirectToLogin(w, r)
}
