package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"beemine-admin/internal/middleware"
	"beemine-admin/internal/services"
	"beemine-admin/internal/session"
	"beemine-admin/internal/upstream"
	"beemine-admin/internal/views"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// Base holds what every page handler needs
type Base struct {
	renderer *views.Renderer
	sessions *session.Manager
	tracker  *services.FetchTracker
	pageSize int
}

// NewBase creates the shared page handler dependencies
func NewBase(renderer *views.Renderer, sessions *session.Manager, tracker *services.FetchTracker, pageSize int) *Base {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Base{
		renderer: renderer,
		sessions: sessions,
		tracker:  tracker,
		pageSize: pageSize,
	}
}

// page starts the layout data of an authenticated page and consumes the pending flash
func (b *Base) page(r *http.Request, title, active string) views.Page {
	p := views.Page{
		Title:  title,
		Active: active,
		Admin:  middleware.GetCredentials(r.Context()),
	}
	if store := middleware.GetSession(r.Context()); store != nil {
		if f, ok := store.PopFlash(r.Context()); ok {
			p.Notice = &views.Notice{Kind: f.Kind, Message: f.Message}
		}
	}
	return p
}

func (b *Base) render(w http.ResponseWriter, status int, name string, p views.Page) {
	if err := b.renderer.Render(w, status, name, p); err != nil {
		log.Error().Err(err).Str("page", name).Msg("Failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// begin starts a tracked fetch for the page instance that issued r. A browser tab sends
// its tab id, so a newer load in that tab supersedes the older one whatever page it is
// for. Without a tab id only an identical request for the same view supersedes.
func (b *Base) begin(r *http.Request, view string) (context.Context, *services.Ticket) {
	creds := middleware.GetCredentials(r.Context())
	key := creds.SessionID + ":"
	if tab := tabParam(r); tab != "" {
		key += "tab:" + tab
	} else {
		key += view + ":" + r.URL.RequestURI()
	}
	return b.tracker.Begin(r.Context(), key)
}

// discard reports whether the result of ticket must not be shown. A fetch that lost to a
// newer one gets 409; a fetch whose browser went away gets nothing.
func (b *Base) discard(w http.ResponseWriter, r *http.Request, ticket *services.Ticket) bool {
	if r.Context().Err() != nil {
		return true
	}
	if !ticket.Current() {
		log.Debug().Str("path", r.URL.Path).Msg("Discarding superseded fetch")
		w.WriteHeader(http.StatusConflict)
		return true
	}
	return false
}

// flash stores a notice for the page the caller is redirected to
func (b *Base) flash(r *http.Request, kind, message string) {
	store := middleware.GetSession(r.Context())
	if store == nil {
		return
	}
	if err := store.SetFlash(r.Context(), kind, message); err != nil {
		log.Error().Err(err).Str("session", store.String()).Msg("Failed to store flash")
	}
}

// redirect answers a form post with 303 so a reload never re-submits it
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// errorMessage returns the text shown to the admin for err
func errorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrRemarksRequired):
		return "Please enter remarks before taking action."
	case errors.Is(err, services.ErrInvalidAction):
		return "Invalid action"
	case errors.Is(err, services.ErrMissingID):
		return "Missing record id"
	case errors.Is(err, services.ErrMissingCredentials):
		return "Please enter email and password"
	case errors.Is(err, services.ErrInvalidDateRange):
		return "Please select a valid date range"
	default:
		return upstream.Message(err)
	}
}

// errorStatus maps err to the status of the rendered error state
func errorStatus(err error) int {
	var apiErr *upstream.APIError
	switch {
	case errors.Is(err, services.ErrRemarksRequired),
		errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrMissingID),
		errors.Is(err, services.ErrMissingCredentials),
		errors.Is(err, services.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, upstream.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr):
		if apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden {
			return apiErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

// pageParam reads the 1-based page query value, defaulting to 1
func pageParam(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

const maxTabLen = 32

// tabParam returns the tab id of r from the query or the posted form. Anything that is
// not a short alphanumeric token is ignored.
func tabParam(r *http.Request) string {
	tab := r.URL.Query().Get("tab")
	if tab == "" && r.Method == http.MethodPost {
		tab = r.PostFormValue("tab")
	}
	if tab == "" || len(tab) > maxTabLen {
		return ""
	}
	for _, c := range tab {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return ""
		}
	}
	return tab
}

// withPage appends the page query to path when it is past the first page, and the tab id
// when there is one
func withPage(path string, page int, tab string) string {
	q := url.Values{}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if tab != "" {
		q.Set("tab", tab)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// localReferer returns the path and query of the referer when it points at this host
func localReferer(r *http.Request, fallback string) string {
	ref := r.Referer()
	if ref == "" {
		return fallback
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) || !strings.HasPrefix(u.Path, "/") {
		return fallback
	}
	if u.Path == r.URL.Path {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
