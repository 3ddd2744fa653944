package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"beemine-admin/internal/middleware"
	"beemine-admin/internal/models"
	"beemine-admin/internal/services"
	"beemine-admin/internal/views"
)

// UserHandler handles the users list and profile details pages
type UserHandler struct {
	*Base
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(base *Base, userService *services.UserService) *UserHandler {
	return &UserHandler{
		Base:        base,
		userService: userService,
	}
}

// ListUsers handles GET /users. Search, gender and verified go to the remote API; the
// age group and state order only reshape the page that came back.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.UserFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Gender:   q.Get("gender"),
		Verified: q.Get("verified"),
	}
	page := pageParam(q.Get("page"))

	ctx, ticket := h.begin(r, "users")
	defer ticket.Done()

	result, err := h.userService.List(ctx, middleware.GetCredentials(r.Context()), filter, page, h.pageSize)
	if h.discard(w, r, ticket) {
		return
	}

	p := h.page(r, "Users", "/users")
	if err != nil {
		log.Error().Err(err).Int("page", page).Msg("Failed to load users")
		p.Error = errorMessage(err)
		h.render(w, errorStatus(err), views.PageUsers, p)
		return
	}

	age := q.Get("age")
	stateSort := q.Get("state_sort")
	rows := views.SortByState(views.FilterByAge(result.Items, age), stateSort)

	p.Data = views.UsersData{
		Users:     rows,
		Filter:    filter,
		Age:       age,
		StateSort: stateSort,
		Total:     result.Total,
		Pager:     views.NewPager(result.Page, result.TotalPages),
		AgeGroups: views.AgeGroups,
	}
	h.render(w, http.StatusOK, views.PageUsers, p)
}

// GetProfile handles GET /profiles/{profile_id}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profile_id")

	ctx, ticket := h.begin(r, "profile")
	defer ticket.Done()

	profile, err := h.userService.Profile(ctx, middleware.GetCredentials(r.Context()), profileID)
	if h.discard(w, r, ticket) {
		return
	}

	p := h.page(r, "Profile Details", "/users")
	if err != nil {
		log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to load profile")
		p.Error = errorMessage(err)
		h.render(w, errorStatus(err), views.PageProfile, p)
		return
	}

	p.Data = views.ProfileData{
		Profile: profile,
		Back:    localReferer(r, "/users"),
	}
	h.render(w, http.StatusOK, views.PageProfile, p)
}
