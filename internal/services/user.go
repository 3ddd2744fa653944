package services

import (
	"context"
	"strings"

	"beemine-admin/internal/models"
)

// UserService handles the users list and profile details
type UserService struct {
	client Caller
	hooks  Hooks
}

// NewUserService creates a new user service
func NewUserService(client Caller, hooks Hooks) *UserService {
	return &UserService{client: client, hooks: hooks}
}

type usersRequest struct {
	Token    string `json:"token"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Search   string `json:"search"`
	Gender   string `json:"gender"`
	Verified string `json:"verified"`
}

// List returns one page of users matching the server-side filters
func (s *UserService) List(ctx context.Context, creds models.Credentials, filter models.UserFilter, page, limit int) (models.Page[models.UserRow], error) {
	if err := requireToken(creds); err != nil {
		return models.Page[models.UserRow]{}, err
	}
	page, limit = normalizePaging(page, limit)

	req := usersRequest{
		Token:    creds.Token,
		Page:     page,
		Limit:    limit,
		Search:   strings.TrimSpace(filter.Search),
		Gender:   normalizeGender(filter.Gender),
		Verified: normalizeVerified(filter.Verified),
	}

	var env listEnvelope
	if err := s.client.Call(ctx, "get_users.php", req, &env); err != nil {
		return models.Page[models.UserRow]{}, err
	}
	return toPage[models.UserRow](env, page, limit)
}

type profileRequest struct {
	Token     string `json:"token"`
	ProfileID string `json:"profile_id"`
}

type profileResponse struct {
	Data models.Profile `json:"data"`
}

// Profile returns the full profile record with photo URLs resolved
func (s *UserService) Profile(ctx context.Context, creds models.Credentials, profileID string) (models.Profile, error) {
	if err := requireToken(creds); err != nil {
		return models.Profile{}, err
	}
	profileID = strings.TrimSpace(profileID)
	if profileID == "" {
		return models.Profile{}, ErrMissingID
	}

	var resp profileResponse
	if err := s.client.Call(ctx, "get_profile.php", profileRequest{Token: creds.Token, ProfileID: profileID}, &resp); err != nil {
		return models.Profile{}, err
	}

	p := resp.Data
	for i := range p.Photos {
		p.Photos[i].PhotoURL = s.hooks.resolve(ctx, p.Photos[i].PhotoURL)
	}
	return p, nil
}

// normalizeGender keeps only the values the remote filter understands
func normalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case "man", "male":
		return "Man"
	case "woman", "female":
		return "Woman"
	}
	return ""
}

func normalizeVerified(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return "1"
	case "0", "false", "no":
		return "0"
	}
	return ""
}
