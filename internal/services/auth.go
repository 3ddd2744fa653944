package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"beemine-admin/internal/models"
)

// ErrMissingCredentials is returned when the login form is incomplete
var ErrMissingCredentials = errors.New("email and password are required")

// AuthService handles admin login and token validation
type AuthService struct {
	client Caller
}

// NewAuthService creates a new auth service
func NewAuthService(client Caller) *AuthService {
	return &AuthService{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Data *models.LoginResult `json:"data"`
	models.LoginResult
}

// Login exchanges email and password for an admin token
func (s *AuthService) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.LoginResult{}, ErrMissingCredentials
	}

	var resp loginResponse
	if err := s.client.Call(ctx, "login.php", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return models.LoginResult{}, err
	}

	res := resp.LoginResult
	if resp.Data != nil {
		res = *resp.Data
	}
	if res.Token == "" {
		return models.LoginResult{}, fmt.Errorf("login response has no token")
	}
	return res, nil
}

// CheckLogin validates a stored token against the remote API. Any error means the token
// must not be trusted.
func (s *AuthService) CheckLogin(ctx context.Context, token string) error {
	if token == "" {
		return ErrNotAuthenticated
	}
	return s.client.Call(ctx, "check_login.php", tokenBody{Token: token}, nil)
}
