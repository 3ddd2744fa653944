package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beemine-admin/internal/models"
	"beemine-admin/internal/session"
	"beemine-admin/internal/upstream"
)

type fakeChecker struct {
	err    error
	tokens []string
}

func (f *fakeChecker) CheckLogin(_ context.Context, token string) error {
	f.tokens = append(f.tokens, token)
	return f.err
}

func newLoggedInRequest(t *testing.T, m *session.Manager, token string) (*http.Request, *session.Store) {
	t.Helper()
	rec := httptest.NewRecorder()
	store, err := m.Renew(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, store.SaveLogin(context.Background(), models.LoginResult{Token: token, Name: "Asha", Role: "admin"}))
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	return req, store
}

func protected(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		creds := GetCredentials(r.Context())
		_, _ = w.Write([]byte(creds.Name))
	})
}

func TestAuthMiddleware_ValidTokenPassesThrough(t *testing.T) {
	m := session.NewManager(session.NewMemoryBackend(), session.Options{Secret: "s", TTL: time.Hour})
	checker := &fakeChecker{}
	req, _ := newLoggedInRequest(t, m, "tok")

	called := false
	rec := httptest.NewRecorder()
	AuthMiddleware(NewGuard(m, checker))(protected(&called)).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Asha", rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, []string{"tok"}, checker.tokens, "checked exactly once per request")
}

func TestAuthMiddleware_NoTokenRedirectsWithoutCheck(t *testing.T) {
	m := session.NewManager(session.NewMemoryBackend(), session.Options{Secret: "s"})
	checker := &fakeChecker{}

	called := false
	rec := httptest.NewRecorder()
	AuthMiddleware(NewGuard(m, checker))(protected(&called)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Empty(t, checker.tokens)
}

func TestAuthMiddleware_RejectedTokenClearsSession(t *testing.T) {
	for name, checkErr := range map[string]error{
		"application": &upstream.APIError{Status: 401, Message: "Invalid token"},
		"timeout":     upstream.ErrTimeout,
		"transport":   upstream.ErrTransport,
		"malformed":   upstream.ErrInvalidResponse,
	} {
		t.Run(name, func(t *testing.T) {
			m := session.NewManager(session.NewMemoryBackend(), session.Options{Secret: "s"})
			req, store := newLoggedInRequest(t, m, "stale")

			called := false
			rec := httptest.NewRecorder()
			AuthMiddleware(NewGuard(m, &fakeChecker{err: checkErr}))(protected(&called)).ServeHTTP(rec, req)

			assert.False(t, called)
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

			for _, key := range []string{session.KeyToken, session.KeyName, session.KeyRole, session.KeyExpiry} {
				_, ok, err := store.Get(context.Background(), key)
				require.NoError(t, err)
				assert.False(t, ok, key)
			}
		})
	}
}

func TestGuard_Evaluate(t *testing.T) {
	m := session.NewManager(session.NewMemoryBackend(), session.Options{Secret: "s"})
	req, _ := newLoggedInRequest(t, m, "tok")

	res := NewGuard(m, &fakeChecker{}).Evaluate(req)
	assert.Equal(t, StateAuthenticated, res.State)
	assert.Equal(t, "tok", res.Credentials.Token)
	assert.NotNil(t, res.Store)

	req, _ = newLoggedInRequest(t, m, "")
	res = NewGuard(m, &fakeChecker{}).Evaluate(req)
	assert.Equal(t, StateUnauthenticated, res.State)
	assert.Equal(t, "unauthenticated", res.State.String())
}

func TestGetCredentials_Empty(t *testing.T) {
	assert.False(t, GetCredentials(context.Background()).Valid())
	assert.Nil(t, GetSession(context.Background()))
}
