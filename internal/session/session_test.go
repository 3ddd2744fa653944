package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beemine-admin/internal/models"
)

func newTestManager() (*Manager, *MemoryBackend) {
	backend := NewMemoryBackend()
	return NewManager(backend, Options{Secret: "test-secret", CookieName: "sess", TTL: time.Hour}), backend
}

func TestRenew_IssuesCookieAndLookupFindsIt(t *testing.T) {
	m, _ := newTestManager()

	rec := httptest.NewRecorder()
	store, err := m.Renew(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sess", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookies[0])
	found, ok := m.Lookup(req)
	require.True(t, ok)
	assert.Equal(t, store.ID(), found.ID())
}

func TestLookup_RejectsTamperedCookie(t *testing.T) {
	m, _ := newTestManager()
	other := NewManager(NewMemoryBackend(), Options{Secret: "other-secret", CookieName: "sess"})

	rec := httptest.NewRecorder()
	_, err := other.Renew(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	_, ok := m.Lookup(req)
	assert.False(t, ok)
}

func TestStore_SetGetClearAll(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	store, err := m.Renew(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	require.NoError(t, store.SaveLogin(ctx, models.LoginResult{
		Token: "tok", Name: "Asha Rao", Role: "super_admin", TokenExpiry: "2026-12-01 10:00:00",
	}))

	v, ok, err := store.Get(ctx, KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	creds, err := store.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", creds.Name)
	assert.Equal(t, "AR", creds.Initials())
	assert.Equal(t, store.ID(), creds.SessionID)

	require.NoError(t, store.ClearAll(ctx))
	for _, key := range []string{KeyToken, KeyName, KeyRole, KeyExpiry} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestStore_SaveLoginRequiresToken(t *testing.T) {
	m, _ := newTestManager()
	store, err := m.Renew(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.Error(t, store.SaveLogin(context.Background(), models.LoginResult{Name: "x"}))
}

func TestStore_FlashIsReadOnce(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()
	store, err := m.Renew(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	require.NoError(t, store.SetFlash(ctx, "success", "Report updated"))

	f, ok := store.PopFlash(ctx)
	require.True(t, ok)
	assert.Equal(t, Flash{Kind: "success", Message: "Report updated"}, f)

	_, ok = store.PopFlash(ctx)
	assert.False(t, ok)
}

func TestRenew_IssuesNewIDAndClearsOld(t *testing.T) {
	ctx := context.Background()
	m, backend := newTestManager()

	rec := httptest.NewRecorder()
	old, err := m.Renew(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NoError(t, old.SetFlash(ctx, "error", "Invalid credentials"))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.AddCookie(rec.Result().Cookies()[0])

	renewed, err := m.Renew(ctx, httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.NotEqual(t, old.ID(), renewed.ID())

	values, err := backend.GetAll(ctx, old.ID())
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestDestroy_ExpiresCookieAndClears(t *testing.T) {
	ctx := context.Background()
	m, backend := newTestManager()
	store, err := m.Renew(context.Background(), httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, KeyToken, "tok"))

	rec := httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, rec, store))

	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
	values, err := backend.GetAll(ctx, store.ID())
	require.NoError(t, err)
	assert.Empty(t, values)
}
