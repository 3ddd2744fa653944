// Package session keeps the admin's bearer token and display metadata for one browser.
//
// The browser only holds a signed cookie naming a session id; the values themselves live in
// a Backend. Expiry metadata is advisory: nothing here rejects a token because of it, the
// remote API decides whether a token is still good.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"beemine-admin/internal/models"
)

// Keys of the persisted session values.
const (
	KeyToken  = "adminToken"
	KeyName   = "adminName"
	KeyRole   = "adminRole"
	KeyExpiry = "tokenExpiry"

	keyFlash = "flash"
)

// Options configures the cookie issued by a Manager
type Options struct {
	Secret     string
	CookieName string
	Secure     bool
	TTL        time.Duration
}

// Manager maps requests to their session Store.
type Manager struct {
	backend    Backend
	secret     []byte
	cookieName string
	secure     bool
	ttl        time.Duration
}

// NewManager creates a new session manager
func NewManager(backend Backend, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "beemine_admin"
	}
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	return &Manager{
		backend:    backend,
		secret:     []byte(opts.Secret),
		cookieName: opts.CookieName,
		secure:     opts.Secure,
		ttl:        opts.TTL,
	}
}

// Lookup returns the store named by the request cookie, if the cookie is present and valid.
func (m *Manager) Lookup(r *http.Request) (*Store, bool) {
	c, err := r.Cookie(m.cookieName)
	if err != nil || c.Value == "" {
		return nil, false
	}
	sid, err := parseToken(m.secret, c.Value)
	if err != nil {
		return nil, false
	}
	return &Store{backend: m.backend, sid: sid}, true
}

// Renew drops the request's store, if any, and issues a fresh session id with its cookie.
// Used on login so a session id seen before authentication is never promoted.
func (m *Manager) Renew(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Store, error) {
	if s, ok := m.Lookup(r); ok {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}
	return m.issue(w)
}

func (m *Manager) issue(w http.ResponseWriter) (*Store, error) {
	sid := uuid.New().String()
	value, err := generateToken(m.secret, sid, m.ttl)
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return &Store{backend: m.backend, sid: sid}, nil
}

// Destroy clears the store and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Store) error {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	if s == nil {
		return nil
	}
	return s.ClearAll(ctx)
}

// Ping checks the backend
func (m *Manager) Ping(ctx context.Context) error {
	return m.backend.Ping(ctx)
}

// Store is the key/value view of one browser session.
type Store struct {
	backend Backend
	sid     string
}

// ID returns the session id
func (s *Store) ID() string {
	return s.sid
}

// Set stores value under key
func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.backend.SetAll(ctx, s.sid, map[string]string{key: value})
}

// Get returns the value stored under key
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.sid, key)
}

// ClearAll removes every key of the session at once
func (s *Store) ClearAll(ctx context.Context) error {
	return s.backend.Clear(ctx, s.sid)
}

// SaveLogin stores the login result in one write
func (s *Store) SaveLogin(ctx context.Context, res models.LoginResult) error {
	if res.Token == "" {
		return errors.New("login result has no token")
	}
	return s.backend.SetAll(ctx, s.sid, map[string]string{
		KeyToken:  res.Token,
		KeyName:   res.Name,
		KeyRole:   res.Role,
		KeyExpiry: res.TokenExpiry,
	})
}

// Credentials reads the session once and returns it as request credentials.
func (s *Store) Credentials(ctx context.Context) (models.Credentials, error) {
	values, err := s.backend.GetAll(ctx, s.sid)
	if err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{
		SessionID: s.sid,
		Token:     values[KeyToken],
		Name:      values[KeyName],
		Role:      values[KeyRole],
		Expiry:    values[KeyExpiry],
	}, nil
}

// Flash is a one-shot notice shown on the next rendered page
type Flash struct {
	Kind    string `json:"kind"` // "success" | "error"
	Message string `json:"message"`
}

// SetFlash stores a notice for the next page render
func (s *Store) SetFlash(ctx context.Context, kind, message string) error {
	data, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return err
	}
	return s.Set(ctx, keyFlash, string(data))
}

// PopFlash returns and removes the pending notice
func (s *Store) PopFlash(ctx context.Context) (Flash, bool) {
	raw, ok, err := s.Get(ctx, keyFlash)
	if err != nil || !ok {
		return Flash{}, false
	}
	_ = s.backend.Delete(ctx, s.sid, keyFlash)

	var f Flash
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		return Flash{}, false
	}
	return f, true
}

// String implements fmt.Stringer without exposing stored values
func (s *Store) String() string {
	return fmt.Sprintf("session(%s)", s.sid)
}
