package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"beemine-admin/internal/models"
	"beemine-admin/internal/session"
	"beemine-admin/internal/upstream"
)

type contextKey string

const (
	credentialsKey contextKey = "credentials"
	sessionKey     contextKey = "session"
)

// AuthState is the outcome of the session check of one request
type AuthState int

const (
	StateChecking AuthState = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "checking"
	}
}

// TokenChecker validates a stored token against the remote API
type TokenChecker interface {
	CheckLogin(ctx context.Context, token string) error
}

// Guard decides whether a request belongs to a logged-in admin.
type Guard struct {
	sessions *session.Manager
	checker  TokenChecker
}

// NewGuard creates a new session guard
func NewGuard(sessions *session.Manager, checker TokenChecker) *Guard {
	return &Guard{sessions: sessions, checker: checker}
}

// Result is what Evaluate resolved for a request
type Result struct {
	State       AuthState
	Credentials models.Credentials
	Store       *session.Store
}

// Evaluate runs the check once: no token is Unauthenticated, a token is Authenticated only
// if the remote check succeeds. Any check failure clears the whole session first.
func (g *Guard) Evaluate(r *http.Request) Result {
	ctx := r.Context()
	res := Result{State: StateChecking}

	store, ok := g.sessions.Lookup(r)
	if !ok {
		res.State = StateUnauthenticated
		return res
	}
	res.Store = store

	creds, err := store.Credentials(ctx)
	if err != nil {
		log.Error().Err(err).Str("session", store.String()).Msg("Failed to read session")
		res.State = StateUnauthenticated
		return res
	}
	if !creds.Valid() {
		res.State = StateUnauthenticated
		return res
	}

	if err := g.checker.CheckLogin(ctx, creds.Token); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			// the browser went away before the check resolved; nothing is rendered
			res.State = StateUnauthenticated
			return res
		}
		log.Info().
			Str("session", store.String()).
			Str("kind", upstream.Kind(err)).
			Msg("Stored token rejected, clearing session")
		if err := store.ClearAll(context.WithoutCancel(ctx)); err != nil {
			log.Error().Err(err).Str("session", store.String()).Msg("Failed to clear session")
		}
		res.State = StateUnauthenticated
		return res
	}

	res.State = StateAuthenticated
	res.Credentials = creds
	return res
}

// AuthMiddleware lets authenticated requests through with their credentials in the context
// and redirects everything else to the login page.
func AuthMiddleware(guard *Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")

			res := guard.Evaluate(r)
			if res.State != StateAuthenticated {
				RedirectToLogin(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCredentials(r.Context(), res.Credentials, res.Store)))
		})
	}
}

// RedirectToLogin replaces the current location with the login page
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GetCredentials extracts the admin credentials from context
func GetCredentials(ctx context.Context) models.Credentials {
	creds, ok := ctx.Value(credentialsKey).(models.Credentials)
	if !ok {
		return models.Credentials{}
	}
	return creds
}

// GetSession extracts the session store from context
func GetSession(ctx context.Context) *session.Store {
	s, _ := ctx.Value(sessionKey).(*session.Store)
	return s
}

// WithCredentials returns a copy of ctx carrying creds and store
func WithCredentials(ctx context.Context, creds models.Credentials, store *session.Store) context.Context {
	ctx = context.WithValue(ctx, credentialsKey, creds)
	return context.WithValue(ctx, sessionKey, store)
}
