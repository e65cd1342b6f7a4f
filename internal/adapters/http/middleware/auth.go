package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"studio/internal/domain/identity"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// Session represents an authenticated session. It carries a point-in-time
// snapshot of the identity taken at login; the password hash never enters
// the session.
type Session struct {
	identity.Snapshot
	CreatedAt time.Time
}

// DefaultSessionMaxAge is how long a session lives without explicit logout.
const DefaultSessionMaxAge = 24 * time.Hour

// SessionStore is an in-memory session table keyed by opaque token.
// It is created at process start and torn down with the process; entries
// are independent, so concurrent access to distinct tokens never
// interferes.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	maxAge   time.Duration
}

// NewSessionStore creates a new in-memory session store with the default
// session lifetime.
func NewSessionStore() *SessionStore {
	return NewSessionStoreWithMaxAge(DefaultSessionMaxAge)
}

// NewSessionStoreWithMaxAge creates a session store with a custom lifetime.
func NewSessionStoreWithMaxAge(maxAge time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		maxAge:   maxAge,
	}
}

// Create stores a new session bound to the given identity snapshot and
// returns the token. A token maps to at most one snapshot at a time.
// PRE: snapshot fields are populated
// POST: Session is stored, token is returned
func (ss *SessionStore) Create(snapshot identity.Snapshot) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{
		Snapshot:  snapshot,
		CreatedAt: time.Now(),
	}
	return token, nil
}

// Get retrieves a session by token. Expired sessions are removed lazily.
// PRE: token is non-empty
// POST: Returns session if valid and not expired
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.RLock()
	session, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if time.Since(session.CreatedAt) > ss.maxAge {
		ss.mu.Lock()
		delete(ss.sessions, token)
		ss.mu.Unlock()
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token. Returns whether a session was
// present, so callers can distinguish "already logged out" from a real
// logout without treating either as a storage fault.
// PRE: token is non-empty
// POST: Session with given token is removed
func (ss *SessionStore) Delete(token string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	_, ok := ss.sessions[token]
	delete(ss.sessions, token)
	return ok
}

// MaxAge returns the configured session lifetime.
func (ss *SessionStore) MaxAge() time.Duration {
	return ss.maxAge
}

// Len returns the number of live sessions. Intended for tests.
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

const sessionCookieName = "studio_session"

// SecureCookies controls the Secure flag on session cookies.
// Set to true in production (HTTPS only).
var SecureCookies = false

// Auth returns middleware that extracts the session from the cookie and
// sets it in the request context. It does NOT block unauthenticated
// requests — use RequireSession for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, session)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession returns middleware that blocks unauthenticated requests
// by redirecting to the login page. The gate is deliberately role-blind:
// any live session passes, regardless of role.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login.html", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// SessionToken extracts the raw session token from the request cookie.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
