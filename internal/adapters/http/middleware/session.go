package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"venuedesk/internal/adapters/oauth"
	"venuedesk/internal/domain/reservation"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// AuthState is the outcome of checking a session against the timeout.
type AuthState int

const (
	Unauthenticated AuthState = iota
	Expired
	Active
)

// String returns the state name used in logs.
func (s AuthState) String() string {
	switch s {
	case Expired:
		return "expired"
	case Active:
		return "active"
	}
	return "unauthenticated"
}

// Session is the per-browser state. Every visitor has one; it becomes
// authenticated once Profile is set.
type Session struct {
	Profile  *oauth.UserProfile
	AuthTime time.Time

	// Draft holds the create-reservation form between requests.
	Draft    reservation.Draft
	HasDraft bool
	// EditID is the audit id of the reservation being edited, if any.
	EditID string
	// Flash is shown once on the next rendered page.
	Flash string

	LastSeen time.Time
}

// AuthState reports whether the session is signed in and still within timeout.
// INVARIANT: elapsed == timeout is still Active
func (s Session) AuthState(now time.Time, timeout time.Duration) AuthState {
	if s.Profile == nil || s.AuthTime.IsZero() {
		return Unauthenticated
	}
	if now.Sub(s.AuthTime) > timeout {
		return Expired
	}
	return Active
}

// SetAuth records a successful login.
// POST: AuthState(now, t) == Active for any t >= 0
func (s *Session) SetAuth(p oauth.UserProfile, now time.Time) {
	s.Profile = &p
	s.AuthTime = now
}

// ClearAuth signs the session out and drops edit state.
func (s *Session) ClearAuth() {
	s.Profile = nil
	s.AuthTime = time.Time{}
	s.EditID = ""
}

// Email returns the signed-in email, or "".
func (s Session) Email() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Email
}

// TakeFlash returns the flash message and clears it.
func (s *Session) TakeFlash() string {
	f := s.Flash
	s.Flash = ""
	return f
}

// idleLimit bounds how long an untouched session is kept in memory.
const idleLimit = 24 * time.Hour

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create stores an empty session and returns its token.
// POST: stale sessions idle for longer than a day are evicted
func (ss *SessionStore) Create() (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	for tok, s := range ss.sessions {
		if now.Sub(s.LastSeen) > idleLimit {
			delete(ss.sessions, tok)
		}
	}
	ss.sessions[token] = Session{LastSeen: now}
	return token, nil
}

// Get retrieves a session by token and marks it seen.
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	now := ss.now()
	if now.Sub(s.LastSeen) > idleLimit {
		delete(ss.sessions, token)
		return Session{}, false
	}
	s.LastSeen = now
	ss.sessions[token] = s
	return s, true
}

// Update replaces the session for a given token.
// PRE: token exists in the store
// POST: returns false if the token is unknown
func (ss *SessionStore) Update(token string, s Session) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if _, ok := ss.sessions[token]; !ok {
		return false
	}
	s.LastSeen = ss.now()
	ss.sessions[token] = s
	return true
}

// Delete removes a session by token.
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// Len returns the number of live sessions.
func (ss *SessionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.sessions)
}

const sessionCookieName = "venuedesk_session"

// SecureCookies marks cookies Secure; set in production.
var SecureCookies = false

type sessionHandle struct {
	token string
	store *SessionStore
}

// Sessions returns middleware that attaches a session to every request,
// issuing a cookie for new visitors.
func Sessions(store *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
				if _, ok := store.Get(c.Value); ok {
					token = c.Value
				}
			}
			if token == "" {
				t, err := store.Create()
				if err != nil {
					http.Error(w, "session error", http.StatusInternalServerError)
					return
				}
				token = t
				SetSessionCookie(w, token)
			}
			ctx := context.WithValue(r.Context(), sessionContextKey, sessionHandle{token: token, store: store})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionFromContext returns the request's session.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	h, ok := ctx.Value(sessionContextKey).(sessionHandle)
	if !ok {
		return Session{}, false
	}
	return h.store.Get(h.token)
}

// SaveSession writes s back as the request's session.
func SaveSession(ctx context.Context, s Session) bool {
	h, ok := ctx.Value(sessionContextKey).(sessionHandle)
	if !ok {
		return false
	}
	return h.store.Update(h.token, s)
}

// EndSession deletes the request's session and expires its cookie.
func EndSession(ctx context.Context, w http.ResponseWriter) {
	if h, ok := ctx.Value(sessionContextKey).(sessionHandle); ok {
		h.store.Delete(h.token)
	}
	ClearSessionCookie(w)
}

// ContextWithSession stores sess under a new token and returns a context
// carrying it. Intended for use in tests.
func ContextWithSession(ctx context.Context, store *SessionStore, sess Session) context.Context {
	token, err := store.Create()
	if err != nil {
		panic(err)
	}
	store.Update(token, sess)
	return context.WithValue(ctx, sessionContextKey, sessionHandle{token: token, store: store})
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
