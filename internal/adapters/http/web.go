package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"venuedesk/internal/adapters/http/middleware"
	"venuedesk/internal/adapters/http/perf"
	accessStore "venuedesk/internal/adapters/storage/access"
	auditStore "venuedesk/internal/adapters/storage/audit"
	memberStore "venuedesk/internal/adapters/storage/member"
	reservationStore "venuedesk/internal/adapters/storage/reservation"
	"venuedesk/internal/application/orchestrators"
)

// Stores holds all storage dependencies.
type Stores struct {
	Reservations reservationStore.Store
	Members      memberStore.Store
	Audit        auditStore.Store
	Access       accessStore.Store
}

// OAuthClient is the sign-in provider used by the login controller.
type OAuthClient interface {
	AuthorizationURL() string
	orchestrators.OAuthProvider
}

// Options configures NewMux.
type Options struct {
	CSRFKeyHex     string
	Production     bool
	TrustedOrigins []string
	SessionTimeout time.Duration
	OAuth          OAuthClient
	Notify         orchestrators.NotifyDeps
}

// ErrBadCSRFKey is returned for a CSRF key that is not 32 hex-encoded bytes.
var ErrBadCSRFKey = errors.New("CSRF key must be 64 hex characters (32 bytes)")

// loadCSRFKey decodes the configured key. Outside production an empty key is
// replaced by a random one, so form tokens do not survive a restart.
func loadCSRFKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, ErrBadCSRFKey
		}
		return key, nil
	}
	if production {
		return nil, errors.New("CSRF key is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	slog.Warn("csrf_random_key", "hint", "set VENUEDESK_CSRF_KEY to keep form tokens valid across restarts")
	return key, nil
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

var (
	oauthClient    OAuthClient
	notifyDeps     orchestrators.NotifyDeps
	sessionTimeout time.Duration
)

// NewMux wires HTTP handlers for the app.
// PRE: s has every store set; opts.OAuth is non-nil
func NewMux(opts Options, s *Stores, collector *perf.Collector) (http.Handler, error) {
	key, err := loadCSRFKey(opts.CSRFKeyHex, opts.Production)
	if err != nil {
		return nil, err
	}

	stores = s
	perfCollector = collector
	oauthClient = opts.OAuth
	notifyDeps = opts.Notify
	sessionTimeout = opts.SessionTimeout
	if sessionTimeout <= 0 {
		sessionTimeout = time.Hour
	}
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = opts.Production

	mux := http.NewServeMux()
	registerRoutes(mux)

	// Applied inner to outer: Timing -> SecurityHeaders -> CSRF -> Sessions -> Mux
	return middleware.Chain(mux,
		middleware.Timing(collector),
		middleware.SecurityHeaders,
		middleware.CSRF(key, middleware.CSRFOptions{Secure: opts.Production, TrustedOrigins: opts.TrustedOrigins}),
		middleware.Sessions(sessions),
	), nil
}
