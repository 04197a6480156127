package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"venuedesk/internal/adapters/http/middleware"
	"venuedesk/internal/application/orchestrators"
	"venuedesk/internal/domain/audit"
)

// timeNow is a variable for testability.
var timeNow = time.Now

//go:embed templates/*.html
var templateFS embed.FS

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is omitted (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func auditDeps() orchestrators.AuditDeps {
	return orchestrators.AuditDeps{Logger: stores.Audit, Now: timeNow}
}

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	renderTemplateStatus(w, r, http.StatusOK, templateName, data)
}

// renderTemplateStatus renders templateName inside the layout with the given status.
// The page is rendered to a buffer first so a template failure never sends a partial page.
func renderTemplateStatus(w http.ResponseWriter, r *http.Request, status int, templateName string, data any) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	signedIn := sess.AuthState(timeNow(), sessionTimeout) == middleware.Active

	funcMap := template.FuncMap{
		"csrfField":    func() template.HTML { return csrf.TemplateField(r) },
		"isLoggedIn":   func() bool { return signedIn },
		"currentEmail": func() string { return sess.Email() },
		"currentName": func() string {
			if sess.Profile == nil {
				return ""
			}
			return sess.Profile.DisplayName()
		},
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"pct": func(n, max int) int {
			if max <= 0 {
				return 0
			}
			return n * 100 / max
		},
		"dict": func(kv ...any) map[string]any {
			m := make(map[string]any, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				m[fmt.Sprint(kv[i])] = kv[i+1]
			}
			return m
		},
		"formatDay": func(t time.Time) string { return t.Format("Mon 02 Jan 2006") },
		"withParam": func(q url.Values, key, value string) template.URL {
			c := url.Values{}
			for k, v := range q {
				c[k] = v
			}
			c.Set(key, value)
			if key != "page" {
				c.Del("page")
			}
			// An edit selection is either an audit id or a legacy row, never both.
			switch key {
			case "edit":
				c.Del("row")
			case "row":
				c.Del("edit")
			}
			return template.URL(c.Encode())
		},
		"itoa": strconv.Itoa,
		"hasField": func(fields any, f string) bool {
			list, _ := fields.([]string)
			for _, x := range list {
				if x == f {
					return true
				}
			}
			return false
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/"+templateName)
	if err != nil {
		internalError(w, fmt.Errorf("parse template %s: %w", templateName, err))
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, fmt.Errorf("render template %s: %w", templateName, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderLogin shows the sign-in prompt with a fresh authorization link.
func renderLogin(w http.ResponseWriter, r *http.Request, status int, errMsg, message string) {
	renderTemplateStatus(w, r, status, "login.html", map[string]any{
		"AuthURL": oauthClient.AuthorizationURL(),
		"Error":   errMsg,
		"Message": message,
	})
}

// requireAuth guards a handler behind an active, unexpired sign-in.
func requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess, _ := middleware.GetSessionFromContext(ctx)
		switch sess.AuthState(timeNow(), sessionTimeout) {
		case middleware.Active:
			next(w, r)
		case middleware.Expired:
			expireSession(r, sess)
			renderLogin(w, r, http.StatusUnauthorized, "", "Your session has expired. Please log in again.")
		default:
			orchestrators.LogEvent(ctx, auditDeps(), audit.EventAccess, audit.UnknownActor, "Unauthenticated access attempt")
			renderLogin(w, r, http.StatusUnauthorized, "", "Please log in to access this page.")
		}
	}
}

// expireSession signs out an expired session and audits it.
func expireSession(r *http.Request, sess middleware.Session) {
	email := sess.Email()
	sess.ClearAuth()
	middleware.SaveSession(r.Context(), sess)
	orchestrators.LogEvent(r.Context(), auditDeps(), audit.EventSession, email, "Session expired")
	slog.Info("auth_event", "event", "session_expired", "email", email)
}

// handleIndex is the login controller: welcome page when signed in, the
// OAuth callback when a code is present, and the sign-in link otherwise.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)
	now := timeNow()

	switch sess.AuthState(now, sessionTimeout) {
	case middleware.Active:
		flash := sess.TakeFlash()
		middleware.SaveSession(ctx, sess)
		renderTemplate(w, r, "welcome.html", map[string]any{
			"Name":  sess.Profile.DisplayName(),
			"Email": sess.Email(),
			"Flash": flash,
		})
		return
	case middleware.Expired:
		expireSession(r, sess)
		sess.ClearAuth()
	}

	q := r.URL.Query()
	if q.Get("error") != "" {
		renderLogin(w, r, http.StatusUnauthorized, "Google sign-in did not complete. Please try again.", "")
		return
	}
	code := q.Get("code")
	if code == "" {
		renderLogin(w, r, http.StatusOK, "", "")
		return
	}

	res, err := orchestrators.ExecuteLogin(ctx, orchestrators.LoginInput{Code: code}, orchestrators.LoginDeps{
		OAuth:  oauthClient,
		Access: stores.Access,
		Audit:  auditDeps(),
	})
	switch {
	case err == nil:
		profile := res.Profile
		profile.Email = res.Email
		sess.SetAuth(profile, now)
		middleware.SaveSession(ctx, sess)
		// Redirect drops the used code from the address bar.
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, orchestrators.ErrTokenExchange):
		renderLogin(w, r, http.StatusUnauthorized, "Failed to retrieve access token. Please sign in again.", "")
	case errors.Is(err, orchestrators.ErrAccessDenied):
		renderLogin(w, r, http.StatusForbidden, "Access denied: your email is not authorized.", "")
	default:
		slog.Error("login_failed", "error", err)
		renderLogin(w, r, http.StatusBadGateway, "Could not verify your Google account. Please try again.", "")
	}
}

// handleLogout handles POST /logout
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if email := sess.Email(); email != "" {
		orchestrators.LogEvent(r.Context(), auditDeps(), audit.EventLogout, email, "User logged out")
		slog.Info("auth_event", "event", "logout", "email", email)
	}
	middleware.EndSession(r.Context(), w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleHealthz handles GET /healthz
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// currentSession returns the session of an authenticated request.
func currentSession(r *http.Request) middleware.Session {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess
}
