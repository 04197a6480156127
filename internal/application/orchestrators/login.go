package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"venuedesk/internal/adapters/oauth"
	"venuedesk/internal/adapters/storage/access"
	"venuedesk/internal/domain/audit"
)

// OAuthProvider is the subset of the OAuth client used at login.
type OAuthProvider interface {
	ExchangeCode(ctx context.Context, code string) oauth.TokenResult
	FetchUserInfo(ctx context.Context, accessToken string) (oauth.UserProfile, error)
}

// ApprovedEmailReader reads the staff allow-list.
type ApprovedEmailReader interface {
	ApprovedEmails(ctx context.Context) ([]string, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Code string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Profile oauth.UserProfile
	Email   string // trimmed, lower-cased
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	OAuth  OAuthProvider
	Access ApprovedEmailReader
	Audit  AuditDeps
}

var (
	ErrTokenExchange = errors.New("failed to retrieve access token")
	ErrAccessDenied  = errors.New("access denied: your email is not authorized")
)

// ExecuteLogin completes the authorization-code callback.
// PRE: input.Code is the code returned by the provider
// POST: on success the caller stores Profile in the session; every allow-list
// decision is audited
// INVARIANT: the allow-list is read fresh on every attempt
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	tok := deps.OAuth.ExchangeCode(ctx, input.Code)
	if tok.Empty() {
		slog.Info("auth_event", "event", "token_exchange_failed")
		return LoginResult{}, ErrTokenExchange
	}

	profile, err := deps.OAuth.FetchUserInfo(ctx, tok.AccessToken)
	if err != nil {
		return LoginResult{}, fmt.Errorf("fetch user info: %w", err)
	}

	approved, err := deps.Access.ApprovedEmails(ctx)
	if err != nil {
		return LoginResult{}, fmt.Errorf("load approved emails: %w", err)
	}

	email := access.Normalize(profile.Email)
	if email != "" && contains(approved, email) {
		LogEvent(ctx, deps.Audit, audit.EventLogin, email, "Access granted")
		slog.Info("auth_event", "event", "login_success", "email", email)
		return LoginResult{Profile: profile, Email: email}, nil
	}

	LogEvent(ctx, deps.Audit, audit.EventLogin, email, "Access denied")
	slog.Info("auth_event", "event", "login_denied", "email", email)
	return LoginResult{}, ErrAccessDenied
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
