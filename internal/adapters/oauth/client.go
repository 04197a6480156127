// Package oauth implements the Google authorization-code login flow.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// UserInfoURL is the OpenID Connect userinfo endpoint.
const UserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Scopes requested at login.
var Scopes = []string{"openid", "email", "profile"}

// Config holds the registered client credentials.
// Endpoint fields are optional and default to Google's.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	AuthURL     string
	TokenURL    string
	UserInfoURL string
	HTTPClient  *http.Client
}

// TokenResult is the outcome of a code exchange. The zero value means failure.
type TokenResult struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
	Expiry       time.Time
}

// Empty reports whether the exchange failed.
func (t TokenResult) Empty() bool {
	return t.AccessToken == ""
}

// UserProfile is the subset of OpenID claims the app reads.
type UserProfile struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// DisplayName returns the name, falling back to the email.
func (p UserProfile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

// Client talks to the OAuth provider.
type Client struct {
	conf        *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// New builds a client from cfg.
func New(cfg Config) *Client {
	endpoint := google.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	// Credentials travel in the form body, not basic auth.
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	userInfo := cfg.UserInfoURL
	if userInfo == "" {
		userInfo = UserInfoURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		userInfoURL: userInfo,
		httpClient:  httpClient,
	}
}

// AuthorizationURL returns the consent page URL.
// POST: query carries exactly client_id, response_type, scope, redirect_uri, access_type and prompt
func (c *Client) AuthorizationURL() string {
	return c.conf.AuthCodeURL("", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// ExchangeCode trades an authorization code for tokens.
// Any transport, HTTP or decode failure is logged and yields an empty result.
func (c *Client) ExchangeCode(ctx context.Context, code string) TokenResult {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		slog.Warn("oauth_exchange_failed", "error", err)
		return TokenResult{}
	}
	return TokenResult{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
}

// FetchUserInfo reads the profile of the token's owner.
// POST: non-2xx responses and malformed bodies are returned as errors
func (c *Client) FetchUserInfo(ctx context.Context, accessToken string) (UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return UserProfile{}, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UserProfile{}, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return UserProfile{}, fmt.Errorf("userinfo status %d: %s", resp.StatusCode, body)
	}
	var p UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return UserProfile{}, fmt.Errorf("decode userinfo: %w", err)
	}
	return p, nil
}
