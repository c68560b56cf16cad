package identity

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

var ErrStateMismatch = errors.New("login state does not match")

type Config struct {
	// Issuer is the realm URL, e.g. http://localhost:8081/realms/coffeeshop.
	Issuer         string
	ClientID       string
	ClientSecret   string
	RedirectURL    string
	Scopes         []string
	AdminUsernames []string
}

// KeycloakIssuer builds the issuer URL of a Keycloak realm.
func KeycloakIssuer(baseURL, realm string) string {
	return strings.TrimRight(baseURL, "/") + "/realms/" + url.PathEscape(realm)
}

// Provider talks to the OIDC identity provider: authorization code login
// with PKCE, code exchange, token refresh and logout URLs.
type Provider struct {
	oauth  *oauth2.Config
	issuer string
	admins map[string]struct{}
}

func NewProvider(cfg Config) *Provider {
	issuer := strings.TrimRight(cfg.Issuer, "/")
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "profile", "email"}
	}
	admins := make(map[string]struct{}, len(cfg.AdminUsernames))
	for _, name := range cfg.AdminUsernames {
		if name = strings.TrimSpace(name); name != "" {
			admins[name] = struct{}{}
		}
	}
	return &Provider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   issuer + "/protocol/openid-connect/auth",
				TokenURL:  issuer + "/protocol/openid-connect/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		issuer: issuer,
		admins: admins,
	}
}

// LoginURL is where the browser goes to authenticate. verifier must be kept
// until the callback and is sent as an S256 challenge.
func (p *Provider) LoginURL(state, verifier string) string {
	return p.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
}

func (p *Provider) Exchange(ctx context.Context, code, verifier string) (*oauth2.Token, error) {
	return p.oauth.Exchange(ctx, code, oauth2.VerifierOption(verifier))
}

func (p *Provider) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return p.oauth.TokenSource(ctx, tok)
}

// LogoutURL ends the session at the identity provider and sends the browser
// back to redirect.
func (p *Provider) LogoutURL(idTokenHint, redirect string) string {
	q := url.Values{"client_id": []string{p.oauth.ClientID}}
	if redirect != "" {
		q.Set("post_logout_redirect_uri", redirect)
	}
	if idTokenHint != "" {
		q.Set("id_token_hint", idTokenHint)
	}
	return p.issuer + "/protocol/openid-connect/logout?" + q.Encode()
}

// IsAdmin grants back-office access to the admin realm role and to the
// configured admin usernames.
func (p *Provider) IsAdmin(s *Session) bool {
	if s == nil || !s.IsAuthenticated() {
		return false
	}
	if s.HasRole("admin") {
		return true
	}
	_, ok := p.admins[s.CurrentUsername()]
	return ok
}

func NewVerifier() string {
	return oauth2.GenerateVerifier()
}

// IDToken extracts the id_token returned next to the access token.
func IDToken(tok *oauth2.Token) string {
	if tok == nil {
		return ""
	}
	if raw, ok := tok.Extra("id_token").(string); ok {
		return raw
	}
	return ""
}
