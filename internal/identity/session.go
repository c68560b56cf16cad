package identity

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// Session is the identity state of one storefront session. It is the token
// provider handed to the gateway clients.
type Session struct {
	mu       sync.Mutex
	provider *Provider
	token    *oauth2.Token
	idToken  string
	claims   *Claims
}

func NewSession(p *Provider, tok *oauth2.Token, idToken string) *Session {
	s := &Session{provider: p}
	s.SetToken(tok, idToken)
	return s
}

func (s *Session) SetToken(tok *oauth2.Token, idToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(tok)
	s.idToken = idToken
}

func (s *Session) setLocked(tok *oauth2.Token) {
	s.token = tok
	s.claims = nil
	if tok == nil || tok.AccessToken == "" {
		return
	}
	claims, err := ParseClaims(tok.AccessToken)
	if err != nil {
		log.Debug().Err(err).Msg("access token is not a readable JWT")
		return
	}
	s.claims = claims
}

// AccessToken returns the current access token. An expired token is
// refreshed when a refresh token exists; when refresh fails the stale token
// is still returned and the remote service decides.
func (s *Session) AccessToken(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil || s.token.AccessToken == "" {
		return "", false
	}
	if !s.token.Valid() && s.token.RefreshToken != "" && s.provider != nil {
		fresh, err := s.provider.TokenSource(ctx, s.token).Token()
		if err != nil {
			log.Warn().Err(err).Msg("token refresh failed")
		} else {
			s.setLocked(fresh)
			if id := IDToken(fresh); id != "" {
				s.idToken = id
			}
		}
	}
	return s.token.AccessToken, true
}

func (s *Session) ClearToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	s.claims = nil
	s.idToken = ""
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != nil && s.token.AccessToken != ""
}

func (s *Session) CurrentUsername() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claims == nil {
		return ""
	}
	return s.claims.PreferredUsername
}

func (s *Session) HasRole(role string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims != nil && s.claims.HasRole(role)
}

// Token returns the stored token for persistence.
func (s *Session) Token() *oauth2.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) IDToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idToken
}
