package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/cart"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/identity"
)

var ErrNoPendingLogin = errors.New("no login in progress")

// Session is the server-side state of one browser: its cart and its identity.
// A Session is loaded per request and is not shared between goroutines.
type Session struct {
	ID       string
	Cart     *cart.Store
	Identity *identity.Session

	loginState     string
	loginVerifier  string
	returnTo       string
	reloadRequired bool
	createdAt      time.Time
	version        int64 // version of the stored record this session was read from
}

// ExpireAuth is the storefront's reaction to a remote 401: the token is
// dropped and the browser is told to reload from scratch.
func (s *Session) ExpireAuth() {
	s.Identity.ClearToken()
	s.reloadRequired = true
}

// TakeReload reports whether a reload must be signalled and resets the mark,
// so each expiry is signalled once.
func (s *Session) TakeReload() bool {
	r := s.reloadRequired
	s.reloadRequired = false
	return r
}

// BeginLogin records a pending login and returns its state and PKCE verifier.
func (s *Session) BeginLogin(returnTo string) (state, verifier string) {
	s.loginState = uuid.NewString()
	s.loginVerifier = identity.NewVerifier()
	s.returnTo = returnTo
	return s.loginState, s.loginVerifier
}

// CompleteLogin checks the callback state and hands back the verifier. The
// pending login is consumed either way.
func (s *Session) CompleteLogin(state string) (verifier, returnTo string, err error) {
	expected, verifier, returnTo := s.loginState, s.loginVerifier, s.returnTo
	s.loginState, s.loginVerifier, s.returnTo = "", "", ""
	if expected == "" {
		return "", "", ErrNoPendingLogin
	}
	if state != expected {
		return "", "", identity.ErrStateMismatch
	}
	return verifier, returnTo, nil
}

// Logout drops the identity. The cart stays with the session.
func (s *Session) Logout() {
	s.Identity.ClearToken()
	s.reloadRequired = false
}

// Blank reports whether the session was never stored and holds nothing worth
// storing. Blank sessions are not persisted and get no cookie.
func (s *Session) Blank() bool {
	return s.version == 0 &&
		s.Cart.IsEmpty() &&
		!s.Identity.IsAuthenticated() &&
		s.loginState == "" &&
		!s.reloadRequired
}

func (s *Session) snapshot(now time.Time) *domain.SessionSnapshot {
	return &domain.SessionSnapshot{
		ID:             s.ID,
		Version:        s.version,
		Cart:           s.Cart.Lines(),
		Token:          s.Identity.Token(),
		IDToken:        s.Identity.IDToken(),
		LoginState:     s.loginState,
		LoginVerifier:  s.loginVerifier,
		ReturnTo:       s.returnTo,
		ReloadRequired: s.reloadRequired,
		CreatedAt:      s.createdAt,
		UpdatedAt:      now,
	}
}
