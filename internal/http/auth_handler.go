package http

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/identity"
)

type MeResponseDTO struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Admin         bool   `json:"admin"`
}

type LogoutResponseDTO struct {
	LogoutURL string `json:"logoutUrl"`
}

// GET /auth/login?returnTo=/cart
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	state, verifier := sess.BeginLogin(safeReturnTo(r.URL.Query().Get("returnTo")))
	http.Redirect(w, r, h.auth.LoginURL(state, verifier), http.StatusFound)
}

// GET /auth/callback?code=...&state=...
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	q := r.URL.Query()

	verifier, returnTo, err := sess.CompleteLogin(q.Get("state"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_state", err.Error())
		return
	}
	if e := q.Get("error"); e != "" {
		respondError(w, http.StatusUnauthorized, "login_failed", e)
		return
	}
	code := q.Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "missing authorization code")
		return
	}

	tok, err := h.auth.Exchange(r.Context(), code, verifier)
	if err != nil {
		log.Warn().Err(err).Str("request_id", requestID(r)).Msg("code exchange failed")
		respondError(w, http.StatusBadGateway, "login_failed", "could not complete sign in")
		return
	}

	h.sessions.Rotate(r.Context(), sess)
	sess.Identity.SetToken(tok, identity.IDToken(tok))
	log.Info().Str("username", sess.Identity.CurrentUsername()).Msg("signed in")

	http.Redirect(w, r, h.opts.AppURL+returnTo, http.StatusFound)
}

// POST /auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	idToken := sess.Identity.IDToken()
	sess.Logout()
	respondJSON(w, http.StatusOK, LogoutResponseDTO{
		LogoutURL: h.auth.LogoutURL(idToken, h.opts.AppURL+"/"),
	})
}

// GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id := sessionFrom(r).Identity
	if !id.IsAuthenticated() {
		respondJSON(w, http.StatusOK, MeResponseDTO{})
		return
	}
	respondJSON(w, http.StatusOK, MeResponseDTO{
		Authenticated: true,
		Username:      id.CurrentUsername(),
		Admin:         h.auth.IsAdmin(id),
	})
}

// safeReturnTo only accepts local paths.
func safeReturnTo(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}
