package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/gateway"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleGatewayError reports a failed remote call. Remote rejections keep
// their status; a 401 also makes the session writer send the reload signal.
func handleGatewayError(w http.ResponseWriter, r *http.Request, err error) {
	var gwErr *gateway.Error
	switch {
	case errors.Is(err, gateway.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "session_expired", "your session has expired, please sign in again")
	case errors.As(err, &gwErr) && !gwErr.Retryable():
		respondJSON(w, gwErr.StatusCode, ErrorResponse{
			Error:   fmt.Sprintf("%s service rejected the request", gwErr.Service),
			Code:    "rejected",
			Details: string(gwErr.Body),
		})
	default:
		log.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", requestID(r)).
			Msg("remote call failed")
		respondJSON(w, http.StatusBadGateway, ErrorResponse{
			Error:     "a backend service is unavailable",
			Code:      "upstream_unavailable",
			Retryable: true,
		})
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
