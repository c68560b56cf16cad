package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/cache"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/session"
)

const (
	SessionCookie = "storefront_session"
	ReloadHeader  = "X-Storefront-Reload"

	sessionSaveTimeout = 2 * time.Second
)

type ctxKey int

const sessionKey ctxKey = iota

// RequestIDMiddleware echoes the chi request id back to the caller.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set("X-Request-ID", id)
		}
		next.ServeHTTP(w, r)
	})
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", requestID(r)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// withSession loads the caller's session, runs the handler and saves the
// session just before the response headers go out, so a failed save can
// still change the status. Requests for one session run one at a time from
// load to save.
func (h *Handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}

		unlock, err := h.sessions.Lock(r.Context(), id)
		if err != nil {
			log.Warn().Err(err).Str("request_id", requestID(r)).Msg("session busy")
			respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{
				Error:     "session is busy",
				Code:      "session_busy",
				Retryable: true,
			})
			return
		}
		defer unlock()

		sess, err := h.sessions.Load(r.Context(), id)
		if err != nil {
			log.Error().Err(err).Str("request_id", requestID(r)).Msg("session load failed")
			respondError(w, http.StatusServiceUnavailable, "session_unavailable", "session store unavailable")
			return
		}

		sw := &sessionWriter{ResponseWriter: w, r: r, sess: sess, h: h}
		next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), sessionKey, sess)))
		sw.commit()
	})
}

func sessionFrom(r *http.Request) *session.Session {
	s, _ := r.Context().Value(sessionKey).(*session.Session)
	return s
}

func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r).Identity.IsAuthenticated() {
			respondError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.auth.IsAdmin(sessionFrom(r).Identity) {
			respondError(w, http.StatusForbidden, "forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type sessionWriter struct {
	http.ResponseWriter
	r         *http.Request
	sess      *session.Session
	h         *Handler
	committed bool
	conflict  bool // the save lost a race; the handler's response is dropped
}

// commit saves the session and sets the cookie and reload headers. Blank
// sessions are neither saved nor sent a cookie, so a request carrying a
// stale cookie cannot replace a live one.
func (w *sessionWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	if w.sess.Blank() {
		return
	}

	reload := w.sess.TakeReload()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(w.r.Context()), sessionSaveTimeout)
	defer cancel()
	err := w.h.sessions.Save(ctx, w.sess)
	switch {
	case errors.Is(err, cache.ErrConflict):
		log.Warn().Str("session_id", w.sess.ID).Str("request_id", requestID(w.r)).Msg("session changed concurrently")
		w.conflict = true
		w.Header().Del("Location")
		respondJSON(w.ResponseWriter, http.StatusConflict, ErrorResponse{
			Error:     "session was changed by another request",
			Code:      "session_conflict",
			Retryable: true,
		})
		return
	case err != nil:
		log.Error().Err(err).Str("session_id", w.sess.ID).Msg("session save failed")
	}

	http.SetCookie(w.ResponseWriter, w.h.sessionCookie(w.sess.ID))
	if reload {
		w.Header().Set(ReloadHeader, "true")
	}
}

func (w *sessionWriter) WriteHeader(code int) {
	w.commit()
	if w.conflict {
		return
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.commit()
	if w.conflict {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (h *Handler) sessionCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.opts.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
