package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches any *Error carrying a 401 status.
var ErrUnauthorized = errors.New("remote service rejected credentials")

// Error is returned for every non-2xx response. The body is kept verbatim.
type Error struct {
	Service    string
	Method     string
	Path       string
	StatusCode int
	Body       []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s %s: %d %s", e.Service, e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// Retryable reports whether the failure is on the remote side.
func (e *Error) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// StatusCode extracts the remote status code from err, if any.
func StatusCode(err error) (int, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.StatusCode, true
	}
	return 0, false
}
