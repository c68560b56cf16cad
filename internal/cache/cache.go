package cache

import (
	"context"
	"errors"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

// SessionCache persists storefront sessions between requests.
//
// Set is a compare-and-set: it stores s only while the stored version still
// equals s.Version (a missing entry counts as version 0), then increments
// s.Version. A concurrent writer makes it fail with ErrConflict.
type SessionCache interface {
	Get(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error)
	Set(ctx context.Context, sessionID string, s *domain.SessionSnapshot) error
	Delete(ctx context.Context, sessionID string) error
}

var (
	ErrCacheMiss = errors.New("cache miss")
	ErrConflict  = errors.New("session was modified concurrently")
)
