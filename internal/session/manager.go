package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/cache"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/cart"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/identity"
)

type Manager struct {
	cache    cache.SessionCache
	provider *identity.Provider
	sfg      singleflight.Group // collapses concurrent loads of one session
	locks    *keyedMutex
	now      func() time.Time
}

func NewManager(c cache.SessionCache, p *identity.Provider) *Manager {
	return &Manager{
		cache:    c,
		provider: p,
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

// New starts an empty session with a fresh id.
func (m *Manager) New() *Session {
	return &Session{
		ID:        uuid.NewString(),
		Cart:      cart.NewStore(),
		Identity:  identity.NewSession(m.provider, nil, ""),
		createdAt: m.now(),
	}
}

// Lock serialises work on one session id within this process. Callers hold
// it from Load to Save so concurrent requests from one browser apply in turn.
// Writers in other processes are caught by the versioned Save instead.
func (m *Manager) Lock(ctx context.Context, id string) (func(), error) {
	if id == "" {
		return func() {}, nil
	}
	return m.locks.lock(ctx, id)
}

// Load returns the stored session with the given id. Unknown or empty ids
// yield a new session with a new id, never one with the id the client chose.
func (m *Manager) Load(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return m.New(), nil
	}

	v, err, _ := m.sfg.Do(id, func() (interface{}, error) {
		return m.cache.Get(ctx, id)
	})
	if errors.Is(err, cache.ErrCacheMiss) {
		return m.New(), nil
	}
	if err != nil {
		return nil, err
	}

	return m.restore(v.(*domain.SessionSnapshot)), nil
}

func (m *Manager) restore(snap *domain.SessionSnapshot) *Session {
	store := cart.NewStore()
	store.Restore(snap.Cart)
	return &Session{
		ID:             snap.ID,
		Cart:           store,
		Identity:       identity.NewSession(m.provider, snap.Token, snap.IDToken),
		loginState:     snap.LoginState,
		loginVerifier:  snap.LoginVerifier,
		returnTo:       snap.ReturnTo,
		reloadRequired: snap.ReloadRequired,
		createdAt:      snap.CreatedAt,
		version:        snap.Version,
	}
}

// Save stores s if nobody else stored it since it was loaded, and returns
// cache.ErrConflict otherwise.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	snap := s.snapshot(m.now())
	if err := m.cache.Set(ctx, s.ID, snap); err != nil {
		return err
	}
	s.version = snap.Version
	return nil
}

func (m *Manager) Destroy(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := m.cache.Delete(ctx, id); err != nil {
		log.Warn().Err(err).Str("session_id", id).Msg("session delete failed")
	}
}

// Rotate gives s a new id and drops the record stored under the old one.
// Called when the session changes privilege, i.e. on login.
func (m *Manager) Rotate(ctx context.Context, s *Session) {
	old := s.ID
	s.ID = uuid.NewString()
	s.version = 0
	m.Destroy(ctx, old)
}
