package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/cache"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/cart"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/identity"
)

type mockCache struct {
	m        sync.RWMutex
	sessions map[string]*domain.SessionSnapshot
	err      error
	gets     atomic.Int32
	delay    time.Duration
}

func newMockCache() *mockCache {
	return &mockCache{sessions: map[string]*domain.SessionSnapshot{}}
}

func (m *mockCache) Get(_ context.Context, id string) (*domain.SessionSnapshot, error) {
	m.gets.Add(1)
	time.Sleep(m.delay)
	m.m.RLock()
	defer m.m.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return s, nil
}

func (m *mockCache) Set(_ context.Context, id string, s *domain.SessionSnapshot) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	var current int64
	if stored, ok := m.sessions[id]; ok {
		current = stored.Version
	}
	if current != s.Version {
		return cache.ErrConflict
	}
	s.Version++
	m.sessions[id] = s
	return nil
}

func (m *mockCache) Delete(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.sessions, id)
	return m.err
}

func TestLoad_EmptyIDStartsNewSession(t *testing.T) {
	sut := NewManager(newMockCache(), nil)

	s, err := sut.Load(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.True(t, s.Cart.IsEmpty())
	assert.False(t, s.Identity.IsAuthenticated())
}

func TestLoad_UnknownIDGetsFreshID(t *testing.T) {
	sut := NewManager(newMockCache(), nil)

	s, err := sut.Load(context.Background(), "attacker-chosen")
	require.NoError(t, err)
	assert.NotEqual(t, "attacker-chosen", s.ID)
}

func TestLoad_CacheError(t *testing.T) {
	mc := newMockCache()
	mc.err = errors.New("redis down")
	sut := NewManager(mc, nil)

	s, err := sut.Load(context.Background(), "abc")
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	mc := newMockCache()
	sut := NewManager(mc, nil)
	ctx := context.Background()

	s := sut.New()
	s.Cart.AddToCart(cart.Product{ID: 1, Name: "Espresso", Price: decimal.RequireFromString("3.50")})
	s.Cart.AddToCart(cart.Product{ID: 1, Name: "Espresso", Price: decimal.RequireFromString("3.50")})
	s.Identity.SetToken(&oauth2.Token{AccessToken: "tok"}, "id")
	require.NoError(t, sut.Save(ctx, s))

	loaded, err := sut.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)
	assert.Equal(t, 2, loaded.Cart.ItemCount())
	assert.True(t, loaded.Identity.IsAuthenticated())
	assert.Equal(t, "id", loaded.Identity.IDToken())
}

func TestLoad_ConcurrentLoadsCollapse(t *testing.T) {
	mc := newMockCache()
	mc.delay = 50 * time.Millisecond
	sut := NewManager(mc, nil)
	ctx := context.Background()

	s := sut.New()
	require.NoError(t, sut.Save(ctx, s))

	var wg sync.WaitGroup
	sessions := make([]*Session, 5)
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loaded, err := sut.Load(ctx, s.ID)
			assert.NoError(t, err)
			sessions[i] = loaded
		}(i)
	}
	wg.Wait()

	assert.Less(t, int(mc.gets.Load()), 5)
	for _, loaded := range sessions {
		require.NotNil(t, loaded)
		assert.Equal(t, s.ID, loaded.ID)
	}
	assert.NotSame(t, sessions[0].Cart, sessions[1].Cart)
}

func TestExpireAuth_SignalsReloadOnce(t *testing.T) {
	sut := NewManager(newMockCache(), nil)
	s := sut.New()
	s.Identity.SetToken(&oauth2.Token{AccessToken: "tok"}, "")

	s.ExpireAuth()

	assert.False(t, s.Identity.IsAuthenticated())
	assert.True(t, s.TakeReload())
	assert.False(t, s.TakeReload())
}

func TestExpireAuth_SurvivesSave(t *testing.T) {
	sut := NewManager(newMockCache(), nil)
	ctx := context.Background()
	s := sut.New()
	s.Identity.SetToken(&oauth2.Token{AccessToken: "tok"}, "")
	s.ExpireAuth()
	require.NoError(t, sut.Save(ctx, s))

	loaded, err := sut.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Identity.IsAuthenticated())
	assert.True(t, loaded.TakeReload())
}

func TestLogout_KeepsCart(t *testing.T) {
	sut := NewManager(newMockCache(), nil)
	s := sut.New()
	s.Cart.AddToCart(cart.Product{ID: 1, Name: "A", Price: decimal.NewFromInt(1)})
	s.Identity.SetToken(&oauth2.Token{AccessToken: "tok"}, "")

	s.Logout()

	assert.False(t, s.Identity.IsAuthenticated())
	assert.Equal(t, 1, s.Cart.ItemCount())
}

func TestLoginFlow(t *testing.T) {
	sut := NewManager(newMockCache(), nil)
	s := sut.New()

	_, _, err := s.CompleteLogin("x")
	assert.ErrorIs(t, err, ErrNoPendingLogin)

	state, verifier := s.BeginLogin("/cart")
	assert.NotEmpty(t, state)
	assert.NotEmpty(t, verifier)

	_, _, err = s.CompleteLogin("wrong")
	assert.ErrorIs(t, err, identity.ErrStateMismatch)

	// a failed attempt consumes the pending login
	_, _, err = s.CompleteLogin(state)
	assert.ErrorIs(t, err, ErrNoPendingLogin)

	state, verifier = s.BeginLogin("/orders")
	gotVerifier, returnTo, err := s.CompleteLogin(state)
	require.NoError(t, err)
	assert.Equal(t, verifier, gotVerifier)
	assert.Equal(t, "/orders", returnTo)
}

func TestDestroy(t *testing.T) {
	mc := newMockCache()
	sut := NewManager(mc, nil)
	ctx := context.Background()
	s := sut.New()
	require.NoError(t, sut.Save(ctx, s))

	sut.Destroy(ctx, s.ID)

	_, err := mc.Get(ctx, s.ID)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestWithMemoryCache(t *testing.T) {
	sut := NewManager(cache.NewMemoryCache(10, time.Minute), nil)
	ctx := context.Background()
	s := sut.New()
	s.Cart.AddToCart(cart.Product{ID: 3, Name: "Mocha", Price: decimal.RequireFromString("4.75")})
	require.NoError(t, sut.Save(ctx, s))

	loaded, err := sut.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("4.75").Equal(loaded.Cart.Total()))
}

func TestRotate(t *testing.T) {
	mc := newMockCache()
	sut := NewManager(mc, nil)
	ctx := context.Background()
	s := sut.New()
	require.NoError(t, sut.Save(ctx, s))
	old := s.ID

	sut.Rotate(ctx, s)
	require.NoError(t, sut.Save(ctx, s))

	assert.NotEqual(t, old, s.ID)
	_, err := mc.Get(ctx, old)
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	_, err = mc.Get(ctx, s.ID)
	assert.NoError(t, err)
}

func TestLock_SerialisesOneSession(t *testing.T) {
	sut := NewManager(newMockCache(), nil)
	ctx := context.Background()

	unlock, err := sut.Lock(ctx, "abc")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		unlockSecond, err := sut.Lock(ctx, "abc")
		assert.NoError(t, err)
		close(acquired)
		unlockSecond()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder got the lock while the first still held it")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()
	unlock() // releasing twice is harmless
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock was never handed over")
	}

	assert.Eventually(t, func() bool { return sut.locks.len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestLock_OtherSessionsDoNotWait(t *testing.T) {
	sut := NewManager(newMockCache(), nil)
	ctx := context.Background()

	unlock, err := sut.Lock(ctx, "abc")
	require.NoError(t, err)
	defer unlock()

	unlockOther, err := sut.Lock(ctx, "xyz")
	require.NoError(t, err)
	unlockOther()

	unlockEmpty, err := sut.Lock(ctx, "")
	require.NoError(t, err)
	unlockEmpty()
}

func TestLock_GivesUpWhenContextEnds(t *testing.T) {
	sut := NewManager(newMockCache(), nil)

	unlock, err := sut.Lock(context.Background(), "abc")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = sut.Lock(ctx, "abc")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.Equal(t, 0, sut.locks.len())
}

func TestSave_StaleSessionConflicts(t *testing.T) {
	mc := newMockCache()
	sut := NewManager(mc, nil)
	ctx := context.Background()

	s := sut.New()
	s.Identity.SetToken(&oauth2.Token{AccessToken: "tok"}, "")
	require.NoError(t, sut.Save(ctx, s))

	first, err := sut.Load(ctx, s.ID)
	require.NoError(t, err)
	second, err := sut.Load(ctx, s.ID)
	require.NoError(t, err)

	first.ExpireAuth()
	require.NoError(t, sut.Save(ctx, first))

	second.Cart.AddToCart(cart.Product{ID: 1, Name: "A", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, sut.Save(ctx, second), cache.ErrConflict)

	loaded, err := sut.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, loaded.Identity.IsAuthenticated(), "expired token must not come back")
	assert.True(t, loaded.Cart.IsEmpty())
}

func TestSave_SequentialSavesOfOneSession(t *testing.T) {
	sut := NewManager(newMockCache(), nil)
	ctx := context.Background()

	s := sut.New()
	require.NoError(t, sut.Save(ctx, s))
	s.Cart.AddToCart(cart.Product{ID: 1, Name: "A", Price: decimal.NewFromInt(1)})
	require.NoError(t, sut.Save(ctx, s))

	loaded, err := sut.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Cart.ItemCount())
}

func TestBlank(t *testing.T) {
	sut := NewManager(newMockCache(), nil)
	ctx := context.Background()

	s := sut.New()
	assert.True(t, s.Blank())

	s.BeginLogin("/")
	assert.False(t, s.Blank())

	s = sut.New()
	s.Cart.AddToCart(cart.Product{ID: 1, Name: "A", Price: decimal.NewFromInt(1)})
	assert.False(t, s.Blank())
	s.Cart.ClearCart()
	assert.True(t, s.Blank())

	require.NoError(t, sut.Save(ctx, s))
	assert.False(t, s.Blank(), "a stored session is never blank")

	sut.Rotate(ctx, s)
	assert.True(t, s.Blank())
}
