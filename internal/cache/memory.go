package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

// MemoryCache keeps sessions in process, bounded by size and TTL. Sessions
// are stored encoded so callers never share state through the cache.
type MemoryCache struct {
	mu  sync.Mutex // serialises the version check and the write in Set
	lru *expirable.LRU[string, []byte]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m *MemoryCache) Get(_ context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	data, ok := m.lru.Get(sessionID)
	if !ok {
		return nil, ErrCacheMiss
	}
	var snapshot domain.SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &snapshot, nil
}

func (m *MemoryCache) Set(_ context.Context, sessionID string, s *domain.SessionSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current int64
	if data, ok := m.lru.Peek(sessionID); ok {
		var stored domain.SessionSnapshot
		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("unmarshal session failed: %w", err)
		}
		current = stored.Version
	}
	if current != s.Version {
		return ErrConflict
	}

	s.Version++
	data, err := json.Marshal(s)
	if err != nil {
		s.Version--
		return fmt.Errorf("marshal session failed: %w", err)
	}
	m.lru.Add(sessionID, data)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, sessionID string) error {
	m.lru.Remove(sessionID)
	return nil
}

func (m *MemoryCache) Len() int {
	return m.lru.Len()
}
