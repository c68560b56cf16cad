package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Loay-Khaled/CoffeeShop-Microservices-Platfrom/internal/domain"
)

const maxJitter = 5 * time.Minute

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: ttl,
	}
}

type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func (r RedisCache) Get(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	data, err := r.client.Get(ctx, cacheKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var snapshot domain.SessionSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &snapshot, nil
}

// Set stores the session with the base TTL plus up to maxJitter, so sessions
// created together do not expire together. The version check and the write
// run in one WATCH/MULTI transaction.
func (r RedisCache) Set(ctx context.Context, sessionID string, s *domain.SessionSnapshot) error {
	key := cacheKey(sessionID)
	expected := s.Version
	s.Version = expected + 1
	data, err := json.Marshal(s)
	if err != nil {
		s.Version = expected
		return fmt.Errorf("marshal session failed: %w", err)
	}

	jitter := time.Duration(rand.Int63n(int64(maxJitter)))
	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := storedVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != expected {
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.baseTTL+jitter)
			return nil
		})
		return err
	}, key)
	if err != nil {
		s.Version = expected
		if errors.Is(err, ErrConflict) || errors.Is(err, redis.TxFailedErr) {
			return ErrConflict
		}
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func storedVersion(ctx context.Context, tx *redis.Tx, key string) (int64, error) {
	data, err := tx.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var v struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return v.Version, nil
}

func (r RedisCache) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cacheKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
