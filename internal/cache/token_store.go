package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore is the refresh-token denylist behind logout. A denylisted
// token stays listed until its natural expiry, after which the JWT itself
// no longer validates and the entry can lapse.
type TokenStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type redisTokenStore struct {
	client *redis.Client
	prefix string
}

func NewRedisTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client, prefix: "lms:revoked_token:"}
}

func (s *redisTokenStore) key(token string) string {
	return s.prefix + token
}

func (s *redisTokenStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired; nothing to denylist.
		return nil
	}
	if err := s.client.Set(ctx, s.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *redisTokenStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// memoryTokenStore is the fallback when Redis is not configured. Entries do
// not survive a restart, which matches single-instance development use.
type memoryTokenStore struct {
	mu      sync.RWMutex
	expires map[string]time.Time
}

func NewMemoryTokenStore() TokenStore {
	return &memoryTokenStore{expires: make(map[string]time.Time)}
}

func (s *memoryTokenStore) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[token] = time.Now().Add(ttl)
	return nil
}

func (s *memoryTokenStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	deadline, ok := s.expires[token]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().After(deadline) {
		s.mu.Lock()
		delete(s.expires, token)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}
