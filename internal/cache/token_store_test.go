package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestTokenStore(t *testing.T) (TokenStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisTokenStore(client), mr
}

func TestTokenStoreRevoke(t *testing.T) {
	store, _ := newTestTokenStore(t)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "token-a")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Error("token should not be revoked before Revoke is called")
	}

	if err := store.Revoke(ctx, "token-a", time.Hour); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	revoked, err = store.IsRevoked(ctx, "token-a")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if !revoked {
		t.Error("token should be revoked after Revoke")
	}

	// Other tokens are unaffected.
	revoked, err = store.IsRevoked(ctx, "token-b")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Error("unrelated token should not be revoked")
	}
}

func TestTokenStoreEntryExpires(t *testing.T) {
	store, mr := newTestTokenStore(t)
	ctx := context.Background()

	if err := store.Revoke(ctx, "token-a", time.Minute); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	revoked, err := store.IsRevoked(ctx, "token-a")
	if err != nil {
		t.Fatalf("IsRevoked: %v", err)
	}
	if revoked {
		t.Error("denylist entry should lapse with the token's own expiry")
	}
}

func TestTokenStoreSkipsExpiredTokens(t *testing.T) {
	store, mr := newTestTokenStore(t)
	ctx := context.Background()

	if err := store.Revoke(ctx, "token-a", -time.Minute); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	if len(mr.Keys()) != 0 {
		t.Errorf("expected no keys for an already-expired token, got %v", mr.Keys())
	}
}
