package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevoker keeps logged-out token ids in Redis until the token would
// have expired on its own.
// Key format: revoked:<jti>
type TokenRevoker struct {
	client *redis.Client
	now    func() time.Time
}

// NewTokenRevoker creates a TokenRevoker wrapping the given Redis client.
func NewTokenRevoker(client *redis.Client) *TokenRevoker {
	return &TokenRevoker{client: client, now: time.Now}
}

// Revoke records tokenID until expiresAt. Tokens that already expired are skipped.
func (r *TokenRevoker) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := r.ttl(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID was logged out.
func (r *TokenRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

// Ping reports whether Redis is reachable.
func (r *TokenRevoker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *TokenRevoker) ttl(expiresAt time.Time) time.Duration {
	return expiresAt.Sub(r.now())
}

func key(tokenID string) string {
	return "revoked:" + tokenID
}
