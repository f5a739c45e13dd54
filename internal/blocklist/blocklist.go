package blocklist

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Blocklist records revoked token ids in a shared Redis instance.
// Presence of a jti key means revoked; entries self-expire with the
// TTL given at revocation. It is the single source of truth for
// revocation across all service instances.
type Blocklist struct {
	client *redis.Client
}

func New(client *redis.Client) *Blocklist {
	return &Blocklist{client: client}
}

// Connect dials Redis and verifies the connection before returning a
// usable blocklist.
func Connect(ctx context.Context, host, port string) (*Blocklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         host + ":" + port,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return New(client), nil
}

// Revoke marks a jti as no longer honorable. Idempotent: revoking the
// same jti twice only refreshes the marker's TTL.
func (b *Blocklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, jti, "", ttl).Err(); err != nil {
		return fmt.Errorf("blocklist set: %w", err)
	}
	return nil
}

// IsRevoked reports whether a jti has been revoked. Store errors are
// returned as-is so callers can fail closed instead of treating an
// outage as "not revoked".
func (b *Blocklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, jti).Result()
	if err != nil {
		return false, fmt.Errorf("blocklist lookup: %w", err)
	}
	return n > 0, nil
}

func (b *Blocklist) Close() error {
	return b.client.Close()
}
