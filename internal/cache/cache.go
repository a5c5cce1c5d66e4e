// Package cache stores fetched bytes (page resources, avatar images) so
// repeated archive runs do not refetch them.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get reports ok=false for a missing or expired key; err is reserved for
	// backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
