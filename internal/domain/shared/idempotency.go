package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers request keys that have already been accepted, so
// a retried mutation (a resent payment, a repeated allocation request) is not
// applied twice.
type IdempotencyStore interface {
	// MarkProcessed marks a key as processed with a TTL.
	// Returns true if the key was newly marked, false if it was already known.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks if a key has already been processed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close closes the store and releases resources
	Close() error
}
