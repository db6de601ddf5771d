// Package cache provides the byte cache used for read-through caching of
// rarely changing documents.
package cache

import (
	"context"
	"time"
)

// Cache is safe for concurrent use.
type Cache interface {
	// Get returns ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type Error string

func (e Error) Error() string { return string(e) }

const ErrCacheMiss Error = "cache miss"
