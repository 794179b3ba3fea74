// Package cache stores synthesis and bipartition-sum results between runs.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis server, for several workers on one graph
//   - [NullCache]: stores nothing
//
// Keys come from a [Keyer]. They are content hashes of the input document
// plus every option that changes the output, so a changed graph or a
// different strategy never reads a stale entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with expiring entries.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// DefaultTTL is how long cached results stay valid unless configured.
const DefaultTTL = 24 * time.Hour
