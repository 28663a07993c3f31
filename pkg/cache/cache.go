// Package cache provides pluggable byte-level caching for HTTP responses.
//
// Three backends are available:
//   - NullCache: no-op, the default. Enrichment runs are one-shot and the
//     tool keeps no state between invocations unless explicitly asked to.
//   - FileCache: directory-backed cache for repeated local runs.
//   - RedisCache: shared cache for environments where several machines
//     enrich the same catalog.
//
// Values are opaque byte slices; callers are responsible for serialization
// and for namespacing keys (e.g. "github:user/repo").
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface implemented by all cache backends.
type Cache interface {
	// Get retrieves a value by key. The second return value reports
	// whether the key was found and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
