// Package cache provides byte-level caching for remote design assets.
//
// Artwork and logo fetches go through a Cache so repeated view loads and
// bulk exports do not re-download the same images. Backends:
//   - FileCache: on-disk cache for the CLI
//   - NullCache: caching disabled
//
// Keys are built by a Keyer so different asset namespaces cannot collide.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with optional expiry.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found
	// and unexpired; an error is returned only for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for asset references.
type Keyer interface {
	// AssetKey generates a key for a fetched asset (URL or path).
	AssetKey(ref string) string
}

// DefaultKeyer hashes asset references into stable keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// AssetKey generates a hashed key under the "asset" namespace.
func (DefaultKeyer) AssetKey(ref string) string {
	return hashKey("asset", ref)
}

// ScopedKeyer prefixes another keyer's keys, isolating namespaces when
// several studios share one cache directory.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// AssetKey generates a prefixed asset key.
func (k *ScopedKeyer) AssetKey(ref string) string {
	return k.prefix + k.inner.AssetKey(ref)
}
