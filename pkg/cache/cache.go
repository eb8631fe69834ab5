// Package cache stores computed layout positions keyed by graph content
// hash, so reopening a large graph skips the relaxation stall.
//
// Three backends implement the same interface: a file cache for local
// use, a redis cache for shared environments, and a null cache for
// --no-cache runs. Layouts are pure functions of (graph, options), so
// entries carry no TTL by default; the cache subcommand handles manual
// flushes.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts captures the layout options that affect positions.
// Two runs with equal graph hash and equal opts produce identical
// layouts, which is what makes the cache sound.
type LayoutKeyOpts struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Margin     float64 `json:"margin"`
	Iterations int     `json:"iterations"`
	Passes     int     `json:"passes"`
}

// LayoutKey generates the cache key for a layout: a "layout:" prefix plus
// a SHA-256 over the graph content hash and the options.
func LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
