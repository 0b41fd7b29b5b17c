// Package cache provides the artifact cache used to skip re-encoding runs.
//
// Rendering a month of frames and piping them through an encoder dominates the
// runtime of the tool, so encoded artifacts (GIF/MP4/WebM bytes) are cached on
// disk keyed by a hash of the input CSV and the render options. Identical
// invocations replay the cached bytes instead of re-rendering.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface for encoded artifacts.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL (0 means no expiration).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKey builds the cache key for an encoded artifact.
// The key covers the raw CSV bytes and the normalized option fingerprint so
// that any change to either produces a distinct entry.
func ArtifactKey(csv []byte, optsFingerprint, format string) string {
	return hashKey("artifact:"+format, Hash(csv), optsFingerprint)
}
