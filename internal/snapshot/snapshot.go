// Package snapshot provides the persisted, best-effort cache behind the CMS
// store: a byte-blob keyed store with file, redis, and in-memory backends.
// Snapshots accelerate cold starts and survive restarts, but they are never
// authoritative; corrupt or unreadable data reads as a miss.
package snapshot

import "context"

// Store persists opaque snapshot blobs under fixed keys.
type Store interface {
	// Get returns the blob stored under key. Missing or unreadable data
	// reports found=false without an error.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)
	// Set writes or replaces the blob stored under key.
	Set(ctx context.Context, key string, data []byte) error
	// Delete removes the blob stored under key. Deleting an absent key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
