package hub

import (
	"context"
	"errors"
)

// ErrNotFound is returned by BlobStore.Get when no document exists at the key.
var ErrNotFound = errors.New("blob not found")

// ErrRevisionMismatch is returned by BlobStore.Put when the stored revision
// differs from the expected revision, meaning another writer got there first.
var ErrRevisionMismatch = errors.New("blob revision mismatch")

// BlobStore provides an interface for document storage backends.
// Each key holds a single opaque document plus a monotonic revision number
// used for optimistic concurrency: Put succeeds only when the caller's
// expected revision matches the stored one. A revision of 0 means the key
// does not exist yet.
type BlobStore interface {
	// Get retrieves the document at key along with its current revision.
	// Returns ErrNotFound if no document exists.
	Get(ctx context.Context, key string) (data []byte, revision int64, err error)

	// Put stores data at key. expectedRevision must match the current
	// stored revision (0 to create). Returns the new revision, or
	// ErrRevisionMismatch if another write landed in between.
	Put(ctx context.Context, key string, data []byte, expectedRevision int64) (int64, error)

	// Ping verifies that the backend is accessible and properly configured.
	Ping(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}
