package blob

import (
	"context"
	"sync"

	"hub-go/internal/hub"
)

// MemoryStore is an in-memory implementation of the BlobStore interface.
// It keeps all documents and revisions in maps, making it useful for tests
// and throwaway setups. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	data     map[string][]byte
	revision map[string]int64
}

// NewMemoryStore creates a new in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:     make(map[string][]byte),
		revision: make(map[string]int64),
	}
}

// Get retrieves the document at key along with its current revision.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[key]
	if !ok {
		return nil, 0, hub.ErrNotFound
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, m.revision[key], nil
}

// Put stores data at key when expectedRevision matches the stored revision.
func (m *MemoryStore) Put(_ context.Context, key string, data []byte, expectedRevision int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.revision[key] != expectedRevision {
		return 0, hub.ErrRevisionMismatch
	}

	cp := make([]byte, len(data))
	copy(cp, data)
	m.data[key] = cp
	m.revision[key] = expectedRevision + 1
	return m.revision[key], nil
}

// Ping always succeeds for the in-memory store.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

// Compile-time check that MemoryStore implements hub.BlobStore
var _ hub.BlobStore = (*MemoryStore)(nil)
