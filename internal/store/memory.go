package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryBlobStore keeps blobs in process memory. It backs the "memory"
// database driver and tests.
type MemoryBlobStore struct {
	mu    sync.RWMutex
	blobs map[string]map[string][]byte
}

var _ BlobStore = (*MemoryBlobStore)(nil)

// NewMemoryBlobStore creates an empty MemoryBlobStore.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{blobs: make(map[string]map[string][]byte)}
}

// Load implements BlobStore.
func (m *MemoryBlobStore) Load(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.blobs[namespace][key]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(blob), nil
}

// Save implements BlobStore.
func (m *MemoryBlobStore) Save(_ context.Context, namespace, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(namespace, key, blob)
	return nil
}

// SaveMany implements BlobStore.
func (m *MemoryBlobStore) SaveMany(_ context.Context, namespace string, blobs map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, blob := range blobs {
		m.put(namespace, key, blob)
	}
	return nil
}

func (m *MemoryBlobStore) put(namespace, key string, blob []byte) {
	ns, ok := m.blobs[namespace]
	if !ok {
		ns = make(map[string][]byte)
		m.blobs[namespace] = ns
	}
	ns[key] = slices.Clone(blob)
}
