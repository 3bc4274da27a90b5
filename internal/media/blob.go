package media

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrBlobNotFound is returned when a reference cannot be resolved, which is
// what happens to refs from another process or a previous session.
var ErrBlobNotFound = errors.New("media: blob not found")

const refPrefix = "blob:"

// BlobStore holds captured media payloads in memory for the lifetime of the
// session. References are transient: a message carrying one is only
// resolvable inside the process that produced it. A real deployment would
// upload and reference by durable URL before cross-process fan-out.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewBlobStore() *BlobStore {
	return &BlobStore{blobs: make(map[string][]byte)}
}

// Put stores data and returns its content reference.
func (b *BlobStore) Put(data []byte) string {
	ref := refPrefix + uuid.NewString()
	b.mu.Lock()
	b.blobs[ref] = data
	b.mu.Unlock()
	return ref
}

// Get resolves a content reference to its bytes.
func (b *BlobStore) Get(ref string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.blobs[ref]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return data, nil
}

// Len returns the number of stored blobs.
func (b *BlobStore) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.blobs)
}
