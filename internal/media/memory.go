package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

// MemoryStore keeps assets in memory. Used in tests and as a fallback when
// no media store is configured.
type MemoryStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	destroyed []string

	// FailUploads makes every Upload return an error
	FailUploads bool
	// FailDestroys makes every Destroy return an error
	FailDestroys bool
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

// Upload stores the bytes under folder/publicID
func (s *MemoryStore) Upload(ctx context.Context, r io.Reader, folder, publicID string) (string, error) {
	if s.FailUploads {
		return "", errors.New("memory store: uploads disabled")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	id := folder + "/" + publicID
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id] = data
	return id, nil
}

// Destroy removes an asset and records the deletion
func (s *MemoryStore) Destroy(ctx context.Context, publicID string) error {
	if s.FailDestroys {
		return errors.New("memory store: destroys disabled")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, publicID)
	s.destroyed = append(s.destroyed, publicID)
	return nil
}

// URL builds a deterministic fake URL
func (s *MemoryStore) URL(publicID string, t Transform) string {
	return fmt.Sprintf("memory://c_%s,w_%d,h_%d,q_%s/%s", t.Crop, t.Width, t.Height, t.Quality, publicID)
}

// Has reports whether an asset is stored
func (s *MemoryStore) Has(publicID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[publicID]
	return ok
}

// Destroyed returns the public IDs passed to Destroy, in order
func (s *MemoryStore) Destroyed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.destroyed))
	copy(out, s.destroyed)
	return out
}
