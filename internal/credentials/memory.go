package credentials

import (
	"context"
	"sync"
)

// MemoryStore keeps the bundle in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	bundle *Bundle
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith creates an in-memory store seeded with tokens
func NewMemoryStoreWith(accessToken, refreshToken string) *MemoryStore {
	return &MemoryStore{bundle: &Bundle{AccessToken: accessToken, RefreshToken: refreshToken}}
}

// Load returns the stored bundle
func (s *MemoryStore) Load(ctx context.Context) (Bundle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.bundle == nil {
		return Bundle{}, ErrNotFound
	}
	return *s.bundle, nil
}

// Save overwrites the stored bundle
func (s *MemoryStore) Save(ctx context.Context, bundle Bundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bundle = &bundle
	return nil
}

// Clear removes the stored bundle
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bundle = nil
	return nil
}
