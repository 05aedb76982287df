package credentials

import (
	"context"
	"sync"
)

// MemoryStore keeps the pair in process memory. Used by tests and one-shot CLI runs.
type MemoryStore struct {
	mu   sync.RWMutex
	pair *Pair
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWith returns a store pre-populated with the given tokens.
func NewMemoryStoreWith(accessToken, refreshToken string) *MemoryStore {
	return &MemoryStore{pair: &Pair{AccessToken: accessToken, RefreshToken: refreshToken}}
}

func (m *MemoryStore) Load(_ context.Context) (Pair, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.pair == nil {
		return Pair{}, false, nil
	}
	return *m.pair, true, nil
}

func (m *MemoryStore) Save(_ context.Context, accessToken, refreshToken string) error {
	if err := validatePair(accessToken, refreshToken); err != nil {
		return err
	}
	m.mu.Lock()
	m.pair = &Pair{AccessToken: accessToken, RefreshToken: refreshToken}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.pair = nil
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Name() string {
	return "MemoryStore"
}
