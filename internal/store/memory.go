package store

import (
	"context"
	"sync"
	"time"

	"github.com/acbharath14/linkeshortenerproject/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
// Used for development and tests; state is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	urls   map[shortener.Code]*shortener.ShortURL
	hashes map[shortener.URLHash]shortener.Code
}

// NewMemoryStore creates a new in-memory URL store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		urls:   make(map[shortener.Code]*shortener.ShortURL),
		hashes: make(map[shortener.URLHash]shortener.Code),
	}
}

func (m *MemoryStore) Save(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *shortURL
	m.urls[shortURL.Code] = &stored

	if shortURL.URLHash != "" {
		m.hashes[shortURL.URLHash] = shortURL.Code
	}

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.live(code)
}

func (m *MemoryStore) GetByHash(_ context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code, ok := m.hashes[hash]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return m.live(code)
}

func (m *MemoryStore) SoftDelete(_ context.Context, code shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.urls[code]
	if !ok {
		return shortener.ErrNotFound
	}

	if u.DeletedAt == nil {
		now := time.Now()
		u.DeletedAt = &now
	}

	return nil
}

func (m *MemoryStore) IncrementClicks(_ context.Context, code shortener.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.urls[code]; ok {
		u.Clicks++
	}

	return nil
}

// live returns a copy of the entity when it exists and is not soft-deleted.
func (m *MemoryStore) live(code shortener.Code) (*shortener.ShortURL, error) {
	u, ok := m.urls[code]
	if !ok || u.DeletedAt != nil {
		return nil, shortener.ErrNotFound
	}

	copied := *u

	return &copied, nil
}
