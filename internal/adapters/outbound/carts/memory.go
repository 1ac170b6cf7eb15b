package carts

import (
	"context"
	"sync"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

// MemoryStore keys open carts by session token. Carts are cloned on the way
// in and out, so two requests for the same session never alias one slice.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]domain.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string]domain.Cart)}
}

// Get returns an empty cart for sessions that have not scanned anything.
func (s *MemoryStore) Get(_ context.Context, sessionToken string) domain.Cart {
	s.mu.RLock()
	cart := s.store[sessionToken]
	s.mu.RUnlock()
	return cart.Clone()
}

func (s *MemoryStore) Put(_ context.Context, sessionToken string, cart domain.Cart) {
	if sessionToken == "" {
		return
	}
	s.mu.Lock()
	s.store[sessionToken] = cart.Clone()
	s.mu.Unlock()
}

func (s *MemoryStore) Delete(_ context.Context, sessionToken string) {
	s.mu.Lock()
	delete(s.store, sessionToken)
	s.mu.Unlock()
}
