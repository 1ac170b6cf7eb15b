package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/kelvrith2-lang/safiri-sales/internal/core/domain"
)

// MemoryStore holds live cashier sessions keyed by token. Nothing is
// persisted: a restart logs every register out and that is fine for a till.
type MemoryStore struct {
	mu    sync.RWMutex
	store map[string]domain.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[string]domain.Session)}
}

func (s *MemoryStore) Put(_ context.Context, sess domain.Session) {
	if sess.Token == "" {
		return
	}
	s.mu.Lock()
	s.store[sess.Token] = sess
	s.mu.Unlock()
}

// Get does not filter expired sessions; callers compare against their own
// clock so tests can steer time.
func (s *MemoryStore) Get(_ context.Context, token string) (domain.Session, bool) {
	s.mu.RLock()
	sess, ok := s.store[token]
	s.mu.RUnlock()
	return sess, ok
}

func (s *MemoryStore) Delete(_ context.Context, token string) {
	s.mu.Lock()
	delete(s.store, token)
	s.mu.Unlock()
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, sess := range s.store {
		if sess.Expired(now) {
			delete(s.store, token)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len(_ context.Context) int {
	s.mu.RLock()
	n := len(s.store)
	s.mu.RUnlock()
	return n
}
