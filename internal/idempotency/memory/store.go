package memory

import (
	"context"
	"sync"
)

// Store is a process-local set of (concern, order) pairs already handled.
// It is not durable and resets on restart; handlers relying on it must
// tolerate an occasional duplicate external call.
type Store struct {
	mu        sync.RWMutex
	processed map[string]struct{}
}

// NewStore creates a new in-memory processed-orders store.
func NewStore() *Store {
	return &Store{processed: make(map[string]struct{})}
}

// Has reports whether the order was already handled for the concern.
func (s *Store) Has(_ context.Context, concern, orderID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.processed[key(concern, orderID)]
	return ok, nil
}

// Mark records the order as handled for the concern.
func (s *Store) Mark(_ context.Context, concern, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[key(concern, orderID)] = struct{}{}
	return nil
}

func key(concern, orderID string) string {
	return concern + ":" + orderID
}
