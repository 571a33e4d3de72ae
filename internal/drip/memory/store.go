package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dejobratic/orderpulse/internal/drip"
)

// Store keeps scheduled emails in memory. Useful for local development and
// tests; everything vanishes on restart.
type Store struct {
	mu     sync.RWMutex
	emails map[string]drip.ScheduledEmail
	seen   map[string]struct{} // (orderID, stage) pairs already scheduled
}

// NewStore constructs an empty in-memory schedule store.
func NewStore() *Store {
	return &Store{
		emails: make(map[string]drip.ScheduledEmail),
		seen:   make(map[string]struct{}),
	}
}

// CreateBatch stores the given emails, skipping any (order, stage) pair
// already present.
func (s *Store) CreateBatch(_ context.Context, emails []drip.ScheduledEmail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, email := range emails {
		key := email.OrderID + ":" + string(email.Stage)
		if _, ok := s.seen[key]; ok {
			continue
		}
		s.seen[key] = struct{}{}
		s.emails[email.ID] = email
	}
	return nil
}

// ListDue returns unsent emails whose send time is at or before now,
// ordered by send time.
func (s *Store) ListDue(_ context.Context, now time.Time) ([]drip.ScheduledEmail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []drip.ScheduledEmail
	for _, email := range s.emails {
		if !email.Sent && !email.ScheduledFor.After(now) {
			due = append(due, email)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].ScheduledFor.Before(due[j].ScheduledFor)
	})

	return due, nil
}

// MarkSent flips a record to sent and stamps the send time.
func (s *Store) MarkSent(_ context.Context, id string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email, ok := s.emails[id]
	if !ok {
		return nil
	}

	email.Sent = true
	email.SentAt = &sentAt
	s.emails[id] = email
	return nil
}

// Stats counts total, sent and pending records.
func (s *Store) Stats(_ context.Context) (drip.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := drip.Stats{Total: len(s.emails)}
	for _, email := range s.emails {
		if email.Sent {
			stats.Sent++
		} else {
			stats.Pending++
		}
	}
	return stats, nil
}
