package drip

import (
	"context"
	"time"
)

// Store persists scheduled emails. Implementations must keep at most one
// record per (order, stage) pair; CreateBatch silently skips duplicates so
// scheduling the same order twice cannot double the sequence.
//
// No implementation prunes old sent records. Whether they should ever be
// cleaned up is an open policy question; see DESIGN.md.
type Store interface {
	CreateBatch(ctx context.Context, emails []ScheduledEmail) error
	ListDue(ctx context.Context, now time.Time) ([]ScheduledEmail, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	Stats(ctx context.Context) (Stats, error)
}
