package ports

import "context"

// ProcessedStore records which orders have already been handled for a given
// external-sync concern, so a side effect is not repeated when the same
// order triggers several lifecycle events.
//
// The guard is best-effort: the in-memory implementation resets on restart,
// so consumers must tolerate an occasional duplicate external call. The
// external adapters are expected to be upsert-semantics, which makes
// duplicates harmless.
type ProcessedStore interface {
	Has(ctx context.Context, concern, orderID string) (bool, error)
	Mark(ctx context.Context, concern, orderID string) error
}
