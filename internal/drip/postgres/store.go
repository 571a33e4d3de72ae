package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dejobratic/orderpulse/internal/database"
	"github.com/dejobratic/orderpulse/internal/drip"
)

// Store persists scheduled emails in Postgres so a pending drip sequence
// survives a restart.
type Store struct {
	pool    *pgxpool.Pool
	metrics *database.Metrics
}

// Option configures a Store.
type Option func(*Store)

// WithMetrics records query durations for this store.
func WithMetrics(metrics *database.Metrics) Option {
	return func(s *Store) {
		s.metrics = metrics
	}
}

func NewStore(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{pool: pool}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) CreateBatch(ctx context.Context, emails []drip.ScheduledEmail) error {
	query := `
		INSERT INTO scheduled_emails (id, order_id, email, stage, scheduled_for, sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id, stage) DO NOTHING
	`

	start := time.Now()
	defer s.record(ctx, "scheduled_emails.create_batch", start)

	for _, email := range emails {
		_, err := s.pool.Exec(ctx, query,
			email.ID,
			email.OrderID,
			email.Email,
			email.Stage,
			email.ScheduledFor,
			email.Sent,
			email.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert scheduled email: %w", err)
		}
	}

	return nil
}

func (s *Store) ListDue(ctx context.Context, now time.Time) ([]drip.ScheduledEmail, error) {
	query := `
		SELECT id, order_id, email, stage, scheduled_for, sent, sent_at, created_at
		FROM scheduled_emails
		WHERE sent = false AND scheduled_for <= $1
		ORDER BY scheduled_for
	`

	start := time.Now()
	defer s.record(ctx, "scheduled_emails.list_due", start)

	rows, err := s.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("query due emails: %w", err)
	}
	defer rows.Close()

	var due []drip.ScheduledEmail
	for rows.Next() {
		var email drip.ScheduledEmail
		if err := rows.Scan(
			&email.ID,
			&email.OrderID,
			&email.Email,
			&email.Stage,
			&email.ScheduledFor,
			&email.Sent,
			&email.SentAt,
			&email.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan scheduled email: %w", err)
		}
		due = append(due, email)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due emails: %w", err)
	}

	return due, nil
}

func (s *Store) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	query := `
		UPDATE scheduled_emails
		SET sent = true, sent_at = $1
		WHERE id = $2
	`

	start := time.Now()
	defer s.record(ctx, "scheduled_emails.mark_sent", start)

	if _, err := s.pool.Exec(ctx, query, sentAt, id); err != nil {
		return fmt.Errorf("mark scheduled email sent: %w", err)
	}

	return nil
}

func (s *Store) Stats(ctx context.Context) (drip.Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE sent),
			COUNT(*) FILTER (WHERE NOT sent)
		FROM scheduled_emails
	`

	start := time.Now()
	defer s.record(ctx, "scheduled_emails.stats", start)

	var stats drip.Stats
	if err := s.pool.QueryRow(ctx, query).Scan(&stats.Total, &stats.Sent, &stats.Pending); err != nil {
		return drip.Stats{}, fmt.Errorf("count scheduled emails: %w", err)
	}

	return stats, nil
}

func (s *Store) record(ctx context.Context, operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordQuery(ctx, operation, time.Since(start).Seconds())
	}
}
