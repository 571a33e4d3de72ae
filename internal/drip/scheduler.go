package drip

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dejobratic/orderpulse/internal/orders/domain"
	"github.com/dejobratic/orderpulse/internal/orders/ports"
)

const defaultSendHour = 10

// OrderLookup resolves an order for content rendering when a due email is
// processed. It is supplied by the external driver, not owned by this
// package.
type OrderLookup func(ctx context.Context, orderID string) (*domain.Order, error)

// Scheduler computes and stores send times for the post-purchase sequence
// and drives sending when asked. It holds no timer of its own.
type Scheduler struct {
	store    Store
	mailer   ports.Mailer
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time
	sendHour int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock substitutes the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithSendHour sets the UTC hour of day every drip email is normalized to.
func WithSendHour(hour int) Option {
	return func(s *Scheduler) {
		if hour >= 0 && hour <= 23 {
			s.sendHour = hour
		}
	}
}

// WithMetrics attaches scheduling metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Scheduler) {
		s.metrics = metrics
	}
}

// NewScheduler wires the scheduler to its store and mailer.
func NewScheduler(store Store, mailer ports.Mailer, logger *slog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:    store,
		mailer:   mailer,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		sendHour: defaultSendHour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleAll creates the full fixed sequence for a completed order. Called
// on an order in any other status it does nothing: entry into the drip
// campaign happens exactly once, at completion.
func (s *Scheduler) ScheduleAll(ctx context.Context, order domain.Order) error {
	if !order.IsCompleted() {
		s.logger.Debug("skipping drip scheduling for non-completed order",
			slog.String("order_id", order.ID),
			slog.String("status", string(order.Status)),
		)
		return nil
	}

	now := s.now()
	emails := make([]ScheduledEmail, 0, len(stageOffsets))
	for _, so := range stageOffsets {
		emails = append(emails, ScheduledEmail{
			ID:           uuid.NewString(),
			OrderID:      order.ID,
			Email:        order.Email,
			Stage:        so.Stage,
			ScheduledFor: s.normalize(now.AddDate(0, 0, so.Days)),
			Sent:         false,
			CreatedAt:    now,
		})
	}

	if err := s.store.CreateBatch(ctx, emails); err != nil {
		return fmt.Errorf("schedule drip emails for order %s: %w", order.ID, err)
	}

	s.logger.Info("drip sequence scheduled",
		slog.String("order_id", order.ID),
		slog.Int("emails", len(emails)),
	)
	if s.metrics != nil {
		s.metrics.RecordScheduled(ctx, len(emails))
	}

	return nil
}

// normalize pins a send time to the configured hour of day, on the hour.
func (s *Scheduler) normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), s.sendHour, 0, 0, 0, time.UTC)
}

// Pending returns every scheduled email that is unsent and due now.
func (s *Scheduler) Pending(ctx context.Context) ([]ScheduledEmail, error) {
	return s.store.ListDue(ctx, s.now())
}

// Report summarizes one processing pass.
type Report struct {
	Due    int
	Sent   int
	Failed int
}

// ProcessPending sends every due email. A failed send is logged and left
// pending, so the next pass retries it; there is no retry counter and no
// terminal failed state. Records whose order cannot be resolved are also
// left pending.
func (s *Scheduler) ProcessPending(ctx context.Context, lookup OrderLookup) (Report, error) {
	due, err := s.store.ListDue(ctx, s.now())
	if err != nil {
		return Report{}, fmt.Errorf("list due drip emails: %w", err)
	}

	report := Report{Due: len(due)}
	for _, email := range due {
		if err := s.send(ctx, email, lookup); err != nil {
			report.Failed++
			s.logger.Error("drip email send failed, will retry on next pass",
				slog.String("order_id", email.OrderID),
				slog.String("stage", string(email.Stage)),
				slog.Any("error", err),
			)
			if s.metrics != nil {
				s.metrics.RecordSendFailure(ctx, string(email.Stage))
			}
			continue
		}
		report.Sent++
		if s.metrics != nil {
			s.metrics.RecordSent(ctx, string(email.Stage))
		}
	}

	return report, nil
}

func (s *Scheduler) send(ctx context.Context, email ScheduledEmail, lookup OrderLookup) error {
	var order *domain.Order
	if lookup != nil {
		found, err := lookup(ctx, email.OrderID)
		if err != nil {
			return fmt.Errorf("resolve order: %w", err)
		}
		order = found
	}

	subject, body := Content(email.Stage, email.OrderID, order)
	if err := s.mailer.SendEmail(ctx, email.Email, subject, body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	sentAt := s.now()
	if err := s.store.MarkSent(ctx, email.ID, sentAt); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}

	s.logger.Info("drip email sent",
		slog.String("order_id", email.OrderID),
		slog.String("stage", string(email.Stage)),
	)
	return nil
}

// Stats reports total, sent and pending counts across all orders.
func (s *Scheduler) Stats(ctx context.Context) (Stats, error) {
	return s.store.Stats(ctx)
}
