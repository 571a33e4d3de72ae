// Package drip schedules the fixed post-purchase email sequence for
// completed orders. Scheduling is pull-based: the package computes and
// stores future send times but never blocks on wall-clock waiting; an
// external driver polls for due emails and triggers sending on its own
// cadence.
package drip

import "time"

// Stage identifies one step of the post-purchase sequence.
type Stage string

const (
	StageThankYou      Stage = "thank_you"
	StageCareTips      Stage = "care_tips"
	StageReviewRequest Stage = "review_request"
	StageComebackOffer Stage = "comeback_offer"
)

// stageOffsets fixes the sequence and its day offsets relative to order
// completion. Every completed order gets exactly this set.
var stageOffsets = []struct {
	Stage Stage
	Days  int
}{
	{StageThankYou, 1},
	{StageCareTips, 3},
	{StageReviewRequest, 7},
	{StageComebackOffer, 14},
}

// Stages returns the fixed sequence in schedule order.
func Stages() []Stage {
	stages := make([]Stage, len(stageOffsets))
	for i, so := range stageOffsets {
		stages[i] = so.Stage
	}
	return stages
}

// ScheduledEmail is one pending or sent drip email. A record is never
// deleted; an unsent record stays pending and is retried on every poll
// until it succeeds.
type ScheduledEmail struct {
	ID           string     `json:"id"`
	OrderID      string     `json:"order_id"`
	Email        string     `json:"email"`
	Stage        Stage      `json:"stage"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	Sent         bool       `json:"sent"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Stats reports schedule counts for observability.
type Stats struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Pending int `json:"pending"`
}
