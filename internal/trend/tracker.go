// Package trend classifies the direction of an entity's risk score
// against its most recent prior assessment.
package trend

import (
	"context"
	"fmt"
)

// Direction labels the movement of a risk score between assessments.
type Direction string

const (
	Improving     Direction = "IMPROVING"
	Stable        Direction = "STABLE"
	Deteriorating Direction = "DETERIORATING"
)

// scores within this band of the previous assessment count as stable
const stableBand = 5

// HistorySource looks up the most recent prior default-risk score for
// an entity, skipping excludeID. ok is false when no prior exists.
type HistorySource interface {
	PreviousScore(ctx context.Context, entityID, excludeID string) (score int, ok bool, err error)
}

// Result summarizes a trend evaluation.
type Result struct {
	PreviousScore int       `json:"previous_score"`
	Trend         Direction `json:"trend"`
	Magnitude     int       `json:"magnitude"`
}

// Tracker compares fresh scores against recorded history.
type Tracker struct {
	history HistorySource
}

// NewTracker creates a tracker over a score history source.
func NewTracker(history HistorySource) *Tracker {
	return &Tracker{history: history}
}

// Evaluate classifies the current score against the entity's last
// recorded assessment. With no prior assessment the trend is STABLE
// and the previous score mirrors the current one.
func (t *Tracker) Evaluate(ctx context.Context, entityID, excludeID string, currentScore int) (Result, error) {
	previous, ok, err := t.history.PreviousScore(ctx, entityID, excludeID)
	if err != nil {
		return Result{}, fmt.Errorf("lookup previous score for %s: %w", entityID, err)
	}
	if !ok {
		return Result{PreviousScore: currentScore, Trend: Stable, Magnitude: 0}, nil
	}

	diff := currentScore - previous
	direction := Stable
	switch {
	case diff > stableBand:
		direction = Deteriorating
	case diff < -stableBand:
		direction = Improving
	}

	magnitude := diff
	if magnitude < 0 {
		magnitude = -magnitude
	}

	return Result{PreviousScore: previous, Trend: direction, Magnitude: magnitude}, nil
}
