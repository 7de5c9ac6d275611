// Package scoring converts investor feature vectors into bounded
// default-risk probabilities, integer scores, tiers, contributing
// factors, and mitigation recommendations. All functions here are
// deterministic; no state is carried across calls.
package scoring

import (
	"math"

	"github.com/abhip2006/clearway/internal/features"
)

// Scorer applies an additive scoring policy to feature vectors.
type Scorer struct {
	weights Weights
	tiers   []TierBoundary
}

// NewScorer builds a scorer from a policy. Zero-valued inputs fall
// back to the shipped defaults.
func NewScorer(w Weights, tiers []TierBoundary) *Scorer {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	if len(tiers) == 0 {
		tiers = DefaultTierBoundaries()
	}
	return &Scorer{weights: w, tiers: tiers}
}

// Score computes the default-risk probability and integer score for an
// investor snapshot. Missing features read from the snapshot's
// fallback values, so scoring never fails.
func (s *Scorer) Score(snap *features.Snapshot) Result {
	w := s.weights

	c := Contributions{
		LatePayments:       snap.Value("late_payment_count", 1) * w.LatePayment,
		MissedPayments:     snap.Value("missed_payment_count", 0) * w.MissedPayment,
		PunctualityPenalty: (1 - snap.Value("on_time_payment_rate", 0.9)) * w.Punctuality,
		Leverage:           snap.Value("leverage_ratio", 0.3) * w.Leverage,
		SentimentPenalty:   math.Max(0, w.SentimentPivot-snap.Value("recent_sentiment_score", 0.6)) * w.Sentiment,
	}

	raw := c.LatePayments + c.MissedPayments + c.PunctualityPenalty + c.Leverage + c.SentimentPenalty
	raw = math.Min(100, raw)

	// Probability derives from the rounded score so that
	// score == round(probability / cap * 100) holds exactly.
	score := int(math.Round(raw))

	return Result{
		Probability:   float64(score) / 100 * w.ProbabilityCap,
		Score:         score,
		Raw:           raw,
		Contributions: c,
	}
}

// TierFor maps a probability onto the tier table: boundaries are
// exclusive above and inclusive below, so the mapping is a monotonic
// step function of probability.
func (s *Scorer) TierFor(probability float64) Tier {
	for _, b := range s.tiers {
		if probability < b.Below {
			return b.Tier
		}
	}
	return Tier5
}

// Cap returns the scorer's maximum attainable probability.
func (s *Scorer) Cap() float64 {
	return s.weights.ProbabilityCap
}
