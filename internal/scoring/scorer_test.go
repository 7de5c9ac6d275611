package scoring

import (
	"math"
	"testing"

	"github.com/abhip2006/clearway/internal/features"
)

func snapshotWith(values map[string]float64) *features.Snapshot {
	return &features.Snapshot{Values: values}
}

func TestScoreContributions(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), nil)

	tests := []struct {
		name      string
		values    map[string]float64
		wantRaw   float64
		wantScore int
		wantProb  float64
		wantTier  Tier
	}{
		{
			// 3*5 + 0*15 + 0.15*30 + 0.3*20 + 0 = 25.5
			name: "moderate investor",
			values: map[string]float64{
				"late_payment_count":     3,
				"missed_payment_count":   0,
				"on_time_payment_rate":   0.85,
				"leverage_ratio":         0.3,
				"recent_sentiment_score": 0.6,
			},
			wantRaw:   25.5,
			wantScore: 26,
			wantProb:  0.065,
			wantTier:  Tier3,
		},
		{
			name: "clean history",
			values: map[string]float64{
				"late_payment_count":     0,
				"missed_payment_count":   0,
				"on_time_payment_rate":   1.0,
				"leverage_ratio":         0,
				"recent_sentiment_score": 0.9,
			},
			wantRaw:   0,
			wantScore: 0,
			wantProb:  0,
			wantTier:  Tier1,
		},
		{
			name: "raw score saturates at 100",
			values: map[string]float64{
				"late_payment_count":     10,
				"missed_payment_count":   6,
				"on_time_payment_rate":   0.2,
				"leverage_ratio":         1.5,
				"recent_sentiment_score": 0.0,
			},
			wantRaw:   100,
			wantScore: 100,
			wantProb:  0.25,
			wantTier:  Tier5,
		},
		{
			name: "negative sentiment term clamps to zero",
			values: map[string]float64{
				"late_payment_count":     0,
				"missed_payment_count":   0,
				"on_time_payment_rate":   1.0,
				"leverage_ratio":         0,
				"recent_sentiment_score": 0.95,
			},
			wantRaw:   0,
			wantScore: 0,
			wantProb:  0,
			wantTier:  Tier1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.Score(snapshotWith(tt.values))
			if math.Abs(got.Raw-tt.wantRaw) > 1e-9 {
				t.Errorf("Raw=%v, expected %v", got.Raw, tt.wantRaw)
			}
			if got.Score != tt.wantScore {
				t.Errorf("Score=%d, expected %d", got.Score, tt.wantScore)
			}
			if math.Abs(got.Probability-tt.wantProb) > 1e-9 {
				t.Errorf("Probability=%v, expected %v", got.Probability, tt.wantProb)
			}
			if tier := scorer.TierFor(got.Probability); tier != tt.wantTier {
				t.Errorf("Tier=%s, expected %s", tier, tt.wantTier)
			}
		})
	}
}

func TestScoreInvariantAgainstCap(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), nil)
	got := scorer.Score(snapshotWith(map[string]float64{
		"late_payment_count":     3,
		"missed_payment_count":   0,
		"on_time_payment_rate":   0.85,
		"leverage_ratio":         0.3,
		"recent_sentiment_score": 0.6,
	}))

	// risk_score == round(probability / cap * 100)
	derived := int(math.Round(got.Probability / scorer.Cap() * 100))
	if got.Score != derived {
		t.Errorf("Score=%d, but round(prob/cap*100)=%d", got.Score, derived)
	}
}

func TestTierBoundaries(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), nil)

	tests := []struct {
		probability float64
		want        Tier
	}{
		{0.0, Tier1},
		{0.019999, Tier1},
		{0.02, Tier2},
		{0.049999, Tier2},
		{0.05, Tier3},
		{0.099999, Tier3},
		{0.10, Tier4},
		{0.199999, Tier4},
		{0.20, Tier5},
		{1.0, Tier5},
	}
	for _, tt := range tests {
		if got := scorer.TierFor(tt.probability); got != tt.want {
			t.Errorf("TierFor(%v)=%s, expected %s", tt.probability, got, tt.want)
		}
	}
}

func TestTierIsMonotonic(t *testing.T) {
	scorer := NewScorer(DefaultWeights(), nil)
	rank := map[Tier]int{Tier1: 1, Tier2: 2, Tier3: 3, Tier4: 4, Tier5: 5}

	prev := Tier1
	for p := 0.0; p <= 1.0; p += 0.001 {
		tier := scorer.TierFor(p)
		if rank[tier] < rank[prev] {
			t.Fatalf("tier decreased from %s to %s at p=%v", prev, tier, p)
		}
		prev = tier
	}
}

func TestIdentifyFactors(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]float64
		want   []string
	}{
		{
			name: "all rules fire in priority order",
			values: map[string]float64{
				"late_payment_count":     4,
				"account_growth_rate":    -0.02,
				"recent_sentiment_score": 0.1,
				"leverage_ratio":         0.8,
			},
			want: []string{
				"recent_payment_delays",
				"account_balance_decline",
				"communication_sentiment_negative",
				"high_leverage_ratio",
			},
		},
		{
			name: "fallback pair when nothing fires",
			values: map[string]float64{
				"late_payment_count":     0,
				"account_growth_rate":    0.1,
				"recent_sentiment_score": 0.8,
				"leverage_ratio":         0.2,
			},
			want: []string{"portfolio_volatility", "market_conditions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IdentifyFactors(snapshotWith(tt.values))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d factors, expected %d", len(got), len(tt.want))
			}
			for i, f := range got {
				if f.Factor != tt.want[i] {
					t.Errorf("factor[%d]=%s, expected %s", i, f.Factor, tt.want[i])
				}
			}
		})
	}
}

func TestRecommendNeverEmpty(t *testing.T) {
	tiers := []Tier{Tier1, Tier2, Tier3, Tier4, Tier5}
	for _, tier := range tiers {
		if got := Recommend(tier, nil); len(got) == 0 {
			t.Errorf("Recommend(%s) returned empty list", tier)
		}
	}
}

func TestRecommendHighTierEscalations(t *testing.T) {
	got := Recommend(Tier5, []Factor{{Factor: "recent_payment_delays", Weight: 0.28}})

	if got[0] != "Increase monitoring frequency to weekly" {
		t.Errorf("first action=%q, expected monitoring escalation", got[0])
	}
	if got[1] != "Schedule relationship manager call" {
		t.Errorf("second action=%q, expected RM call", got[1])
	}

	found := false
	for _, a := range got {
		if a == "Investigate payment processing issues" {
			found = true
		}
	}
	if !found {
		t.Error("payment-delay factor did not add its action")
	}
}

func TestFundRecommendations(t *testing.T) {
	t.Run("healthy fund gets fallback", func(t *testing.T) {
		got := FundRecommendations(1.2, -0.05, 0.9)
		if len(got) != 1 || got[0] != "Maintain current risk management approach" {
			t.Errorf("got %v, expected single fallback action", got)
		}
	})

	t.Run("weak metrics trigger all rules", func(t *testing.T) {
		got := FundRecommendations(0.3, -0.25, 0.6)
		if len(got) != 3 {
			t.Errorf("got %d actions, expected 3", len(got))
		}
	})
}
