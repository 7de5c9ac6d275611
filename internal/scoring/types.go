package scoring

// Tier is an ordinal risk bucket derived purely from probability.
type Tier string

const (
	Tier1 Tier = "TIER_1" // Very Low Risk
	Tier2 Tier = "TIER_2" // Low Risk
	Tier3 Tier = "TIER_3" // Moderate Risk
	Tier4 Tier = "TIER_4" // High Risk
	Tier5 Tier = "TIER_5" // Very High Risk
)

// Weights defines the additive scoring policy. The values are tunable
// configuration, not calibrated model output; computation code reads
// this struct only.
type Weights struct {
	LatePayment    float64 `yaml:"late_payment"`    // per late payment
	MissedPayment  float64 `yaml:"missed_payment"`  // per missed payment
	Punctuality    float64 `yaml:"punctuality"`     // scales (1 - on_time_rate)
	Leverage       float64 `yaml:"leverage"`        // scales leverage_ratio
	Sentiment      float64 `yaml:"sentiment"`       // scales max(0, pivot - sentiment)
	SentimentPivot float64 `yaml:"sentiment_pivot"` // sentiment below this penalizes
	ProbabilityCap float64 `yaml:"probability_cap"` // max expressible default probability
}

// DefaultWeights returns the shipped scoring policy.
func DefaultWeights() Weights {
	return Weights{
		LatePayment:    5,
		MissedPayment:  15,
		Punctuality:    30,
		Leverage:       20,
		Sentiment:      25,
		SentimentPivot: 0.5,
		ProbabilityCap: 0.25,
	}
}

// TierBoundary maps an upper probability bound (exclusive) to a tier.
type TierBoundary struct {
	Below float64 `yaml:"below"`
	Tier  Tier    `yaml:"tier"`
}

// DefaultTierBoundaries returns the shipped tier table, ascending.
// Probabilities at or above the last boundary map to Tier5.
func DefaultTierBoundaries() []TierBoundary {
	return []TierBoundary{
		{Below: 0.02, Tier: Tier1},
		{Below: 0.05, Tier: Tier2},
		{Below: 0.10, Tier: Tier3},
		{Below: 0.20, Tier: Tier4},
	}
}

// Result is the deterministic output of scoring one feature vector.
type Result struct {
	Probability   float64       // bounded by Weights.ProbabilityCap
	Score         int           // round(raw), 0-100
	Raw           float64       // pre-rounding score
	Contributions Contributions // additive breakdown for explainability
}

// Contributions itemizes each term of the raw score.
type Contributions struct {
	LatePayments       float64 `json:"late_payments"`
	MissedPayments     float64 `json:"missed_payments"`
	PunctualityPenalty float64 `json:"punctuality_penalty"`
	Leverage           float64 `json:"leverage"`
	SentimentPenalty   float64 `json:"sentiment_penalty"`
}

// Factor is a named contributor to a risk assessment.
type Factor struct {
	Factor string  `json:"factor"`
	Weight float64 `json:"weight"`
}
