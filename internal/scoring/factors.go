package scoring

import "github.com/abhip2006/clearway/internal/features"

const maxFactors = 5

// IdentifyFactors names the signals contributing most to default risk.
// Rules fire independently in fixed order; when none fires a generic
// market/volatility pair keeps the list non-empty.
func IdentifyFactors(snap *features.Snapshot) []Factor {
	var factors []Factor

	if snap.Value("late_payment_count", 0) > 2 {
		factors = append(factors, Factor{Factor: "recent_payment_delays", Weight: 0.28})
	}
	if snap.Value("account_growth_rate", 0.08) < 0 {
		factors = append(factors, Factor{Factor: "account_balance_decline", Weight: 0.22})
	}
	if snap.Value("recent_sentiment_score", 0.6) < 0.3 {
		factors = append(factors, Factor{Factor: "communication_sentiment_negative", Weight: 0.18})
	}
	if snap.Value("leverage_ratio", 0.3) > 0.5 {
		factors = append(factors, Factor{Factor: "high_leverage_ratio", Weight: 0.15})
	}

	if len(factors) == 0 {
		factors = []Factor{
			{Factor: "portfolio_volatility", Weight: 0.20},
			{Factor: "market_conditions", Weight: 0.15},
		}
	}

	if len(factors) > maxFactors {
		factors = factors[:maxFactors]
	}
	return factors
}
