package scoring

// Recommend maps a tier and its contributing factors to an ordered list
// of mitigation actions. High tiers always lead with escalation steps;
// the fallback entry guarantees the list is never empty.
func Recommend(tier Tier, factors []Factor) []string {
	var actions []string

	if tier == Tier4 || tier == Tier5 {
		actions = append(actions,
			"Increase monitoring frequency to weekly",
			"Schedule relationship manager call",
			"Review account covenants",
		)
	}

	if hasFactor(factors, "recent_payment_delays") {
		actions = append(actions, "Investigate payment processing issues")
	}
	if hasFactor(factors, "communication_sentiment_negative") {
		actions = append(actions, "Proactive outreach to address concerns")
	}

	if len(actions) == 0 {
		actions = append(actions, "Continue standard monitoring")
	}
	return actions
}

// FundRecommendations maps fund risk metrics to mitigation actions.
func FundRecommendations(sharpe, maxDrawdown, probPositive float64) []string {
	var actions []string

	if sharpe < 0.5 {
		actions = append(actions, "Consider portfolio rebalancing for better risk-adjusted returns")
	}
	if maxDrawdown < -0.20 {
		actions = append(actions, "Review downside protection strategies")
	}
	if probPositive < 0.75 {
		actions = append(actions, "Evaluate defensive positioning")
	}

	if len(actions) == 0 {
		actions = append(actions, "Maintain current risk management approach")
	}
	return actions
}

func hasFactor(factors []Factor, name string) bool {
	for _, f := range factors {
		if f.Factor == name {
			return true
		}
	}
	return false
}
