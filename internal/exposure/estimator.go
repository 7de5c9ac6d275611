// Package exposure converts default probabilities into monetary
// loss-exposure estimates.
package exposure

import "log"

// DefaultBalance is substituted when an entity balance is unavailable
// (mirrors the feature store's default current_balance).
const DefaultBalance = 1000000

// Estimate is a monetary exposure figure with its portfolio share.
type Estimate struct {
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage_of_portfolio"`
}

// Estimator scales balances by default probability against the total
// portfolio under management.
type Estimator struct {
	totalPortfolioValue float64
}

// NewEstimator creates an estimator for a given total portfolio value.
func NewEstimator(totalPortfolioValue float64) *Estimator {
	return &Estimator{totalPortfolioValue: totalPortfolioValue}
}

// Estimate computes balance * probability and its share of the total
// portfolio. A non-positive balance fails closed to DefaultBalance
// rather than erroring.
func (e *Estimator) Estimate(balance, probability float64) Estimate {
	if balance <= 0 {
		log.Printf("exposure: non-positive balance %v, using default %d", balance, DefaultBalance)
		balance = DefaultBalance
	}

	amount := balance * probability
	pct := 0.0
	if e.totalPortfolioValue > 0 {
		pct = amount / e.totalPortfolioValue * 100
	}
	return Estimate{Amount: amount, Percentage: pct}
}
