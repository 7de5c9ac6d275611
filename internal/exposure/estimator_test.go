package exposure

import (
	"math"
	"testing"
)

func TestEstimate(t *testing.T) {
	est := NewEstimator(15000000)

	tests := []struct {
		name        string
		balance     float64
		probability float64
		wantAmount  float64
		wantPct     float64
	}{
		{
			name:        "amount is balance times probability",
			balance:     2000000,
			probability: 0.05,
			wantAmount:  100000,
			wantPct:     100000.0 / 15000000 * 100,
		},
		{
			name:        "zero probability means zero exposure",
			balance:     500000,
			probability: 0,
			wantAmount:  0,
			wantPct:     0,
		},
		{
			name:        "missing balance fails closed to default",
			balance:     0,
			probability: 0.1,
			wantAmount:  DefaultBalance * 0.1,
			wantPct:     DefaultBalance * 0.1 / 15000000 * 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := est.Estimate(tt.balance, tt.probability)
			if math.Abs(got.Amount-tt.wantAmount) > 1e-9 {
				t.Errorf("Amount=%v, expected %v", got.Amount, tt.wantAmount)
			}
			if math.Abs(got.Percentage-tt.wantPct) > 1e-9 {
				t.Errorf("Percentage=%v, expected %v", got.Percentage, tt.wantPct)
			}
		})
	}
}

func TestEstimateWithoutPortfolioValue(t *testing.T) {
	est := NewEstimator(0)
	got := est.Estimate(100000, 0.1)
	if got.Amount != 10000 {
		t.Errorf("Amount=%v, expected 10000", got.Amount)
	}
	if got.Percentage != 0 {
		t.Errorf("Percentage=%v, expected 0 when total portfolio unknown", got.Percentage)
	}
}
