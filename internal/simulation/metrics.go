package simulation

// Metrics is the persisted summary of a simulated distribution.
// Field names follow the reporting payload consumed downstream.
type Metrics struct {
	ExpectedReturn1Y float64 `json:"expected_return_1y"`
	Volatility       float64 `json:"volatility"`
	VaR95            float64 `json:"var_95"`
	VaR99            float64 `json:"var_99"`
	CVaR95           float64 `json:"cvar_95"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	SortinoRatio     float64 `json:"sortino_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	ProbPositive     float64 `json:"probability_positive_return"`
}

// MetricsCalculator derives risk metrics from simulated distributions.
type MetricsCalculator struct {
	riskFreeRate float64
}

// NewMetricsCalculator creates a calculator with the configured
// risk-free rate (annualized, e.g. 0.02).
func NewMetricsCalculator(riskFreeRate float64) *MetricsCalculator {
	return &MetricsCalculator{riskFreeRate: riskFreeRate}
}

// VaR returns the return cutoff not expected to be breached with the
// given confidence: the (1-confidence) percentile of the distribution.
func (c *MetricsCalculator) VaR(returns []float64, confidence float64) float64 {
	return percentile(returns, (1-confidence)*100)
}

// CVaR returns the mean of the tail at or below the VaR cutoff. An
// empty tail degrades to the cutoff itself, never to NaN.
func (c *MetricsCalculator) CVaR(returns []float64, confidence float64) float64 {
	cutoff := c.VaR(returns, confidence)
	var tail []float64
	for _, r := range returns {
		if r <= cutoff {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		return cutoff
	}
	return mean(tail)
}

// Sharpe is excess return over the risk-free rate per unit of overall
// volatility. Zero volatility yields zero rather than dividing.
func (c *MetricsCalculator) Sharpe(expectedReturn, volatility float64) float64 {
	if volatility == 0 {
		return 0
	}
	return (expectedReturn - c.riskFreeRate) / volatility
}

// Sortino is like Sharpe but penalizes only downside volatility
// (returns below the risk-free rate). With no downside observations
// the overall volatility substitutes to avoid division by zero.
func (c *MetricsCalculator) Sortino(returns []float64, expectedReturn, volatility float64) float64 {
	var downside []float64
	for _, r := range returns {
		if r < c.riskFreeRate {
			downside = append(downside, r)
		}
	}
	downsideStd := volatility
	if len(downside) > 0 {
		downsideStd = std(downside)
	}
	if downsideStd == 0 {
		return 0
	}
	return (expectedReturn - c.riskFreeRate) / downsideStd
}

// Calculate derives the full metric set from one simulation result.
func (c *MetricsCalculator) Calculate(sim *Result) Metrics {
	return Metrics{
		ExpectedReturn1Y: sim.ExpectedReturn,
		Volatility:       sim.Volatility,
		VaR95:            c.VaR(sim.Returns, 0.95),
		VaR99:            c.VaR(sim.Returns, 0.99),
		CVaR95:           c.CVaR(sim.Returns, 0.95),
		SharpeRatio:      c.Sharpe(sim.ExpectedReturn, sim.Volatility),
		SortinoRatio:     c.Sortino(sim.Returns, sim.ExpectedReturn, sim.Volatility),
		MaxDrawdown:      sim.MaxDrawdown,
		ProbPositive:     sim.ProbPositive,
	}
}
