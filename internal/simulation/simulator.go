// Package simulation draws synthetic fund return distributions and
// derives VaR/CVaR-style risk metrics from them. Runs are pure CPU
// work: the random source is built from an explicit per-call seed, so
// identical inputs always reproduce identical samples, and concurrent
// runs share no state.
package simulation

import (
	"errors"
	"math/rand"
	"sort"
)

// DefaultDraws is the standard sample count for one simulation.
const DefaultDraws = 10000

// Input errors surfaced before any sampling happens.
var (
	ErrNoHistoricalReturns = errors.New("historical return series is empty")
	ErrInvalidVolatility   = errors.New("volatility must be positive")
	ErrInvalidDraws        = errors.New("draw count must be positive")
)

// Input parameterizes one Monte Carlo run. The sample mean of
// HistoricalReturns sets the central tendency; Volatility sets the
// spread. Seed must be supplied by the caller - the simulator never
// reads process-wide randomness.
type Input struct {
	HistoricalReturns []float64
	Volatility        float64
	Draws             int
	Seed              int64
}

// Validate rejects degenerate inputs before the simulator runs.
func (in Input) Validate() error {
	if len(in.HistoricalReturns) == 0 {
		return ErrNoHistoricalReturns
	}
	if in.Volatility <= 0 {
		return ErrInvalidVolatility
	}
	if in.Draws < 0 {
		return ErrInvalidDraws
	}
	return nil
}

// Result is the ephemeral outcome of one run: the raw samples plus
// scalar summaries. Only derived metrics are ever persisted.
type Result struct {
	Returns []float64

	ExpectedReturn float64
	Volatility     float64
	MaxDrawdown    float64 // min simulated return (single-period approximation)
	ProbPositive   float64

	P5  float64
	P25 float64
	P50 float64
	P75 float64
	P95 float64
}

// Run draws Input.Draws independent normal samples around the
// historical mean and summarizes the distribution. For a fixed input
// and seed the output is bit-for-bit reproducible.
func Run(in Input) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	draws := in.Draws
	if draws == 0 {
		draws = DefaultDraws
	}

	mu := mean(in.HistoricalReturns)
	rng := rand.New(rand.NewSource(in.Seed))

	returns := make([]float64, draws)
	positive := 0
	for i := range returns {
		r := mu + in.Volatility*rng.NormFloat64()
		returns[i] = r
		if r > 0 {
			positive++
		}
	}

	sorted := make([]float64, draws)
	copy(sorted, returns)
	sort.Float64s(sorted)

	return &Result{
		Returns:        returns,
		ExpectedReturn: mean(returns),
		Volatility:     std(returns),
		MaxDrawdown:    sorted[0],
		ProbPositive:   float64(positive) / float64(draws),
		P5:             percentileSorted(sorted, 5),
		P25:            percentileSorted(sorted, 25),
		P50:            percentileSorted(sorted, 50),
		P75:            percentileSorted(sorted, 75),
		P95:            percentileSorted(sorted, 95),
	}, nil
}
