// Package scenario evaluates fixed tables of named macro scenarios and
// historical-analog stress tests. Both tables are static configuration
// read at startup - nothing here derives from the Monte Carlo draw, so
// the tables can be tuned without touching the simulator.
package scenario

// Standard scenario tags evaluated when the caller names none.
const (
	Bull      = "BULL"
	Base      = "BASE"
	Bear      = "BEAR"
	TailEvent = "TAIL_EVENT"
)

// Params holds the configured outlook for one named scenario.
type Params struct {
	ExpectedReturn float64 `yaml:"expected_return"`
	Volatility     float64 `yaml:"volatility"`
	Probability    float64 `yaml:"probability"`
}

// Result is one evaluated scenario row in a fund risk report.
type Result struct {
	Scenario       string  `json:"scenario"`
	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`
	Probability    float64 `json:"probability"`
}

// StressTest is a historical-analog shock with its configured impact.
type StressTest struct {
	Test           string  `json:"test" yaml:"test"`
	ExpectedReturn float64 `json:"expected_return" yaml:"expected_return"`
	Probability    float64 `json:"probability" yaml:"probability"`
}

// Analyzer serves scenario and stress-test lookups from its tables.
type Analyzer struct {
	scenarios map[string]Params
	stress    []StressTest
}

// NewAnalyzer creates an analyzer over explicit tables. Nil inputs
// fall back to the shipped defaults.
func NewAnalyzer(scenarios map[string]Params, stress []StressTest) *Analyzer {
	if scenarios == nil {
		scenarios = DefaultScenarios()
	}
	if stress == nil {
		stress = DefaultStressTests()
	}
	return &Analyzer{scenarios: scenarios, stress: stress}
}

// DefaultScenarios returns the shipped macro-scenario table. BASE
// carries more probability mass than the outlier scenarios by
// convention.
func DefaultScenarios() map[string]Params {
	return map[string]Params{
		Bull:      {ExpectedReturn: 0.15, Volatility: 0.12, Probability: 0.10},
		Base:      {ExpectedReturn: 0.08, Volatility: 0.18, Probability: 0.25},
		Bear:      {ExpectedReturn: -0.15, Volatility: 0.25, Probability: 0.10},
		TailEvent: {ExpectedReturn: -0.30, Volatility: 0.40, Probability: 0.10},
	}
}

// DefaultStressTests returns the shipped historical-analog table.
func DefaultStressTests() []StressTest {
	return []StressTest{
		{Test: "2008_FINANCIAL_CRISIS", ExpectedReturn: -0.35, Probability: 0.02},
		{Test: "INTEREST_RATE_SHOCK", ExpectedReturn: -0.12, Probability: 0.15},
		{Test: "LIQUIDITY_CRISIS", ExpectedReturn: -0.18, Probability: 0.08},
	}
}

// StandardScenarios lists the four default tags in reporting order.
func StandardScenarios() []string {
	return []string{Bull, Base, Bear, TailEvent}
}

// Evaluate returns one row per requested scenario, preserving request
// order. Unknown tags evaluate with BASE parameters under the
// requested name.
func (a *Analyzer) Evaluate(names []string) []Result {
	if len(names) == 0 {
		names = StandardScenarios()
	}

	results := make([]Result, 0, len(names))
	for _, name := range names {
		params, ok := a.scenarios[name]
		if !ok {
			params = a.scenarios[Base]
		}
		results = append(results, Result{
			Scenario:       name,
			ExpectedReturn: params.ExpectedReturn,
			Volatility:     params.Volatility,
			Probability:    params.Probability,
		})
	}
	return results
}

// StressTests returns the configured stress-test table.
func (a *Analyzer) StressTests() []StressTest {
	out := make([]StressTest, len(a.stress))
	copy(out, a.stress)
	return out
}
