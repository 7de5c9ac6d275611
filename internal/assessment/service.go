package assessment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhip2006/clearway/internal/events"
	"github.com/abhip2006/clearway/internal/exposure"
	"github.com/abhip2006/clearway/internal/features"
	"github.com/abhip2006/clearway/internal/registry"
	"github.com/abhip2006/clearway/internal/scenario"
	"github.com/abhip2006/clearway/internal/scoring"
	"github.com/abhip2006/clearway/internal/simulation"
	"github.com/abhip2006/clearway/internal/trend"
)

// ErrEntityIDRequired rejects assessments without an entity id.
var ErrEntityIDRequired = errors.New("entity id is required")

// Prediction id prefixes, kept stable for downstream consumers.
const (
	defaultRiskIDPrefix = "PRED_RISK_"
	fundRiskIDPrefix    = "PRED_FUND_RISK_"
)

// Options wires the service's collaborators. Registry, Features,
// Recorder, Scorer, Tracker, Estimator, Metrics and Analyzer are
// required; Pool and Bus may be nil.
type Options struct {
	Registry  registry.Registry
	Features  features.Provider
	Recorder  Recorder
	Scorer    *scoring.Scorer
	Tracker   *trend.Tracker
	Estimator *exposure.Estimator
	Metrics   *simulation.MetricsCalculator
	Analyzer  *scenario.Analyzer
	Pool      *simulation.Pool
	Bus       *events.Bus

	DefaultRiskModelID string
	FundRiskModelID    string
	SimulationDraws    int
	SimulationSeed     int64
}

// Service runs the two assessment flows end to end: model precondition,
// feature load, computation, persistence, events.
type Service struct {
	opts Options
}

// NewService creates the assessment service.
func NewService(opts Options) *Service {
	if opts.SimulationDraws <= 0 {
		opts.SimulationDraws = simulation.DefaultDraws
	}
	return &Service{opts: opts}
}

// AssessDefaultRisk scores one investor's default risk over the given
// horizon. The model precondition is checked before any feature read:
// when no production model is registered, nothing is computed or
// persisted. includeTrend controls whether history is consulted.
func (s *Service) AssessDefaultRisk(ctx context.Context, investorID, horizon string, includeTrend bool) (*RiskAssessment, error) {
	if investorID == "" {
		return nil, ErrEntityIDRequired
	}
	if !ValidHorizon(horizon) {
		return nil, fmt.Errorf("horizon %q: %w", horizon, ErrInvalidHorizon)
	}

	model, err := s.opts.Registry.ActiveModel(ctx, s.opts.DefaultRiskModelID)
	if err != nil {
		return nil, err
	}

	snap, err := s.opts.Features.GetFeatures(ctx, features.EntityInvestor, investorID)
	if err != nil {
		return nil, err
	}

	result := s.opts.Scorer.Score(snap)
	tier := s.opts.Scorer.TierFor(result.Probability)
	predictionID := defaultRiskIDPrefix + shortID()

	var trendResult *trend.Result
	if includeTrend {
		tr, err := s.opts.Tracker.Evaluate(ctx, investorID, predictionID, result.Score)
		if err != nil {
			return nil, err
		}
		trendResult = &tr
	}

	factors := scoring.IdentifyFactors(snap)
	loss := s.opts.Estimator.Estimate(snap.Value("current_balance", 0), result.Probability)

	a := &RiskAssessment{
		PredictionID:       predictionID,
		InvestorID:         investorID,
		ModelID:            model.ID,
		ModelVersion:       model.Version,
		RiskType:           DefaultRisk,
		RiskHorizon:        horizon,
		RiskProbability:    result.Probability,
		RiskScore:          result.Score,
		RiskTier:           tier,
		RiskTrend:          trendResult,
		TopRiskFactors:     factors,
		EstimatedLoss:      loss,
		RecommendedActions: scoring.Recommend(tier, factors),
		Timestamp:          time.Now().UTC(),
	}

	if err := s.opts.Recorder.SaveAssessment(ctx, a); err != nil {
		return nil, err
	}
	s.publish(events.EventAssessmentRecorded, a.PredictionID)
	if tier == scoring.Tier4 || tier == scoring.Tier5 {
		alert := fmt.Sprintf("investor %s assessed %s (score %d)", investorID, tier, a.RiskScore)
		log.Printf("assessment: risk alert: %s", alert)
		s.publish(events.EventRiskAlert, alert)
	}
	return a, nil
}

// AssessFundPerformanceRisk simulates one fund's forward return
// distribution and reports risk metrics, scenario analysis and stress
// tests. scenarios selects scenario tags (nil means the standard set);
// seed fixes the random source (0 falls back to the configured seed).
func (s *Service) AssessFundPerformanceRisk(ctx context.Context, fundID string, scenarios []string, seed int64) (*FundRiskReport, error) {
	if fundID == "" {
		return nil, ErrEntityIDRequired
	}

	model, err := s.opts.Registry.ActiveModel(ctx, s.opts.FundRiskModelID)
	if err != nil {
		return nil, err
	}

	snap, err := s.opts.Features.GetFeatures(ctx, features.EntityFund, fundID)
	if err != nil {
		return nil, err
	}

	if seed == 0 {
		seed = s.opts.SimulationSeed
	}
	in := simulation.Input{
		HistoricalReturns: snap.Returns,
		Volatility:        snap.Value("volatility", 0.18),
		Draws:             s.opts.SimulationDraws,
		Seed:              seed,
	}

	sim, err := s.runSimulation(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("simulate fund %s: %w", fundID, err)
	}

	metrics := s.opts.Metrics.Calculate(sim)
	report := &FundRiskReport{
		PredictionID: fundRiskIDPrefix + shortID(),
		FundID:       fundID,
		ModelID:      model.ID,
		ModelVersion: model.Version,
		RiskType:     FundPerformanceRisk,
		RiskHorizon:  FundHorizon,
		RiskMetrics:  metrics,
		ReturnDistribution: Distribution{
			ExpectedReturn: sim.ExpectedReturn,
			P5:             sim.P5,
			P25:            sim.P25,
			P50:            sim.P50,
			P75:            sim.P75,
			P95:            sim.P95,
		},
		ScenarioAnalysis:   s.opts.Analyzer.Evaluate(scenarios),
		StressTests:        s.opts.Analyzer.StressTests(),
		RecommendedActions: scoring.FundRecommendations(metrics.SharpeRatio, metrics.MaxDrawdown, metrics.ProbPositive),
		Timestamp:          time.Now().UTC(),
	}

	// The persisted probability is the chance of a negative year.
	probability := 1 - metrics.ProbPositive
	score := int(probability*100 + 0.5)
	if err := s.opts.Recorder.SaveFundReport(ctx, report, probability, score); err != nil {
		return nil, err
	}
	s.publish(events.EventAssessmentRecorded, report.PredictionID)
	s.publish(events.EventSimulationDone, fundID)
	return report, nil
}

func (s *Service) runSimulation(ctx context.Context, in simulation.Input) (*simulation.Result, error) {
	if s.opts.Pool != nil {
		return s.opts.Pool.Run(ctx, in)
	}
	return simulation.Run(in)
}

func (s *Service) publish(e events.Event, payload any) {
	if s.opts.Bus != nil {
		s.opts.Bus.Publish(e, payload)
	}
}

// shortID returns a 12-hex-character id suffix.
func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
