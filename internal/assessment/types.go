// Package assessment orchestrates the two risk flows: deterministic
// investor default-risk scoring and Monte Carlo fund performance risk.
// It owns the persisted assessment shapes and the Recorder port; the
// computation itself lives in the scoring, trend, exposure, simulation
// and scenario packages.
package assessment

import (
	"context"
	"errors"
	"time"

	"github.com/abhip2006/clearway/internal/exposure"
	"github.com/abhip2006/clearway/internal/scenario"
	"github.com/abhip2006/clearway/internal/scoring"
	"github.com/abhip2006/clearway/internal/simulation"
	"github.com/abhip2006/clearway/internal/trend"
)

// RiskKind labels the assessment flow that produced a record.
type RiskKind string

const (
	DefaultRisk         RiskKind = "DEFAULT_RISK"
	FundPerformanceRisk RiskKind = "FUND_PERFORMANCE_RISK"
)

// Supported default-risk horizons.
const (
	Horizon3M  = "3M"
	Horizon6M  = "6M"
	Horizon12M = "12M"
)

// FundHorizon is the fixed one-year horizon of fund simulations.
const FundHorizon = Horizon12M

var (
	// ErrInvalidHorizon rejects horizons outside the supported set.
	ErrInvalidHorizon = errors.New("unsupported risk horizon")

	// ErrNoPrior signals that an entity has no earlier assessment.
	ErrNoPrior = errors.New("no prior assessment")
)

// ValidHorizon reports whether h is a supported default-risk horizon.
func ValidHorizon(h string) bool {
	switch h {
	case Horizon3M, Horizon6M, Horizon12M:
		return true
	}
	return false
}

// RiskAssessment is one investor default-risk result as persisted and
// reported.
type RiskAssessment struct {
	PredictionID        string             `json:"prediction_id"`
	InvestorID          string             `json:"investor_id"`
	ModelID             string             `json:"model_id"`
	ModelVersion        string             `json:"model_version"`
	RiskType            RiskKind           `json:"risk_type"`
	RiskHorizon         string             `json:"risk_horizon"`
	RiskProbability     float64            `json:"risk_probability"`
	RiskScore           int                `json:"risk_score"`
	RiskTier            scoring.Tier       `json:"risk_tier"`
	RiskTrend           *trend.Result      `json:"risk_trend,omitempty"`
	TopRiskFactors      []scoring.Factor   `json:"top_risk_factors"`
	EstimatedLoss       exposure.Estimate  `json:"estimated_loss_exposure"`
	RecommendedActions  []string           `json:"recommended_actions"`
	ContributingMetrics map[string]float64 `json:"contributing_metrics,omitempty"`
	Timestamp           time.Time          `json:"prediction_timestamp"`
}

// Distribution summarizes the simulated return distribution for
// reporting.
type Distribution struct {
	ExpectedReturn float64 `json:"expected_return"`
	P5             float64 `json:"percentile_5"`
	P25            float64 `json:"percentile_25"`
	P50            float64 `json:"percentile_50"`
	P75            float64 `json:"percentile_75"`
	P95            float64 `json:"percentile_95"`
}

// FundRiskReport is one fund performance-risk result. Raw simulation
// samples never leave the service; only these summaries do.
type FundRiskReport struct {
	PredictionID       string                `json:"prediction_id"`
	FundID             string                `json:"fund_id"`
	ModelID            string                `json:"model_id"`
	ModelVersion       string                `json:"model_version"`
	RiskType           RiskKind              `json:"risk_type"`
	RiskHorizon        string                `json:"risk_horizon"`
	RiskMetrics        simulation.Metrics    `json:"risk_metrics"`
	ReturnDistribution Distribution          `json:"return_distribution"`
	ScenarioAnalysis   []scenario.Result     `json:"scenario_analysis"`
	StressTests        []scenario.StressTest `json:"stress_tests"`
	RecommendedActions []string              `json:"recommended_actions"`
	Timestamp          time.Time             `json:"prediction_timestamp"`
}

// Recorder persists assessments and serves trend lookups. Implemented
// over SQLite in internal/recorder; in-memory fakes satisfy it in
// tests.
type Recorder interface {
	SaveAssessment(ctx context.Context, a *RiskAssessment) error
	SaveFundReport(ctx context.Context, r *FundRiskReport, probability float64, score int) error

	// MostRecent returns the latest persisted assessment for an
	// investor, skipping excludeID. Returns ErrNoPrior when none exists.
	MostRecent(ctx context.Context, investorID, excludeID string) (*RiskAssessment, error)
}
