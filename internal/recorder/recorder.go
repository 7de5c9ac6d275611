// Package recorder persists risk assessments to SQLite and serves the
// score history consumed by trend tracking.
package recorder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhip2006/clearway/internal/assessment"
	"github.com/abhip2006/clearway/internal/exposure"
	"github.com/abhip2006/clearway/internal/scoring"
	"github.com/abhip2006/clearway/internal/trend"
	"github.com/abhip2006/clearway/pkg/db"
)

// SQLite stores assessments in the risk_predictions table.
type SQLite struct {
	queries *db.PredictionQueries
}

var (
	_ assessment.Recorder = (*SQLite)(nil)
	_ trend.HistorySource = (*SQLite)(nil)
)

// NewSQLite creates a recorder over the prediction table.
func NewSQLite(queries *db.PredictionQueries) *SQLite {
	return &SQLite{queries: queries}
}

// SaveAssessment persists one investor default-risk assessment.
func (r *SQLite) SaveAssessment(ctx context.Context, a *assessment.RiskAssessment) error {
	factors, err := json.Marshal(a.TopRiskFactors)
	if err != nil {
		return fmt.Errorf("encode risk factors: %w", err)
	}
	actions, err := json.Marshal(a.RecommendedActions)
	if err != nil {
		return fmt.Errorf("encode recommended actions: %w", err)
	}

	row := db.RiskPrediction{
		PredictionID:       a.PredictionID,
		ModelID:            a.ModelID,
		RiskType:           string(a.RiskType),
		RiskHorizon:        a.RiskHorizon,
		EntityID:           a.InvestorID,
		RiskProbability:    a.RiskProbability,
		RiskScore:          a.RiskScore,
		RiskTier:           string(a.RiskTier),
		TopRiskFactors:     string(factors),
		EstimatedLoss:      a.EstimatedLoss.Amount,
		ExposurePercentage: a.EstimatedLoss.Percentage,
		RecommendedActions: string(actions),
		Timestamp:          a.Timestamp,
	}
	if a.RiskTrend != nil {
		row.PreviousRiskScore = a.RiskTrend.PreviousScore
		row.RiskTrend = string(a.RiskTrend.Trend)
		row.TrendMagnitude = a.RiskTrend.Magnitude
	}
	if len(a.ContributingMetrics) > 0 {
		metrics, err := json.Marshal(a.ContributingMetrics)
		if err != nil {
			return fmt.Errorf("encode contributing metrics: %w", err)
		}
		row.ContributingMetrics = string(metrics)
	}

	if err := r.queries.Insert(ctx, row); err != nil {
		return fmt.Errorf("save assessment %s: %w", a.PredictionID, err)
	}
	return nil
}

// SaveFundReport persists the summary of one fund simulation. The raw
// samples are discarded; only the metrics object is stored.
func (r *SQLite) SaveFundReport(ctx context.Context, report *assessment.FundRiskReport, probability float64, score int) error {
	metrics, err := json.Marshal(report.RiskMetrics)
	if err != nil {
		return fmt.Errorf("encode risk metrics: %w", err)
	}
	actions, err := json.Marshal(report.RecommendedActions)
	if err != nil {
		return fmt.Errorf("encode recommended actions: %w", err)
	}

	row := db.RiskPrediction{
		PredictionID:        report.PredictionID,
		ModelID:             report.ModelID,
		RiskType:            string(report.RiskType),
		RiskHorizon:         report.RiskHorizon,
		EntityID:            report.FundID,
		RiskProbability:     probability,
		RiskScore:           score,
		ContributingMetrics: string(metrics),
		RecommendedActions:  string(actions),
		Timestamp:           report.Timestamp,
	}
	if err := r.queries.Insert(ctx, row); err != nil {
		return fmt.Errorf("save fund report %s: %w", report.PredictionID, err)
	}
	return nil
}

// MostRecent returns the latest default-risk assessment for an
// investor, skipping excludeID.
func (r *SQLite) MostRecent(ctx context.Context, investorID, excludeID string) (*assessment.RiskAssessment, error) {
	row, err := r.queries.MostRecent(ctx, investorID, string(assessment.DefaultRisk), excludeID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, assessment.ErrNoPrior
	}
	if err != nil {
		return nil, err
	}
	return decodeRow(row)
}

// PreviousScore serves trend lookups from the persisted history.
func (r *SQLite) PreviousScore(ctx context.Context, entityID, excludeID string) (int, bool, error) {
	prior, err := r.MostRecent(ctx, entityID, excludeID)
	if errors.Is(err, assessment.ErrNoPrior) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return prior.RiskScore, true, nil
}

func decodeRow(row *db.RiskPrediction) (*assessment.RiskAssessment, error) {
	a := &assessment.RiskAssessment{
		PredictionID:    row.PredictionID,
		InvestorID:      row.EntityID,
		ModelID:         row.ModelID,
		RiskType:        assessment.RiskKind(row.RiskType),
		RiskHorizon:     row.RiskHorizon,
		RiskProbability: row.RiskProbability,
		RiskScore:       row.RiskScore,
		RiskTier:        scoring.Tier(row.RiskTier),
		EstimatedLoss: exposure.Estimate{
			Amount:     row.EstimatedLoss,
			Percentage: row.ExposurePercentage,
		},
		Timestamp: row.Timestamp,
	}
	if row.RiskTrend != "" {
		a.RiskTrend = &trend.Result{
			PreviousScore: row.PreviousRiskScore,
			Trend:         trend.Direction(row.RiskTrend),
			Magnitude:     row.TrendMagnitude,
		}
	}
	if row.TopRiskFactors != "" {
		if err := json.Unmarshal([]byte(row.TopRiskFactors), &a.TopRiskFactors); err != nil {
			return nil, fmt.Errorf("decode risk factors for %s: %w", row.PredictionID, err)
		}
	}
	if row.RecommendedActions != "" {
		if err := json.Unmarshal([]byte(row.RecommendedActions), &a.RecommendedActions); err != nil {
			return nil, fmt.Errorf("decode recommended actions for %s: %w", row.PredictionID, err)
		}
	}
	if row.ContributingMetrics != "" {
		if err := json.Unmarshal([]byte(row.ContributingMetrics), &a.ContributingMetrics); err != nil {
			return nil, fmt.Errorf("decode contributing metrics for %s: %w", row.PredictionID, err)
		}
	}
	return a, nil
}
