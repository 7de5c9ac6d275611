package recorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhip2006/clearway/internal/assessment"
	"github.com/abhip2006/clearway/internal/exposure"
	"github.com/abhip2006/clearway/internal/scoring"
	"github.com/abhip2006/clearway/internal/simulation"
	"github.com/abhip2006/clearway/internal/trend"
	"github.com/abhip2006/clearway/pkg/db"
)

func newTestRecorder(t *testing.T) *SQLite {
	t.Helper()
	database, err := db.New(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.ApplyMigrations(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.ModelQueries().Upsert(context.Background(), db.RiskModel{
		ModelID: "DEFAULT_RISK_NN_V2.3", ModelName: "m", ModelType: "CLASSIFICATION", Status: "PRODUCTION",
	}); err != nil {
		t.Fatalf("seed model: %v", err)
	}
	return NewSQLite(database.Queries())
}

func sampleAssessment(id string, score int, at time.Time) *assessment.RiskAssessment {
	return &assessment.RiskAssessment{
		PredictionID:    id,
		InvestorID:      "INV_001",
		ModelID:         "DEFAULT_RISK_NN_V2.3",
		RiskType:        assessment.DefaultRisk,
		RiskHorizon:     assessment.Horizon6M,
		RiskProbability: float64(score) / 100 * 0.25,
		RiskScore:       score,
		RiskTier:        scoring.Tier3,
		RiskTrend:       &trend.Result{PreviousScore: score, Trend: trend.Stable},
		TopRiskFactors: []scoring.Factor{
			{Factor: "recent_payment_delays", Weight: 0.28},
		},
		EstimatedLoss:      exposure.Estimate{Amount: 32500, Percentage: 0.216},
		RecommendedActions: []string{"Investigate payment processing issues"},
		Timestamp:          at,
	}
}

func TestSaveAndReadBack(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	in := sampleAssessment("PRED_RISK_aaa", 26, time.Now().UTC())
	if err := rec.SaveAssessment(ctx, in); err != nil {
		t.Fatalf("SaveAssessment: %v", err)
	}

	out, err := rec.MostRecent(ctx, "INV_001", "PRED_RISK_other")
	if err != nil {
		t.Fatalf("MostRecent: %v", err)
	}
	if out.PredictionID != in.PredictionID || out.RiskScore != 26 || out.RiskTier != scoring.Tier3 {
		t.Errorf("round trip %+v", out)
	}
	if len(out.TopRiskFactors) != 1 || out.TopRiskFactors[0].Factor != "recent_payment_delays" {
		t.Errorf("factors %+v", out.TopRiskFactors)
	}
	if len(out.RecommendedActions) != 1 {
		t.Errorf("actions %+v", out.RecommendedActions)
	}
	if out.RiskTrend == nil || out.RiskTrend.Trend != trend.Stable {
		t.Errorf("trend %+v", out.RiskTrend)
	}
}

func TestMostRecentSkipsExcluded(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	base := time.Now().UTC()
	if err := rec.SaveAssessment(ctx, sampleAssessment("PRED_RISK_old", 40, base.Add(-time.Hour))); err != nil {
		t.Fatalf("save old: %v", err)
	}
	if err := rec.SaveAssessment(ctx, sampleAssessment("PRED_RISK_new", 26, base)); err != nil {
		t.Fatalf("save new: %v", err)
	}

	// Excluding the newest row surfaces the one before it.
	out, err := rec.MostRecent(ctx, "INV_001", "PRED_RISK_new")
	if err != nil {
		t.Fatalf("MostRecent: %v", err)
	}
	if out.PredictionID != "PRED_RISK_old" || out.RiskScore != 40 {
		t.Errorf("got %s score %d, expected the excluded row to be skipped", out.PredictionID, out.RiskScore)
	}
}

func TestMostRecentNoPrior(t *testing.T) {
	rec := newTestRecorder(t)

	if _, err := rec.MostRecent(context.Background(), "INV_404", ""); !errors.Is(err, assessment.ErrNoPrior) {
		t.Errorf("err=%v, expected ErrNoPrior", err)
	}
}

func TestPreviousScore(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	if _, ok, err := rec.PreviousScore(ctx, "INV_001", "x"); err != nil || ok {
		t.Fatalf("empty history: score ok=%v err=%v", ok, err)
	}

	if err := rec.SaveAssessment(ctx, sampleAssessment("PRED_RISK_aaa", 31, time.Now().UTC())); err != nil {
		t.Fatalf("save: %v", err)
	}
	score, ok, err := rec.PreviousScore(ctx, "INV_001", "PRED_RISK_other")
	if err != nil || !ok || score != 31 {
		t.Errorf("score=%d ok=%v err=%v, expected 31", score, ok, err)
	}
}

func TestSaveFundReport(t *testing.T) {
	rec := newTestRecorder(t)
	ctx := context.Background()

	report := &assessment.FundRiskReport{
		PredictionID: "PRED_FUND_RISK_bbb",
		FundID:       "FUND_001",
		ModelID:      "DEFAULT_RISK_NN_V2.3",
		RiskType:     assessment.FundPerformanceRisk,
		RiskHorizon:  assessment.Horizon12M,
		RiskMetrics: simulation.Metrics{
			ExpectedReturn1Y: 0.082,
			VaR95:            -0.21,
			ProbPositive:     0.68,
		},
		RecommendedActions: []string{"Evaluate defensive positioning"},
		Timestamp:          time.Now().UTC(),
	}
	if err := rec.SaveFundReport(ctx, report, 0.32, 32); err != nil {
		t.Fatalf("SaveFundReport: %v", err)
	}

	// Fund rows live under their own risk type and never leak into the
	// investor default-risk history.
	if _, err := rec.MostRecent(ctx, "FUND_001", ""); !errors.Is(err, assessment.ErrNoPrior) {
		t.Errorf("fund row visible as default-risk history: %v", err)
	}
}
