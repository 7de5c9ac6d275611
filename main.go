package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhip2006/clearway/internal/assessment"
	"github.com/abhip2006/clearway/internal/events"
	"github.com/abhip2006/clearway/internal/exposure"
	"github.com/abhip2006/clearway/internal/features"
	"github.com/abhip2006/clearway/internal/monitor"
	"github.com/abhip2006/clearway/internal/recorder"
	"github.com/abhip2006/clearway/internal/registry"
	"github.com/abhip2006/clearway/internal/scenario"
	"github.com/abhip2006/clearway/internal/scoring"
	"github.com/abhip2006/clearway/internal/simulation"
	"github.com/abhip2006/clearway/internal/trend"
	"github.com/abhip2006/clearway/pkg/config"
	"github.com/abhip2006/clearway/pkg/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	if err := db.ApplyMigrations(database); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.SeedModels {
		if err := registry.SeedDefaults(ctx, database.ModelQueries(), cfg.DefaultRiskModelID, cfg.FundRiskModelID); err != nil {
			log.Fatalf("seed models: %v", err)
		}
		log.Printf("seeded model registry: %s, %s", cfg.DefaultRiskModelID, cfg.FundRiskModelID)
	}

	bus := events.NewBus()
	metrics := monitor.NewEngineMetrics()
	mon := &monitor.Monitor{
		Bus:     bus,
		Metrics: metrics,
		AlertFn: func(alert string) { log.Printf("RISK ALERT %s", alert) },
	}
	mon.Start(ctx)

	scorer, err := buildScorer(cfg.ScoringPolicyPath)
	if err != nil {
		log.Fatalf("load scoring policy: %v", err)
	}
	analyzer, err := buildAnalyzer(cfg.ScenarioTablePath)
	if err != nil {
		log.Fatalf("load scenario tables: %v", err)
	}

	pool := simulation.NewPool(cfg.SimulationWorkers, cfg.SimulationRate)
	defer pool.Close()

	rec := recorder.NewSQLite(database.Queries())
	provider := features.NewStoreProvider(
		database.FeatureQueries(),
		time.Duration(cfg.FeatureCacheTTLSeconds)*time.Second,
		bus,
	)

	svc := assessment.NewService(assessment.Options{
		Registry:           registry.NewSQLRegistry(database.ModelQueries()),
		Features:           provider,
		Recorder:           rec,
		Scorer:             scorer,
		Tracker:            trend.NewTracker(rec),
		Estimator:          exposure.NewEstimator(cfg.TotalPortfolioValue),
		Metrics:            simulation.NewMetricsCalculator(cfg.RiskFreeRate),
		Analyzer:           analyzer,
		Pool:               pool,
		Bus:                bus,
		DefaultRiskModelID: cfg.DefaultRiskModelID,
		FundRiskModelID:    cfg.FundRiskModelID,
		SimulationDraws:    cfg.SimulationDraws,
		SimulationSeed:     cfg.SimulationSeed,
	})

	go handleSignals(cancel)

	runAssessments(ctx, cfg, svc, metrics)

	snapshot, _ := json.Marshal(metrics.GetSnapshot())
	log.Printf("engine metrics: %s", snapshot)
}

// runAssessments scores the configured entity lists and prints each
// result as JSON on stdout.
func runAssessments(ctx context.Context, cfg *config.Config, svc *assessment.Service, metrics *monitor.EngineMetrics) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	for _, investorID := range cfg.AssessInvestors {
		if ctx.Err() != nil {
			return
		}
		timer := monitor.NewTimer(metrics.ScoringLatency)
		a, err := svc.AssessDefaultRisk(ctx, investorID, assessment.Horizon6M, true)
		timer.Stop()
		if err != nil {
			metrics.IncrementErrors()
			log.Printf("assess investor %s: %v", investorID, err)
			continue
		}
		if err := enc.Encode(a); err != nil {
			log.Printf("encode assessment %s: %v", a.PredictionID, err)
		}
	}

	for _, fundID := range cfg.AssessFunds {
		if ctx.Err() != nil {
			return
		}
		timer := monitor.NewTimer(metrics.SimulationLatency)
		r, err := svc.AssessFundPerformanceRisk(ctx, fundID, nil, cfg.SimulationSeed)
		timer.Stop()
		if err != nil {
			metrics.IncrementErrors()
			log.Printf("assess fund %s: %v", fundID, err)
			continue
		}
		if err := enc.Encode(r); err != nil {
			log.Printf("encode fund report %s: %v", r.PredictionID, err)
		}
	}
}

func buildScorer(policyPath string) (*scoring.Scorer, error) {
	if policyPath == "" {
		return scoring.NewScorer(scoring.DefaultWeights(), scoring.DefaultTierBoundaries()), nil
	}
	policy, err := scoring.LoadPolicy(policyPath)
	if err != nil {
		return nil, err
	}
	return scoring.NewScorer(policy.Weights, policy.Tiers), nil
}

func buildAnalyzer(tablePath string) (*scenario.Analyzer, error) {
	if tablePath == "" {
		return scenario.NewAnalyzer(nil, nil), nil
	}
	return scenario.LoadTables(tablePath)
}

func handleSignals(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received %s, shutting down", sig)
	cancel()
}
