package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the risk engine.
type Config struct {
	// Database
	DBPath string

	// Model registry
	DefaultRiskModelID string
	FundRiskModelID    string
	SeedModels         bool

	// Scoring policy overrides (YAML; empty means compiled-in defaults)
	ScoringPolicyPath  string
	ScenarioTablePath  string

	// Simulation
	SimulationDraws   int
	SimulationWorkers int
	SimulationRate    float64 // max simulations started per second, 0 = unlimited
	RiskFreeRate      float64
	SimulationSeed    int64

	// Exposure
	TotalPortfolioValue float64

	// Feature cache
	FeatureCacheTTLSeconds int

	// Demo-run entity lists
	AssessInvestors []string
	AssessFunds     []string
}

// Load reads environment variables (optionally via .env) into Config.
func Load() (*Config, error) {
	// Ignore error so the app still starts when .env is missing.
	_ = godotenv.Load()

	// Database path: prefer DB_PATH, then DATABASE_PATH for backward compatibility.
	dbPath := getEnv("DB_PATH", "")
	if dbPath == "" {
		dbPath = getEnv("DATABASE_PATH", "./data/risk.db")
	}

	return &Config{
		DBPath:                 dbPath,
		DefaultRiskModelID:     getEnv("DEFAULT_RISK_MODEL_ID", "DEFAULT_RISK_NN_V2.3"),
		FundRiskModelID:        getEnv("FUND_RISK_MODEL_ID", "FUND_RISK_MC_V1.5"),
		SeedModels:             getEnv("SEED_MODELS", "false") == "true",
		ScoringPolicyPath:      getEnv("SCORING_POLICY_PATH", ""),
		ScenarioTablePath:      getEnv("SCENARIO_TABLE_PATH", ""),
		SimulationDraws:        getEnvInt("SIMULATION_DRAWS", 10000),
		SimulationWorkers:      getEnvInt("SIMULATION_WORKERS", 4),
		SimulationRate:         getEnvFloat("SIMULATION_RATE", 0),
		RiskFreeRate:           getEnvFloat("RISK_FREE_RATE", 0.02),
		SimulationSeed:         int64(getEnvInt("SIMULATION_SEED", 42)),
		TotalPortfolioValue:    getEnvFloat("TOTAL_PORTFOLIO_VALUE", 15000000),
		FeatureCacheTTLSeconds: getEnvInt("FEATURE_CACHE_TTL_SECONDS", 60),
		AssessInvestors:        splitAndTrim(getEnv("ASSESS_INVESTORS", "")),
		AssessFunds:            splitAndTrim(getEnv("ASSESS_FUNDS", "")),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitAndTrim(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
