package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/abhip2006/clearway/pkg/db"
)

func newTestRegistry(t *testing.T) (*SQLRegistry, *db.ModelRegistryQueries) {
	t.Helper()
	database, err := db.New(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.ApplyMigrations(database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	queries := database.ModelQueries()
	return NewSQLRegistry(queries), queries
}

func TestActiveModelUnavailable(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.ActiveModel(context.Background(), "DEFAULT_RISK_NN_V2.3")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("err=%v, expected ErrModelUnavailable", err)
	}
}

func TestActiveModelIgnoresNonProduction(t *testing.T) {
	reg, queries := newTestRegistry(t)
	ctx := context.Background()

	if err := queries.Upsert(ctx, db.RiskModel{
		ModelID: "FUND_RISK_MC_V1.5", ModelName: "mc", ModelType: "SIMULATION", Version: "1.5", Status: "STAGING",
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if _, err := reg.ActiveModel(ctx, "FUND_RISK_MC_V1.5"); !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("staging model served as active: %v", err)
	}
}

func TestSeedDefaults(t *testing.T) {
	reg, queries := newTestRegistry(t)
	ctx := context.Background()

	if err := SeedDefaults(ctx, queries, "DEFAULT_RISK_NN_V2.3", "FUND_RISK_MC_V1.5"); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	// Idempotent.
	if err := SeedDefaults(ctx, queries, "DEFAULT_RISK_NN_V2.3", "FUND_RISK_MC_V1.5"); err != nil {
		t.Fatalf("second SeedDefaults: %v", err)
	}

	m, err := reg.ActiveModel(ctx, "DEFAULT_RISK_NN_V2.3")
	if err != nil {
		t.Fatalf("ActiveModel: %v", err)
	}
	if m.Version != "2.3" || m.Type != "CLASSIFICATION" {
		t.Errorf("seeded model %+v", m)
	}

	f, err := reg.ActiveModel(ctx, "FUND_RISK_MC_V1.5")
	if err != nil {
		t.Fatalf("ActiveModel fund: %v", err)
	}
	if f.Version != "1.5" {
		t.Errorf("fund model %+v", f)
	}
}
