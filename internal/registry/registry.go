// Package registry consumes the model-registry contract: whether a
// usable, production-grade risk model reference is registered. Model
// lifecycle bookkeeping itself lives outside the engine.
package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhip2006/clearway/pkg/db"
)

// StatusProduction marks a model row as usable by the engine.
const StatusProduction = "PRODUCTION"

// ErrModelUnavailable signals that no production model reference is
// registered for the requested model id. Callers must treat this as a
// fatal precondition failure, not retry inside the engine.
var ErrModelUnavailable = errors.New("no production risk model registered")

// Model is the registry view the engine consumes.
type Model struct {
	ID      string
	Name    string
	Type    string
	Version string
}

// Registry resolves model references by id.
type Registry interface {
	ActiveModel(ctx context.Context, modelID string) (*Model, error)
}

// SQLRegistry reads model references from the risk_models table.
type SQLRegistry struct {
	queries *db.ModelRegistryQueries
}

// NewSQLRegistry creates a registry over the model table.
func NewSQLRegistry(queries *db.ModelRegistryQueries) *SQLRegistry {
	return &SQLRegistry{queries: queries}
}

// ActiveModel returns the production row for modelID, or
// ErrModelUnavailable when none exists.
func (r *SQLRegistry) ActiveModel(ctx context.Context, modelID string) (*Model, error) {
	row, err := r.queries.GetByStatus(ctx, modelID, StatusProduction)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("model %s: %w", modelID, ErrModelUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve model %s: %w", modelID, err)
	}
	return &Model{
		ID:      row.ModelID,
		Name:    row.ModelName,
		Type:    row.ModelType,
		Version: row.Version,
	}, nil
}

// SeedDefaults registers the standard model references as PRODUCTION.
// Intended for bootstrap and tests; idempotent.
func SeedDefaults(ctx context.Context, queries *db.ModelRegistryQueries, defaultRiskID, fundRiskID string) error {
	models := []db.RiskModel{
		{
			ModelID:   defaultRiskID,
			ModelName: "Investor Default Risk Model",
			ModelType: "CLASSIFICATION",
			Version:   "2.3",
			Status:    StatusProduction,
		},
		{
			ModelID:   fundRiskID,
			ModelName: "Fund Performance Monte Carlo Model",
			ModelType: "SIMULATION",
			Version:   "1.5",
			Status:    StatusProduction,
		},
	}
	for _, m := range models {
		if err := queries.Upsert(ctx, m); err != nil {
			return fmt.Errorf("seed model %s: %w", m.ModelID, err)
		}
	}
	return nil
}
