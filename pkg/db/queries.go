// Package db provides SQLite-backed storage for the risk engine:
// the model registry, the feature store, and persisted risk predictions.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	ErrEntityIDRequired = errors.New("entity_id is required")
	ErrModelIDRequired  = errors.New("model_id is required")
	ErrNotFound         = errors.New("record not found")
)

// PredictionQueries provides access to persisted risk predictions.
type PredictionQueries struct {
	db *sql.DB
}

// NewPredictionQueries creates prediction query helpers.
func NewPredictionQueries(db *sql.DB) *PredictionQueries {
	return &PredictionQueries{db: db}
}

// Insert persists a prediction row.
func (q *PredictionQueries) Insert(ctx context.Context, p RiskPrediction) error {
	if p.EntityID == "" {
		return ErrEntityIDRequired
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO risk_predictions (
			prediction_id, model_id, risk_type, risk_horizon, entity_id,
			risk_probability, risk_score, risk_tier, previous_risk_score,
			risk_trend, trend_magnitude, top_risk_factors,
			estimated_loss_exposure, exposure_percentage,
			contributing_metrics, recommended_actions, prediction_timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PredictionID,
		p.ModelID,
		p.RiskType,
		p.RiskHorizon,
		p.EntityID,
		p.RiskProbability,
		p.RiskScore,
		p.RiskTier,
		p.PreviousRiskScore,
		p.RiskTrend,
		p.TrendMagnitude,
		p.TopRiskFactors,
		p.EstimatedLoss,
		p.ExposurePercentage,
		p.ContributingMetrics,
		p.RecommendedActions,
		p.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert risk prediction: %w", err)
	}
	return nil
}

// MostRecent returns the latest prediction for an entity and risk type,
// skipping excludeID so an in-flight assessment never observes itself.
// Returns ErrNotFound when no prior prediction exists.
func (q *PredictionQueries) MostRecent(ctx context.Context, entityID, riskType, excludeID string) (*RiskPrediction, error) {
	if entityID == "" {
		return nil, ErrEntityIDRequired
	}

	p := &RiskPrediction{}
	var prevScore sql.NullInt64
	err := q.db.QueryRowContext(ctx, `
		SELECT prediction_id, model_id, risk_type, risk_horizon, entity_id,
		       risk_probability, risk_score, risk_tier, previous_risk_score,
		       risk_trend, trend_magnitude, top_risk_factors,
		       estimated_loss_exposure, exposure_percentage,
		       contributing_metrics, recommended_actions, prediction_timestamp
		FROM risk_predictions
		WHERE entity_id = ? AND risk_type = ? AND prediction_id != ?
		ORDER BY prediction_timestamp DESC, rowid DESC
		LIMIT 1`,
		entityID, riskType, excludeID,
	).Scan(
		&p.PredictionID,
		&p.ModelID,
		&p.RiskType,
		&p.RiskHorizon,
		&p.EntityID,
		&p.RiskProbability,
		&p.RiskScore,
		&p.RiskTier,
		&prevScore,
		&p.RiskTrend,
		&p.TrendMagnitude,
		&p.TopRiskFactors,
		&p.EstimatedLoss,
		&p.ExposurePercentage,
		&p.ContributingMetrics,
		&p.RecommendedActions,
		&p.Timestamp,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query most recent prediction: %w", err)
	}
	if prevScore.Valid {
		p.PreviousRiskScore = int(prevScore.Int64)
	}
	return p, nil
}

// CountByEntity returns the number of stored predictions for an entity.
func (q *PredictionQueries) CountByEntity(ctx context.Context, entityID, riskType string) (int, error) {
	if entityID == "" {
		return 0, ErrEntityIDRequired
	}
	var n int
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM risk_predictions WHERE entity_id = ? AND risk_type = ?`,
		entityID, riskType,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count predictions: %w", err)
	}
	return n, nil
}

// FeatureStoreQueries provides access to point-in-time feature vectors.
type FeatureStoreQueries struct {
	db *sql.DB
}

// NewFeatureStoreQueries creates feature-store query helpers.
func NewFeatureStoreQueries(db *sql.DB) *FeatureStoreQueries {
	return &FeatureStoreQueries{db: db}
}

// Latest returns the most recent feature record for an entity, or
// ErrNotFound when the entity has never been featurized.
func (q *FeatureStoreQueries) Latest(ctx context.Context, entityType, entityID string) (*FeatureRecord, error) {
	if entityID == "" {
		return nil, ErrEntityIDRequired
	}

	rec := &FeatureRecord{}
	var returns sql.NullString
	err := q.db.QueryRowContext(ctx, `
		SELECT id, entity_type, entity_id, features, returns, feature_timestamp
		FROM feature_store
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY feature_timestamp DESC, id DESC
		LIMIT 1`,
		entityType, entityID,
	).Scan(&rec.ID, &rec.EntityType, &rec.EntityID, &rec.Features, &returns, &rec.Timestamp)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query feature store: %w", err)
	}
	if returns.Valid {
		rec.Returns = returns.String
	}
	return rec, nil
}

// Insert stores a new feature snapshot for an entity.
func (q *FeatureStoreQueries) Insert(ctx context.Context, rec FeatureRecord) error {
	if rec.EntityID == "" {
		return ErrEntityIDRequired
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO feature_store (entity_type, entity_id, features, returns, feature_timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		rec.EntityType, rec.EntityID, rec.Features, rec.Returns, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert feature record: %w", err)
	}
	return nil
}

// ModelRegistryQueries provides access to the risk-model registry.
type ModelRegistryQueries struct {
	db *sql.DB
}

// NewModelRegistryQueries creates model-registry query helpers.
func NewModelRegistryQueries(db *sql.DB) *ModelRegistryQueries {
	return &ModelRegistryQueries{db: db}
}

// GetByStatus returns the model row when it carries the given status,
// or ErrNotFound otherwise.
func (q *ModelRegistryQueries) GetByStatus(ctx context.Context, modelID, status string) (*RiskModel, error) {
	if modelID == "" {
		return nil, ErrModelIDRequired
	}

	m := &RiskModel{}
	err := q.db.QueryRowContext(ctx, `
		SELECT model_id, model_name, model_type, version, status, created_at, updated_at
		FROM risk_models
		WHERE model_id = ? AND status = ?
		LIMIT 1`,
		modelID, status,
	).Scan(&m.ModelID, &m.ModelName, &m.ModelType, &m.Version, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query risk model: %w", err)
	}
	return m, nil
}

// Upsert inserts or updates a model registry row.
func (q *ModelRegistryQueries) Upsert(ctx context.Context, m RiskModel) error {
	if m.ModelID == "" {
		return ErrModelIDRequired
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO risk_models (model_id, model_name, model_type, version, status, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(model_id) DO UPDATE SET
			model_name = excluded.model_name,
			model_type = excluded.model_type,
			version = excluded.version,
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP`,
		m.ModelID, m.ModelName, m.ModelType, m.Version, m.Status,
	)
	if err != nil {
		return fmt.Errorf("upsert risk model: %w", err)
	}
	return nil
}
