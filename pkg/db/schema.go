package db

import (
	"database/sql"
	"fmt"
)

const schema = `
PRAGMA journal_mode=WAL;

CREATE TABLE IF NOT EXISTS risk_models (
    model_id TEXT PRIMARY KEY,
    model_name TEXT NOT NULL,
    model_type TEXT NOT NULL,
    version TEXT NOT NULL DEFAULT '1.0',
    status TEXT NOT NULL DEFAULT 'DEVELOPMENT',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS feature_store (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    entity_type TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    features TEXT NOT NULL,
    returns TEXT,
    feature_timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS risk_predictions (
    prediction_id TEXT PRIMARY KEY,
    model_id TEXT NOT NULL,
    risk_type TEXT NOT NULL,
    risk_horizon TEXT NOT NULL,
    entity_id TEXT NOT NULL,
    risk_probability REAL NOT NULL,
    risk_score INTEGER NOT NULL,
    risk_tier TEXT NOT NULL,
    previous_risk_score INTEGER,
    risk_trend TEXT,
    trend_magnitude INTEGER DEFAULT 0,
    top_risk_factors TEXT,
    estimated_loss_exposure REAL DEFAULT 0,
    exposure_percentage REAL DEFAULT 0,
    contributing_metrics TEXT,
    recommended_actions TEXT,
    prediction_timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY(model_id) REFERENCES risk_models(model_id)
);

CREATE INDEX IF NOT EXISTS idx_feature_store_entity
    ON feature_store(entity_type, entity_id, feature_timestamp);

CREATE INDEX IF NOT EXISTS idx_risk_predictions_entity
    ON risk_predictions(entity_id, risk_type, prediction_timestamp);

CREATE INDEX IF NOT EXISTS idx_risk_models_status
    ON risk_models(status);
`

// ApplyMigrations bootstraps the schema; keep lightweight for fast startup.
func ApplyMigrations(d *Database) error {
	if d == nil || d.DB == nil {
		return fmt.Errorf("database is not initialized")
	}
	if _, err := d.DB.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	// Lightweight, idempotent migrations for older DB files.
	if err := ensureColumn(d.DB, "feature_store", "returns", "TEXT"); err != nil {
		return err
	}
	if err := ensureColumn(d.DB, "risk_predictions", "contributing_metrics", "TEXT"); err != nil {
		return err
	}
	if err := ensureColumn(d.DB, "risk_predictions", "trend_magnitude", "INTEGER DEFAULT 0"); err != nil {
		return err
	}

	return nil
}

// ensureColumn adds a column when missing so older DB files keep working.
func ensureColumn(db *sql.DB, table, column, definition string) error {
	exists, err := columnExists(db, table, column)
	if err != nil {
		return fmt.Errorf("check column %s.%s: %w", table, column, err)
	}
	if exists {
		return nil
	}
	alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)
	if _, err := db.Exec(alter); err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return nil
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid        int
			name       string
			colType    string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultVal, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
