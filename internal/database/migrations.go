package database

import (
	"database/sql"
	"fmt"
)

// Schema holds the results tables. It is idempotent.
const Schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id UUID PRIMARY KEY,
		base_url VARCHAR(255) NOT NULL,
		engine VARCHAR(50) NOT NULL,
		browser VARCHAR(50) NOT NULL,
		passed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS scenario_results (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		scenario VARCHAR(255) NOT NULL,
		browser VARCHAR(50) NOT NULL,
		status VARCHAR(50) NOT NULL,
		attempts INTEGER NOT NULL,
		duration_ms BIGINT NOT NULL,
		failure TEXT,
		artifact VARCHAR(1024),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		finished_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_scenario_results_run ON scenario_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_scenario_results_status ON scenario_results(status);
`

// RunMigrations creates the results tables
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create results tables: %w", err)
	}

	return nil
}
