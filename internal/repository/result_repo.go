package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/swaglabs/swagcheck/internal/models"
)

// ErrRunNotFound is returned when no run has the requested ID
var ErrRunNotFound = errors.New("run not found")

// ResultRepository handles database operations for runs and scenario results
type ResultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new result repository on db
func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{
		db: db,
	}
}

// CreateRun inserts a run record
func (r *ResultRepository) CreateRun(run *models.Run) error {
	query := `
		INSERT INTO runs (id, base_url, engine, browser, started_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(query, run.ID, run.BaseURL, run.Engine, run.Browser, run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// FinishRun stores the tallies and end time of a run
func (r *ResultRepository) FinishRun(run *models.Run) error {
	query := `
		UPDATE runs
		SET passed = $1, failed = $2, finished_at = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(query, run.Passed, run.Failed, run.FinishedAt, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrRunNotFound
	}

	return nil
}

// GetRun retrieves a run by ID
func (r *ResultRepository) GetRun(id string) (*models.Run, error) {
	query := `
		SELECT id, base_url, engine, browser, passed, failed, started_at, finished_at
		FROM runs
		WHERE id = $1
	`

	run := &models.Run{}
	var finishedAt sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&run.ID,
		&run.BaseURL,
		&run.Engine,
		&run.Browser,
		&run.Passed,
		&run.Failed,
		&run.StartedAt,
		&finishedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.FinishedAt = finishedAt.Time
	return run, nil
}

// SaveResult inserts a final scenario result
func (r *ResultRepository) SaveResult(res *models.ScenarioResult) error {
	query := `
		INSERT INTO scenario_results
			(id, run_id, scenario, browser, status, attempts, duration_ms, failure, artifact, created_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10, $11)
	`

	var finishedAt sql.NullTime
	if !res.FinishedAt.IsZero() {
		finishedAt = sql.NullTime{Time: res.FinishedAt, Valid: true}
	}

	_, err := r.db.Exec(query,
		res.ID,
		res.RunID,
		res.Scenario,
		res.Browser,
		res.Status,
		res.Attempts,
		res.Duration.Milliseconds(),
		res.Failure,
		res.Artifact,
		res.CreatedAt,
		finishedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save scenario result: %w", err)
	}

	return nil
}

// ListResults returns the results of a run ordered by scenario name
func (r *ResultRepository) ListResults(runID string) ([]*models.ScenarioResult, error) {
	query := `
		SELECT id, run_id, scenario, browser, status, attempts, duration_ms,
		       COALESCE(failure, ''), COALESCE(artifact, ''), created_at, finished_at
		FROM scenario_results
		WHERE run_id = $1
		ORDER BY scenario
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenario results: %w", err)
	}
	defer rows.Close()

	var results []*models.ScenarioResult
	for rows.Next() {
		res := &models.ScenarioResult{}
		var durationMs int64
		var finishedAt sql.NullTime
		if err := rows.Scan(
			&res.ID,
			&res.RunID,
			&res.Scenario,
			&res.Browser,
			&res.Status,
			&res.Attempts,
			&durationMs,
			&res.Failure,
			&res.Artifact,
			&res.CreatedAt,
			&finishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan scenario result: %w", err)
		}
		res.Duration = time.Duration(durationMs) * time.Millisecond
		res.FinishedAt = finishedAt.Time
		res.UpdatedAt = res.FinishedAt
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scenario results: %w", err)
	}

	return results, nil
}
