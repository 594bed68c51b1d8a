package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResultStatus represents valid scenario result states
type ResultStatus string

// Result statuses
const (
	ResultStatusPending  ResultStatus = "pending"
	ResultStatusRunning  ResultStatus = "running"
	ResultStatusRetrying ResultStatus = "retrying"
	ResultStatusPassed   ResultStatus = "passed"
	ResultStatusFailed   ResultStatus = "failed"
)

// ScenarioResult is the outcome of one scenario in one browser
type ScenarioResult struct {
	ID         string
	RunID      string
	Scenario   string
	Browser    string
	Status     ResultStatus
	Attempts   int
	Duration   time.Duration
	Failure    string
	Artifact   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	FinishedAt time.Time
}

// Domain errors
var (
	ErrInvalidScenarioName     = errors.New("scenario name cannot be empty")
	ErrInvalidRunID            = errors.New("run ID cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid result status transition")
	ErrResultAlreadyFinal      = errors.New("result is already final")
)

// NewScenarioResult creates a pending result with validation
func NewScenarioResult(runID, scenario, browser string) (*ScenarioResult, error) {
	if runID == "" {
		return nil, ErrInvalidRunID
	}
	if scenario == "" {
		return nil, ErrInvalidScenarioName
	}

	now := time.Now()
	return &ScenarioResult{
		ID:        uuid.New().String(),
		RunID:     runID,
		Scenario:  scenario,
		Browser:   browser,
		Status:    ResultStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// BeginAttempt marks the start of a new attempt
func (r *ScenarioResult) BeginAttempt() error {
	if r.IsFinal() {
		return fmt.Errorf("%w: %s", ErrResultAlreadyFinal, r.Status)
	}
	if r.Status == ResultStatusRunning {
		return fmt.Errorf("%w: attempt %d is still running", ErrInvalidStatusTransition, r.Attempts)
	}

	r.Status = ResultStatusRunning
	r.Attempts++
	r.UpdatedAt = time.Now()
	return nil
}

// Retry records a failed attempt that will be run again
func (r *ScenarioResult) Retry(failure string) error {
	if r.Status != ResultStatusRunning {
		return fmt.Errorf("%w: cannot retry result with status %s", ErrInvalidStatusTransition, r.Status)
	}

	r.Status = ResultStatusRetrying
	r.Failure = failure
	r.UpdatedAt = time.Now()
	return nil
}

// Pass marks the running attempt as successful
func (r *ScenarioResult) Pass(duration time.Duration) error {
	if r.Status != ResultStatusRunning {
		return fmt.Errorf("%w: cannot pass result with status %s", ErrInvalidStatusTransition, r.Status)
	}

	r.finish(ResultStatusPassed, duration)
	r.Failure = ""
	return nil
}

// Fail marks the running attempt as the final failure
func (r *ScenarioResult) Fail(duration time.Duration, failure, artifact string) error {
	if r.Status != ResultStatusRunning {
		return fmt.Errorf("%w: cannot fail result with status %s", ErrInvalidStatusTransition, r.Status)
	}
	if failure == "" {
		return errors.New("failure message cannot be empty")
	}

	r.finish(ResultStatusFailed, duration)
	r.Failure = failure
	r.Artifact = artifact
	return nil
}

func (r *ScenarioResult) finish(status ResultStatus, duration time.Duration) {
	now := time.Now()
	r.Status = status
	r.Duration = duration
	r.UpdatedAt = now
	r.FinishedAt = now
}

// IsPassed returns true if the scenario passed
func (r *ScenarioResult) IsPassed() bool {
	return r.Status == ResultStatusPassed
}

// IsFailed returns true if the scenario failed after all attempts
func (r *ScenarioResult) IsFailed() bool {
	return r.Status == ResultStatusFailed
}

// IsFinal returns true once no further attempt may start
func (r *ScenarioResult) IsFinal() bool {
	return r.Status == ResultStatusPassed || r.Status == ResultStatusFailed
}

// Flaky returns true if the scenario passed only after a retry
func (r *ScenarioResult) Flaky() bool {
	return r.IsPassed() && r.Attempts > 1
}
