package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewScenarioResult(t *testing.T) {
	tests := []struct {
		name     string
		runID    string
		scenario string
		wantErr  error
	}{
		{
			name:     "valid result",
			runID:    "run-1",
			scenario: "login/standard user",
			wantErr:  nil,
		},
		{
			name:     "empty run ID",
			runID:    "",
			scenario: "login/standard user",
			wantErr:  ErrInvalidRunID,
		},
		{
			name:     "empty scenario name",
			runID:    "run-1",
			scenario: "",
			wantErr:  ErrInvalidScenarioName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewScenarioResult(tt.runID, tt.scenario, "chromium")

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("NewScenarioResult() error = %v, wantErr %v", err, tt.wantErr)
				}
				if result != nil {
					t.Error("Expected result to be nil when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewScenarioResult() unexpected error = %v", err)
			}
			if result.ID == "" {
				t.Error("Result ID should not be empty")
			}
			if result.Status != ResultStatusPending {
				t.Errorf("Expected status %s, got %s", ResultStatusPending, result.Status)
			}
			if result.Attempts != 0 {
				t.Errorf("Expected no attempts, got %d", result.Attempts)
			}
		})
	}
}

func TestScenarioResult_PassFirstAttempt(t *testing.T) {
	result, _ := NewScenarioResult("run-1", "cart/standard user", "chromium")

	if err := result.BeginAttempt(); err != nil {
		t.Fatalf("BeginAttempt() error = %v", err)
	}
	if err := result.Pass(2 * time.Second); err != nil {
		t.Fatalf("Pass() error = %v", err)
	}

	if !result.IsPassed() || result.Flaky() {
		t.Errorf("Expected clean pass, got status %s after %d attempts", result.Status, result.Attempts)
	}
	if result.Duration != 2*time.Second {
		t.Errorf("Expected duration 2s, got %v", result.Duration)
	}
	if result.FinishedAt.IsZero() {
		t.Error("FinishedAt should be set")
	}
}

func TestScenarioResult_RetryThenPass(t *testing.T) {
	result, _ := NewScenarioResult("run-1", "checkout/glitch user", "firefox")

	steps := []func() error{
		result.BeginAttempt,
		func() error { return result.Retry("timed out") },
		result.BeginAttempt,
		func() error { return result.Pass(time.Second) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}

	if !result.Flaky() {
		t.Error("Expected result to be flaky")
	}
	if result.Attempts != 2 {
		t.Errorf("Expected 2 attempts, got %d", result.Attempts)
	}
	if result.Failure != "" {
		t.Errorf("Expected failure to be cleared, got %q", result.Failure)
	}
}

func TestScenarioResult_Fail(t *testing.T) {
	tests := []struct {
		name         string
		initialState ResultStatus
		failure      string
		wantErr      bool
	}{
		{
			name:         "fail running result",
			initialState: ResultStatusRunning,
			failure:      "cart badge: expected \"1\", got \"\"",
			wantErr:      false,
		},
		{
			name:         "cannot fail pending result",
			initialState: ResultStatusPending,
			failure:      "boom",
			wantErr:      true,
		},
		{
			name:         "cannot fail passed result",
			initialState: ResultStatusPassed,
			failure:      "boom",
			wantErr:      true,
		},
		{
			name:         "empty failure message",
			initialState: ResultStatusRunning,
			failure:      "",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &ScenarioResult{ID: "test-id", Status: tt.initialState}

			err := result.Fail(time.Second, tt.failure, "artifacts/shot.png")

			if (err != nil) != tt.wantErr {
				t.Errorf("Fail() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if !result.IsFailed() {
					t.Errorf("Expected status %s, got %s", ResultStatusFailed, result.Status)
				}
				if result.Artifact != "artifacts/shot.png" {
					t.Errorf("Expected artifact to be recorded, got %q", result.Artifact)
				}
			}
		})
	}
}

func TestScenarioResult_BeginAttemptTransitions(t *testing.T) {
	tests := []struct {
		name         string
		initialState ResultStatus
		wantErr      error
	}{
		{"from pending", ResultStatusPending, nil},
		{"from retrying", ResultStatusRetrying, nil},
		{"while running", ResultStatusRunning, ErrInvalidStatusTransition},
		{"after pass", ResultStatusPassed, ErrResultAlreadyFinal},
		{"after fail", ResultStatusFailed, ErrResultAlreadyFinal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &ScenarioResult{Status: tt.initialState}
			err := result.BeginAttempt()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("BeginAttempt() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BeginAttempt() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestScenarioResult_RetryRequiresRunning(t *testing.T) {
	result := &ScenarioResult{Status: ResultStatusPending}
	if err := result.Retry("boom"); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("Retry() error = %v, want %v", err, ErrInvalidStatusTransition)
	}
}

func TestRun(t *testing.T) {
	if _, err := NewRun("", "playwright", "chromium"); err != ErrInvalidBaseURL {
		t.Errorf("NewRun() error = %v, want %v", err, ErrInvalidBaseURL)
	}

	run, err := NewRun("https://www.saucedemo.com", "playwright", "chromium")
	if err != nil {
		t.Fatalf("NewRun() error = %v", err)
	}
	if run.Duration() != 0 || run.Succeeded() {
		t.Error("Unfinished run should have no duration and not be successful")
	}

	results := []*ScenarioResult{
		{Status: ResultStatusPassed},
		{Status: ResultStatusPassed},
		{Status: ResultStatusFailed},
		{Status: ResultStatusRunning},
	}
	run.Finish(results)

	if run.Passed != 2 || run.Failed != 1 {
		t.Errorf("Expected 2 passed and 1 failed, got %d/%d", run.Passed, run.Failed)
	}
	if run.Succeeded() {
		t.Error("Run with a failure should not succeed")
	}

	run.Finish(results[:2])
	if !run.Succeeded() {
		t.Error("Run without failures should succeed")
	}
}
