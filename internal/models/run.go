package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Run groups the scenario results of one invocation against one browser
type Run struct {
	ID         string
	BaseURL    string
	Engine     string
	Browser    string
	Passed     int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// ErrInvalidBaseURL is returned when a run has no target
var ErrInvalidBaseURL = errors.New("run base URL cannot be empty")

// NewRun starts a run record
func NewRun(baseURL, engine, browser string) (*Run, error) {
	if baseURL == "" {
		return nil, ErrInvalidBaseURL
	}
	return &Run{
		ID:        uuid.New().String(),
		BaseURL:   baseURL,
		Engine:    engine,
		Browser:   browser,
		StartedAt: time.Now(),
	}, nil
}

// Finish tallies final results and stamps the end time
func (r *Run) Finish(results []*ScenarioResult) {
	r.Passed, r.Failed = 0, 0
	for _, res := range results {
		switch {
		case res.IsPassed():
			r.Passed++
		case res.IsFailed():
			r.Failed++
		}
	}
	r.FinishedAt = time.Now()
}

// Duration returns how long the run took, or zero while it is unfinished
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Succeeded returns true if the run finished without failures
func (r *Run) Succeeded() bool {
	return !r.FinishedAt.IsZero() && r.Failed == 0
}
