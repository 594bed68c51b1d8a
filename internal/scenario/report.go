package scenario

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/swaglabs/swagcheck/internal/models"
)

// Report holds the final result of every scenario of one run
type Report struct {
	RunID      string
	Browser    string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []*models.ScenarioResult
}

// Failed reports whether any scenario failed after all retries
func (r *Report) Failed() bool {
	return r.FailedCount() > 0
}

// FailedCount returns the number of failed scenarios
func (r *Report) FailedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.IsFailed() {
			n++
		}
	}
	return n
}

// PassedCount returns the number of passed scenarios, flaky ones included
func (r *Report) PassedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.IsPassed() {
			n++
		}
	}
	return n
}

// Flaky returns the scenarios that passed only on a retry
func (r *Report) Flaky() []*models.ScenarioResult {
	var flaky []*models.ScenarioResult
	for _, res := range r.Results {
		if res.Flaky() {
			flaky = append(flaky, res)
		}
	}
	return flaky
}

// Duration is the wall clock time of the run
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// WriteSummary prints one line per scenario and a totals line
func (r *Report) WriteSummary(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, res := range r.Results {
		status := string(res.Status)
		if res.Flaky() {
			status += " (flaky)"
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%d\t%s", res.Scenario, res.Browser, status, res.Attempts, res.Duration.Round(time.Millisecond))
		if res.IsFailed() {
			line += "\t" + res.Failure
			if res.Artifact != "" {
				line += " [" + res.Artifact + "]"
			}
		}
		fmt.Fprintln(tw, line)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d passed, %d failed, %d flaky in %s\n",
		r.PassedCount(), r.FailedCount(), len(r.Flaky()), r.Duration().Round(time.Millisecond))
	return err
}
