package scenario

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/swaglabs/swagcheck/internal/browser"
	"github.com/swaglabs/swagcheck/internal/models"
	"github.com/swaglabs/swagcheck/internal/perflog"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultScenarioTimeout bounds one attempt of one scenario
const DefaultScenarioTimeout = 30 * time.Second

// screenshotTimeout bounds the failure screenshot, which runs after the
// attempt's own budget may already be spent
const screenshotTimeout = 10 * time.Second

// Recorder persists final scenario results
type Recorder interface {
	Record(res *models.ScenarioResult) error
}

// Runner executes scenarios against sessions from Launcher
type Runner struct {
	Launcher browser.Launcher
	Log      *zap.Logger
	// Perf receives timing records; nil disables the performance log
	Perf *perflog.Writer
	// Recorder, when set, receives every final result
	Recorder Recorder

	RunID    string
	Browser  string
	Retries  int
	Parallel int
	Timeout  time.Duration

	ArtifactsDir         string
	ScreenshotOnFailure  bool
	RetainVideoOnFailure bool

	// Seed fixes the checkout form generator; zero picks a random seed
	Seed uint64
}

// Run executes every scenario and reports the final result of each, in
// input order. Scenarios share nothing but the performance log.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) (*Report, error) {
	if r.Launcher == nil {
		return nil, errors.New("runner has no browser launcher")
	}
	if r.Log == nil {
		r.Log = zap.NewNop()
	}
	if r.RunID == "" {
		r.RunID = uuid.New().String()
	}
	if r.ScreenshotOnFailure || r.RetainVideoOnFailure {
		if err := os.MkdirAll(r.ArtifactsDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create artifacts directory: %w", err)
		}
	}

	report := &Report{
		RunID:     r.RunID,
		Browser:   r.Browser,
		StartedAt: time.Now(),
		Results:   make([]*models.ScenarioResult, len(scenarios)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Parallel, 1))
	for i, sc := range scenarios {
		g.Go(func() error {
			res, err := r.runScenario(gctx, sc)
			if err != nil {
				return err
			}
			report.Results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.FinishedAt = time.Now()
	return report, nil
}

// runScenario makes up to 1+Retries attempts. Only bookkeeping failures are
// returned; a failing scenario is a failed result.
func (r *Runner) runScenario(ctx context.Context, sc Scenario) (*models.ScenarioResult, error) {
	res, err := models.NewScenarioResult(r.RunID, sc.Name, r.Browser)
	if err != nil {
		return nil, err
	}
	log := r.Log.With(zap.String("scenario", sc.Name), zap.String("browser", r.Browser))

	for attempt := 0; ; attempt++ {
		if err := res.BeginAttempt(); err != nil {
			return nil, err
		}

		start := time.Now()
		artifact, runErr := r.attempt(ctx, sc, attempt, log)
		elapsed := time.Since(start)

		if runErr == nil {
			if err := res.Pass(elapsed); err != nil {
				return nil, err
			}
			log.Info("Scenario passed", zap.Int("attempt", res.Attempts), zap.Duration("elapsed", elapsed))
			break
		}

		if attempt < r.Retries && ctx.Err() == nil {
			log.Warn("Scenario attempt failed, retrying", zap.Int("attempt", res.Attempts), zap.Error(runErr))
			if err := res.Retry(runErr.Error()); err != nil {
				return nil, err
			}
			continue
		}

		if err := res.Fail(elapsed, runErr.Error(), artifact); err != nil {
			return nil, err
		}
		log.Error("Scenario failed", zap.Int("attempts", res.Attempts), zap.Error(runErr))
		break
	}

	if r.Recorder != nil {
		if err := r.Recorder.Record(res); err != nil {
			log.Warn("Failed to record result", zap.Error(err))
		}
	}
	return res, nil
}

// attempt runs sc once on a fresh session and returns the screenshot path
// taken on failure, if any
func (r *Runner) attempt(ctx context.Context, sc Scenario, attempt int, log *zap.Logger) (string, error) {
	budget := r.Timeout
	if budget <= 0 {
		budget = DefaultScenarioTimeout
	}
	budget = max(budget, sc.Timeout)

	actx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	base := artifactName(sc.Name, r.Browser, attempt)
	var opts browser.SessionOptions
	if r.RetainVideoOnFailure {
		opts.VideoDir = filepath.Join(r.ArtifactsDir, "video", base)
	}

	driver, err := r.Launcher.NewSession(actx, opts)
	if err != nil {
		return "", fmt.Errorf("failed to open browser session: %w", err)
	}
	if sc.Timeout > 0 {
		driver.SetTimeout(sc.Timeout)
	}

	session := NewSession(driver, log, gofakeit.New(r.Seed), r.Perf)
	runErr := session.Open(actx)
	if runErr == nil {
		runErr = sc.Run(actx, session)
	}
	if runErr != nil && actx.Err() != nil && ctx.Err() == nil {
		runErr = fmt.Errorf("scenario exceeded %s: %w", budget, runErr)
	}

	var artifact string
	if runErr != nil && r.ScreenshotOnFailure {
		artifact = r.screenshot(ctx, driver, base, log)
	}

	if err := driver.Close(runErr != nil && r.RetainVideoOnFailure); err != nil {
		log.Warn("Failed to close browser session", zap.Error(err))
	}
	return artifact, runErr
}

func (r *Runner) screenshot(ctx context.Context, driver browser.Driver, base string, log *zap.Logger) string {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), screenshotTimeout)
	defer cancel()

	path := filepath.Join(r.ArtifactsDir, base+".png")
	if err := driver.Screenshot(sctx, path); err != nil {
		log.Warn("Failed to capture failure screenshot", zap.Error(err))
		return ""
	}
	return path
}

func artifactName(scenario, browserName string, attempt int) string {
	name := strings.NewReplacer("/", "-", " ", "-").Replace(scenario)
	if browserName != "" {
		name += "-" + browserName
	}
	return fmt.Sprintf("%s-attempt%d", name, attempt+1)
}
