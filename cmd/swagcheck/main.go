package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/swaglabs/swagcheck/internal/browser"
	internalcli "github.com/swaglabs/swagcheck/internal/cli"
	"github.com/swaglabs/swagcheck/internal/config"
	"github.com/swaglabs/swagcheck/internal/database"
	"github.com/swaglabs/swagcheck/internal/logger"
	"github.com/swaglabs/swagcheck/internal/perflog"
	"github.com/swaglabs/swagcheck/internal/repository"
	"github.com/swaglabs/swagcheck/internal/scenario"
	"github.com/swaglabs/swagcheck/internal/services"
)

var version = "0.1.0"

// loadSuite reads the suite configuration and applies command line overrides
func loadSuite(c *cli.Context) (*config.SuiteConfig, error) {
	suite, err := config.LoadSuiteConfig(os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("invalid suite configuration: %w", err)
	}

	if c.IsSet("base-url") {
		suite.BaseURL = c.String("base-url")
	}
	if c.IsSet("driver") {
		suite.Engine = c.String("driver")
	}
	if c.IsSet("browser") {
		suite.Browsers = c.StringSlice("browser")
	}
	if c.IsSet("headed") {
		suite.Headless = !c.Bool("headed")
	}
	if c.IsSet("retries") {
		suite.Retries = c.Int("retries")
	}
	if c.IsSet("parallel") {
		suite.Parallel = c.Int("parallel")
	}

	if err := suite.Validate(); err != nil {
		return nil, err
	}
	return suite, nil
}

// openResults connects the results database when one is configured. A nil
// service means results are not recorded.
func openResults(log *zap.Logger) (services.ResultService, *sql.DB, error) {
	pgConfig, err := config.LoadPostgresConfig(os.Getenv)
	if err != nil {
		return nil, nil, err
	}
	if pgConfig == nil {
		log.Debug("No results database configured")
		return nil, nil, nil
	}

	db, err := database.Connect(pgConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to results database: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	log.Info("Recording results", zap.String("host", pgConfig.Host), zap.String("database", pgConfig.Database))
	return services.NewResultService(repository.NewResultRepository(db)), db, nil
}

// runBrowser runs scenarios in one browser and returns its report
func runBrowser(ctx context.Context, suite *config.SuiteConfig, browserName string, scenarios []scenario.Scenario, results services.ResultService, seed uint64, log *zap.Logger) (*scenario.Report, error) {
	launcher, err := browser.Launch(browser.Options{
		Engine:   suite.Engine,
		Browser:  browserName,
		BaseURL:  suite.BaseURL,
		Headless: suite.Headless,
		Timeout:  suite.Timeout,
		Viewport: browser.Viewport{Width: suite.ViewportWidth, Height: suite.ViewportHeight},
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := launcher.Close(); err != nil {
			log.Warn("Failed to close browser", zap.Error(err))
		}
	}()

	runner := &scenario.Runner{
		Launcher:             launcher,
		Log:                  log,
		Perf:                 perflog.NewWriter(suite.PerfLogPath),
		Browser:              browserName,
		Retries:              suite.Retries,
		Parallel:             suite.Parallel,
		Timeout:              suite.Timeout,
		ArtifactsDir:         suite.ArtifactsDir,
		ScreenshotOnFailure:  suite.Screenshot == config.CaptureOnlyOnFailure,
		RetainVideoOnFailure: suite.Video == config.CaptureRetainOnFailure,
		Seed:                 seed,
	}

	if results == nil {
		return runner.Run(ctx, scenarios)
	}

	run, err := results.StartRun(suite.BaseURL, suite.Engine, browserName)
	if err != nil {
		return nil, err
	}
	runner.RunID = run.ID
	runner.Recorder = results

	report, err := runner.Run(ctx, scenarios)
	if err != nil {
		return nil, err
	}
	if err := results.FinishRun(run, report.Results); err != nil {
		log.Warn("Failed to finish run record", zap.Error(err))
	}
	return report, nil
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run storefront scenarios in every configured browser",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "only", Usage: "run scenarios in these groups or with these name prefixes"},
			&cli.StringFlag{Name: "base-url", Usage: "storefront root URL"},
			&cli.StringFlag{Name: "driver", Usage: "browser engine: playwright, chromedp or rod"},
			&cli.StringSliceFlag{Name: "browser", Usage: "browsers to run in"},
			&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
			&cli.IntFlag{Name: "retries", Usage: "retries per failing scenario"},
			&cli.IntFlag{Name: "parallel", Usage: "scenarios run at once"},
			&cli.Uint64Flag{Name: "seed", Usage: "seed for generated checkout data (0 is random)"},
		},
		Action: func(c *cli.Context) error {
			suite, err := loadSuite(c)
			if err != nil {
				return err
			}

			log, err := logger.New(suite.Environment)
			if err != nil {
				return err
			}
			defer log.Sync()

			scenarios := scenario.Select(scenario.Catalog(), c.StringSlice("only"))
			if len(scenarios) == 0 {
				return cli.Exit("no scenarios match the filter", 2)
			}

			results, db, err := openResults(log)
			if err != nil {
				return err
			}
			if db != nil {
				defer db.Close()
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			failed := false
			for _, browserName := range suite.Browsers {
				log.Info("Running scenarios",
					zap.String("browser", browserName),
					zap.String("engine", suite.Engine),
					zap.String("base_url", suite.BaseURL),
					zap.Int("scenarios", len(scenarios)))

				report, err := runBrowser(ctx, suite, browserName, scenarios, results, c.Uint64("seed"), log)
				if err != nil {
					return fmt.Errorf("%s: %w", browserName, err)
				}

				fmt.Fprintf(c.App.Writer, "\n[%s]\n", browserName)
				if err := report.WriteSummary(c.App.Writer); err != nil {
					return err
				}
				failed = failed || report.Failed()
			}

			if failed {
				return cli.Exit("scenarios failed", 1)
			}
			return nil
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the scenario catalog",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "only", Usage: "list scenarios in these groups or with these name prefixes"},
		},
		Action: func(c *cli.Context) error {
			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			for _, sc := range scenario.Select(scenario.Catalog(), c.StringSlice("only")) {
				fmt.Fprintf(tw, "%s\t%s\n", sc.Name, sc.Description)
			}
			return tw.Flush()
		},
	}
}

// StubCommand returns the stub command
func StubCommand() *cli.Command {
	return &cli.Command{
		Name:  "stub",
		Usage: "Serve a local replica of the storefront",
		Action: func(c *cli.Context) error {
			stubConfig, err := config.LoadStubConfig(os.Getenv)
			if err != nil {
				return err
			}

			log, err := logger.New(os.Getenv("SWAG_ENV"))
			if err != nil {
				return err
			}
			defer log.Sync()

			deps, err := internalcli.NewServerDependencies(stubConfig, log)
			if err != nil {
				return err
			}
			return internalcli.RunServe(deps)
		},
	}
}

// PerfCommand returns the perf command
func PerfCommand() *cli.Command {
	return &cli.Command{
		Name:      "perf",
		Usage:     "Summarize the performance log",
		ArgsUsage: "[path]",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				suite, err := config.LoadSuiteConfig(os.Getenv)
				if err != nil {
					return err
				}
				path = suite.PerfLogPath
			}

			records, err := perflog.ReadFile(path)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(c.App.Writer, "no records in %s\n", path)
				return nil
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LABEL\tRUNS\tMIN\tMEAN\tMAX")
			for _, s := range perflog.Summarize(records) {
				fmt.Fprintf(tw, "%s\t%d\t%d ms\t%d ms\t%d ms\n",
					s.Label, s.Count, s.Min.Milliseconds(), s.Mean.Milliseconds(), s.Max.Milliseconds())
			}
			return tw.Flush()
		},
	}
}

// ResultsCommand returns the results command
func ResultsCommand() *cli.Command {
	return &cli.Command{
		Name:      "results",
		Usage:     "Show the recorded results of a run",
		ArgsUsage: "<run-id>",
		Action: func(c *cli.Context) error {
			runID := c.Args().First()
			if runID == "" {
				return cli.Exit("a run ID is required", 2)
			}

			log, err := logger.New(os.Getenv("SWAG_ENV"))
			if err != nil {
				return err
			}
			defer log.Sync()

			results, db, err := openResults(log)
			if err != nil {
				return err
			}
			if results == nil {
				return errors.New("no results database configured; set POSTGRES_HOSTNAME")
			}
			defer db.Close()

			list, err := results.Results(runID)
			if err != nil {
				return err
			}
			report := &scenario.Report{RunID: runID, Results: list}
			return report.WriteSummary(c.App.Writer)
		},
	}
}

// InstallCommand returns the install command
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the playwright driver and configured browsers",
		Action: func(c *cli.Context) error {
			suite, err := config.LoadSuiteConfig(os.Getenv)
			if err != nil {
				return err
			}
			return browser.InstallBrowsers(suite.Browsers)
		},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "swagcheck",
		Usage:   "Browser journeys against the Swag Labs storefront",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(),
			ListCommand(),
			StubCommand(),
			PerfCommand(),
			ResultsCommand(),
			InstallCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
