//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/swaglabs/swagcheck/internal/browser"
	internalcli "github.com/swaglabs/swagcheck/internal/cli"
	"github.com/swaglabs/swagcheck/internal/config"
	"github.com/swaglabs/swagcheck/internal/perflog"
	"github.com/swaglabs/swagcheck/internal/scenario"
)

var (
	launcher browser.Launcher
	baseURL  string
	perfLog  *perflog.Writer
)

// TestMain starts the stub storefront (unless SWAG_BASE_URL points at a
// live one) and a headless playwright browser shared by all tests.
// Browsers must be installed first: swagcheck install
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	suite, err := config.LoadSuiteConfig(os.Getenv)
	if err != nil {
		panic(err)
	}

	baseURL = os.Getenv("SWAG_BASE_URL")
	if baseURL == "" {
		deps, err := internalcli.NewServerDependencies(config.StubConfig{
			Port:        "0",
			GlitchDelay: 500 * time.Millisecond,
		}, zap.NewNop())
		if err != nil {
			panic(err)
		}
		listener, server, err := internalcli.StartServer(deps)
		if err != nil {
			panic(err)
		}
		defer listener.Close()
		defer server.Close()
		baseURL = fmt.Sprintf("http://localhost:%d", listener.Addr().(*net.TCPAddr).Port)
	}

	dir, err := os.MkdirTemp("", "swagcheck-e2e")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)
	perfLog = perflog.NewWriter(filepath.Join(dir, "performance_log.txt"))

	launcher, err = browser.Launch(browser.Options{
		Engine:   browser.EnginePlaywright,
		Browser:  "chromium",
		BaseURL:  baseURL,
		Headless: true,
		Timeout:  suite.Timeout,
		Viewport: browser.Viewport{Width: suite.ViewportWidth, Height: suite.ViewportHeight},
	})
	if err != nil {
		panic(err)
	}
	defer launcher.Close()

	return m.Run()
}

// openSession returns a fresh browser context already on the login page
func openSession(t *testing.T) (context.Context, *scenario.Session) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	t.Cleanup(cancel)

	driver, err := launcher.NewSession(ctx, browser.SessionOptions{})
	if err != nil {
		t.Fatalf("Failed to open browser session: %v", err)
	}
	t.Cleanup(func() { driver.Close(false) })

	session := scenario.NewSession(driver, zaptest.NewLogger(t), gofakeit.New(0), perfLog)
	if err := session.Open(ctx); err != nil {
		t.Fatalf("Login page did not load: %v", err)
	}
	return ctx, session
}
