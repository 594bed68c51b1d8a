package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Artifact capture modes
const (
	CaptureOff             = "off"
	CaptureOnlyOnFailure   = "only-on-failure"
	CaptureRetainOnFailure = "retain-on-failure"
)

// SuiteConfig holds everything the scenario runner needs to reach the
// storefront
type SuiteConfig struct {
	BaseURL        string        `toml:"base_url"`
	Engine         string        `toml:"engine"`
	Browsers       []string      `toml:"browsers"`
	Headless       bool          `toml:"headless"`
	Timeout        time.Duration `toml:"-"`
	TimeoutText    string        `toml:"timeout"`
	Retries        int           `toml:"retries"`
	Parallel       int           `toml:"parallel"`
	ViewportWidth  int           `toml:"viewport_width"`
	ViewportHeight int           `toml:"viewport_height"`
	ArtifactsDir   string        `toml:"artifacts_dir"`
	Screenshot     string        `toml:"screenshot"`
	Video          string        `toml:"video"`
	PerfLogPath    string        `toml:"perf_log"`
	Environment    string        `toml:"environment"`
}

// DefaultSuiteConfig mirrors the settings the suite has always run with
func DefaultSuiteConfig() SuiteConfig {
	return SuiteConfig{
		BaseURL:        "https://www.saucedemo.com",
		Engine:         "playwright",
		Browsers:       []string{"chromium"},
		Headless:       true,
		Timeout:        30 * time.Second,
		Retries:        1,
		Parallel:       1,
		ViewportWidth:  1280,
		ViewportHeight: 720,
		ArtifactsDir:   "artifacts",
		Screenshot:     CaptureOnlyOnFailure,
		Video:          CaptureRetainOnFailure,
		PerfLogPath:    "performance_log.txt",
		Environment:    "development",
	}
}

// LoadSuiteConfig builds the suite configuration from defaults, an optional
// TOML file named by SWAG_CONFIG, and SWAG_* environment variables, in that
// order of precedence (environment wins)
func LoadSuiteConfig(getenv func(string) string) (*SuiteConfig, error) {
	config := DefaultSuiteConfig()

	if path := getenv("SWAG_CONFIG"); path != "" {
		if err := config.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if v := getenv("SWAG_BASE_URL"); v != "" {
		config.BaseURL = v
	}
	if v := getenv("SWAG_DRIVER"); v != "" {
		config.Engine = v
	}
	if v := getenv("SWAG_BROWSERS"); v != "" {
		config.Browsers = splitList(v)
	}
	if v := getenv("SWAG_ARTIFACTS_DIR"); v != "" {
		config.ArtifactsDir = v
	}
	if v := getenv("SWAG_SCREENSHOT"); v != "" {
		config.Screenshot = v
	}
	if v := getenv("SWAG_VIDEO"); v != "" {
		config.Video = v
	}
	if v := getenv("SWAG_PERF_LOG"); v != "" {
		config.PerfLogPath = v
	}
	if v := getenv("SWAG_ENV"); v != "" {
		config.Environment = v
	}

	if v := getenv("SWAG_HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("SWAG_HEADLESS must be a boolean: %w", err)
		}
		config.Headless = headless
	}
	if v := getenv("SWAG_TIMEOUT"); v != "" {
		config.TimeoutText = v
	}
	if config.TimeoutText != "" {
		timeout, err := time.ParseDuration(config.TimeoutText)
		if err != nil {
			return nil, fmt.Errorf("SWAG_TIMEOUT must be a duration: %w", err)
		}
		config.Timeout = timeout
	}
	if v := getenv("SWAG_RETRIES"); v != "" {
		retries, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SWAG_RETRIES must be an integer: %w", err)
		}
		config.Retries = retries
	}
	if v := getenv("SWAG_PARALLEL"); v != "" {
		parallel, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SWAG_PARALLEL must be an integer: %w", err)
		}
		config.Parallel = parallel
	}
	if v := getenv("SWAG_VIEWPORT"); v != "" {
		width, height, err := parseViewport(v)
		if err != nil {
			return nil, err
		}
		config.ViewportWidth, config.ViewportHeight = width, height
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks field ranges and enumerations
func (c *SuiteConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("SWAG_BASE_URL is required")
	}
	if len(c.Browsers) == 0 {
		return fmt.Errorf("SWAG_BROWSERS must name at least one browser")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("SWAG_TIMEOUT must be positive")
	}
	if c.Retries < 0 {
		return fmt.Errorf("SWAG_RETRIES cannot be negative")
	}
	if c.Parallel < 1 {
		return fmt.Errorf("SWAG_PARALLEL must be at least 1")
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		return fmt.Errorf("SWAG_VIEWPORT must be positive")
	}
	switch c.Screenshot {
	case CaptureOff, CaptureOnlyOnFailure:
	default:
		return fmt.Errorf("SWAG_SCREENSHOT must be %q or %q", CaptureOff, CaptureOnlyOnFailure)
	}
	switch c.Video {
	case CaptureOff, CaptureRetainOnFailure:
	default:
		return fmt.Errorf("SWAG_VIDEO must be %q or %q", CaptureOff, CaptureRetainOnFailure)
	}
	return nil
}

func (c *SuiteConfig) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseViewport(v string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(v), "x")
	if !ok {
		return 0, 0, fmt.Errorf("SWAG_VIEWPORT must look like 1280x720, got %q", v)
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return 0, 0, fmt.Errorf("SWAG_VIEWPORT width: %w", err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, 0, fmt.Errorf("SWAG_VIEWPORT height: %w", err)
	}
	return width, height, nil
}
