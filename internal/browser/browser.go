// Package browser drives a remote browser session. Page objects only see the
// Driver interface; the engines behind it are playwright, chromedp and rod.
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Error kinds every engine maps its failures onto
var (
	ErrTimeout         = errors.New("timed out waiting for element")
	ErrElementNotFound = errors.New("element not found")
	ErrUnknownEngine   = errors.New("unknown browser engine")
	ErrUnknownBrowser  = errors.New("unknown browser")
)

// Engine names
const (
	EnginePlaywright = "playwright"
	EngineChromedp   = "chromedp"
	EngineRod        = "rod"
)

// DefaultTimeout bounds every blocking wait unless configured otherwise
const DefaultTimeout = 30 * time.Second

// Driver is one isolated browser session. Calls block until the remote
// browser answers or the session timeout elapses.
type Driver interface {
	Navigate(ctx context.Context, path string) error
	Fill(ctx context.Context, selector, value string) error
	Click(ctx context.Context, selector string) error
	TextContent(ctx context.Context, selector string) (string, error)
	// WaitFor blocks until selector is visible. A non-positive timeout
	// uses the session default.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error
	Screenshot(ctx context.Context, path string) error
	SetTimeout(d time.Duration)
	Timeout() time.Duration
	// Close ends the session. Recorded video is kept only when
	// retainArtifacts is true.
	Close(retainArtifacts bool) error
}

// Launcher owns a running browser and hands out isolated sessions
type Launcher interface {
	NewSession(ctx context.Context, opts SessionOptions) (Driver, error)
	Close() error
}

// Viewport is the page size in CSS pixels
type Viewport struct {
	Width  int
	Height int
}

// Options configures a Launcher
type Options struct {
	Engine   string
	Browser  string
	BaseURL  string
	Headless bool
	Timeout  time.Duration
	Viewport Viewport
}

// SessionOptions configures one session
type SessionOptions struct {
	// VideoDir enables video recording when the engine supports it
	VideoDir string
}

// Launch starts the browser selected by opts.Engine
func Launch(opts Options) (Launcher, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Viewport.Width == 0 || opts.Viewport.Height == 0 {
		opts.Viewport = Viewport{Width: 1280, Height: 720}
	}

	switch strings.ToLower(opts.Engine) {
	case "", EnginePlaywright:
		return launchPlaywright(opts)
	case EngineChromedp:
		if err := requireChromium(opts.Browser); err != nil {
			return nil, err
		}
		return launchChromedp(opts)
	case EngineRod:
		if err := requireChromium(opts.Browser); err != nil {
			return nil, err
		}
		return launchRod(opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, opts.Engine)
	}
}

func requireChromium(name string) error {
	switch strings.ToLower(name) {
	case "", "chromium", "chrome":
		return nil
	}
	return fmt.Errorf("%w: %q is not available over CDP", ErrUnknownBrowser, name)
}

// ResolveURL joins a page path onto the base URL
func ResolveURL(base, path string) (string, error) {
	target, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", path, err)
	}
	if target.IsAbs() || base == "" {
		return target.String(), nil
	}
	root, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	return root.ResolveReference(target).String(), nil
}

// waitTimeout picks the explicit timeout or falls back to the default
func waitTimeout(explicit, fallback time.Duration) time.Duration {
	if explicit > 0 {
		return explicit
	}
	return fallback
}

// callTimeout is the wait allowed for one engine call: the explicit timeout
// or fallback, cut short by ctx's deadline so a call never outlives the
// caller's budget
func callTimeout(ctx context.Context, explicit, fallback time.Duration) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	limit := waitTimeout(explicit, fallback)
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, context.DeadlineExceeded
		}
		limit = min(limit, remaining)
	}
	return limit, nil
}

// classify wraps a deadline error as ErrTimeout so callers can tell a
// missing element from a broken session
func classify(op, selector string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w: %w", op, selector, ErrTimeout, err)
	}
	return fmt.Errorf("%s %s: %w", op, selector, err)
}
