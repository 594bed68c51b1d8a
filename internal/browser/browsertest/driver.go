// Package browsertest provides an in-memory browser.Driver for tests
package browsertest

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/swaglabs/swagcheck/internal/browser"
)

// Action records one call made against the fake driver
type Action struct {
	Kind     string
	Selector string
	Value    string
}

// Driver serves text from a selector map. Selectors without text behave
// like elements that never appear: reads and waits time out.
type Driver struct {
	mu sync.Mutex

	Texts map[string]string
	// Errs forces an error for any call touching the selector
	Errs map[string]error
	// OnClick runs after a click, with the lock released, so tests can
	// mutate the DOM the way a navigation would
	OnClick map[string]func(d *Driver)
	// OnNavigate runs after every navigation
	OnNavigate func(d *Driver)
	// Delay is slept before every call
	Delay time.Duration
	// Settle is how long WaitFor keeps polling for a missing selector
	// before timing out. Zero fails at once.
	Settle time.Duration

	Actions     []Action
	Filled      map[string]string
	Screenshots []string
	Closed      bool
	Retained    bool

	timeout time.Duration
}

// NewDriver returns an empty fake driver
func NewDriver() *Driver {
	return &Driver{
		Texts:   map[string]string{},
		Errs:    map[string]error{},
		OnClick: map[string]func(d *Driver){},
		Filled:  map[string]string{},
		timeout: browser.DefaultTimeout,
	}
}

// SetText places selector on the page with the given text
func (d *Driver) SetText(selector, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Texts[selector] = text
}

// Remove drops a selector from the page
func (d *Driver) Remove(selector string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.Texts, selector)
}

// Replace swaps the whole page for texts, as a completed navigation would
func (d *Driver) Replace(texts map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Texts = texts
}

// Text returns the current text of selector
func (d *Driver) Text(selector string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	text, ok := d.Texts[selector]
	return text, ok
}

// Value returns what was last filled into selector
func (d *Driver) Value(selector string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Filled[selector]
}

// History returns a copy of the recorded actions
func (d *Driver) History() []Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Action(nil), d.Actions...)
}

func (d *Driver) record(ctx context.Context, kind, selector, value string) error {
	if d.Delay > 0 {
		select {
		case <-time.After(d.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.Actions = append(d.Actions, Action{Kind: kind, Selector: selector, Value: value})
	if err, ok := d.Errs[selector]; ok && err != nil {
		return err
	}
	return nil
}

func (d *Driver) Navigate(ctx context.Context, path string) error {
	if err := d.record(ctx, "navigate", path, ""); err != nil {
		return err
	}
	if d.OnNavigate != nil {
		d.OnNavigate(d)
	}
	return nil
}

func (d *Driver) Fill(ctx context.Context, selector, value string) error {
	if err := d.record(ctx, "fill", selector, value); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Filled[selector] = value
	return nil
}

func (d *Driver) Click(ctx context.Context, selector string) error {
	if err := d.record(ctx, "click", selector, ""); err != nil {
		return err
	}
	d.mu.Lock()
	hook := d.OnClick[selector]
	d.mu.Unlock()
	if hook != nil {
		hook(d)
	}
	return nil
}

func (d *Driver) TextContent(ctx context.Context, selector string) (string, error) {
	if err := d.record(ctx, "read", selector, ""); err != nil {
		return "", err
	}
	text, ok := d.Text(selector)
	if !ok {
		return "", fmt.Errorf("read %s: %w", selector, browser.ErrTimeout)
	}
	return text, nil
}

func (d *Driver) WaitFor(ctx context.Context, selector string, _ time.Duration) error {
	if err := d.record(ctx, "wait", selector, ""); err != nil {
		return err
	}
	deadline := time.Now().Add(d.Settle)
	for {
		if _, ok := d.Text(selector); ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("wait for %s: %w", selector, browser.ErrTimeout)
		}
		select {
		case <-time.After(5 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Screenshot writes a placeholder file so callers can assert on the path
func (d *Driver) Screenshot(ctx context.Context, path string) error {
	if err := d.record(ctx, "screenshot", path, ""); err != nil {
		return err
	}
	d.mu.Lock()
	d.Screenshots = append(d.Screenshots, path)
	d.mu.Unlock()
	return os.WriteFile(path, []byte("png"), 0o644)
}

func (d *Driver) SetTimeout(timeout time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timeout = timeout
}

func (d *Driver) Timeout() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timeout
}

func (d *Driver) Close(retainArtifacts bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	d.Retained = retainArtifacts
	return nil
}

// Launcher hands out drivers built by New and remembers them
type Launcher struct {
	mu       sync.Mutex
	New      func() *Driver
	Sessions []*Driver
	Options  []browser.SessionOptions
	Closed   bool
}

func (l *Launcher) NewSession(ctx context.Context, opts browser.SessionOptions) (browser.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := l.New()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Sessions = append(l.Sessions, d)
	l.Options = append(l.Options, opts)
	return d, nil
}

func (l *Launcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Closed = true
	return nil
}

// SessionCount returns how many sessions were opened
func (l *Launcher) SessionCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Sessions)
}
