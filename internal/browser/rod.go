package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

type rodLauncher struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	opts     Options
}

func launchRod(opts Options) (*rodLauncher, error) {
	l := launcher.New().Headless(opts.Headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to chrome: %w", err)
	}

	return &rodLauncher{launcher: l, browser: browser, opts: opts}, nil
}

// NewSession opens a page in a new incognito browser context
func (l *rodLauncher) NewSession(ctx context.Context, _ SessionOptions) (Driver, error) {
	incognito, err := l.browser.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("failed to create incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		incognito.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             l.opts.Viewport.Width,
		Height:            l.opts.Viewport.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		page.Close()
		incognito.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	return &rodDriver{
		incognito: incognito,
		page:      page,
		baseURL:   l.opts.BaseURL,
		timeout:   l.opts.Timeout,
	}, nil
}

func (l *rodLauncher) Close() error {
	err := l.browser.Close()
	l.launcher.Kill()
	if err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}

type rodDriver struct {
	incognito *rod.Browser
	page      *rod.Page
	baseURL   string
	timeout   time.Duration
}

// bounded returns the page bound to ctx and the wait timeout
func (d *rodDriver) bounded(ctx context.Context, timeout time.Duration) (*rod.Page, context.CancelFunc) {
	waitCtx, cancel := context.WithTimeout(ctx, waitTimeout(timeout, d.timeout))
	return d.page.Context(waitCtx), cancel
}

func (d *rodDriver) element(ctx context.Context, selector string) (*rod.Element, context.CancelFunc, error) {
	page, cancel := d.bounded(ctx, 0)
	el, err := page.Element(selector)
	if err != nil {
		cancel()
		return nil, nil, rodError("find", selector, err)
	}
	return el, cancel, nil
}

func (d *rodDriver) Navigate(ctx context.Context, path string) error {
	target, err := ResolveURL(d.baseURL, path)
	if err != nil {
		return err
	}
	page, cancel := d.bounded(ctx, 0)
	defer cancel()
	if err := page.Navigate(target); err != nil {
		return rodError("navigate", target, err)
	}
	return rodError("load", target, page.WaitLoad())
}

func (d *rodDriver) Fill(ctx context.Context, selector, value string) error {
	el, cancel, err := d.element(ctx, selector)
	if err != nil {
		return err
	}
	defer cancel()
	if err := el.SelectAllText(); err != nil {
		return rodError("fill", selector, err)
	}
	return rodError("fill", selector, el.Input(value))
}

func (d *rodDriver) Click(ctx context.Context, selector string) error {
	el, cancel, err := d.element(ctx, selector)
	if err != nil {
		return err
	}
	defer cancel()
	return rodError("click", selector, el.Click(proto.InputMouseButtonLeft, 1))
}

func (d *rodDriver) TextContent(ctx context.Context, selector string) (string, error) {
	el, cancel, err := d.element(ctx, selector)
	if err != nil {
		return "", err
	}
	defer cancel()
	text, err := el.Text()
	if err != nil {
		return "", rodError("read", selector, err)
	}
	return text, nil
}

func (d *rodDriver) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	page, cancel := d.bounded(ctx, timeout)
	defer cancel()
	el, err := page.Element(selector)
	if err != nil {
		return rodError("wait for", selector, err)
	}
	return rodError("wait for", selector, el.WaitVisible())
}

func (d *rodDriver) Screenshot(ctx context.Context, path string) error {
	page, cancel := d.bounded(ctx, 0)
	defer cancel()
	buf, err := page.Screenshot(true, nil)
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return os.WriteFile(path, buf, 0o644)
}

func (d *rodDriver) SetTimeout(timeout time.Duration) {
	d.timeout = timeout
}

func (d *rodDriver) Timeout() time.Duration {
	return d.timeout
}

func (d *rodDriver) Close(bool) error {
	pageErr := d.page.Close()
	if err := d.incognito.Close(); err != nil {
		return fmt.Errorf("failed to close incognito context: %w", err)
	}
	return pageErr
}

func rodError(op, selector string, err error) error {
	if err == nil {
		return nil
	}
	var notFound *rod.ElementNotFoundError
	if errors.As(err, &notFound) {
		return fmt.Errorf("%s %s: %w: %w", op, selector, ErrElementNotFound, err)
	}
	return classify(op, selector, err)
}
