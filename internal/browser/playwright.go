package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

type playwrightLauncher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

func launchPlaywright(opts Options) (*playwrightLauncher, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	var browserType playwright.BrowserType
	switch strings.ToLower(opts.Browser) {
	case "", "chromium", "chrome":
		browserType = pw.Chromium
	case "firefox":
		browserType = pw.Firefox
	case "webkit":
		browserType = pw.WebKit
	default:
		pw.Stop()
		return nil, fmt.Errorf("%w: %q", ErrUnknownBrowser, opts.Browser)
	}

	browser, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch %s: %w", browserType.Name(), err)
	}

	return &playwrightLauncher{pw: pw, browser: browser, opts: opts}, nil
}

// NewSession opens a fresh browser context, so cookies and storage never
// leak between scenarios
func (l *playwrightLauncher) NewSession(ctx context.Context, so SessionOptions) (Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	viewport := &playwright.Size{Width: l.opts.Viewport.Width, Height: l.opts.Viewport.Height}
	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: viewport,
	}
	if l.opts.BaseURL != "" {
		contextOpts.BaseURL = playwright.String(l.opts.BaseURL)
	}
	if so.VideoDir != "" {
		contextOpts.RecordVideo = &playwright.RecordVideo{Dir: so.VideoDir, Size: viewport}
	}

	browserContext, err := l.browser.NewContext(contextOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	browserContext.SetDefaultTimeout(float64(l.opts.Timeout.Milliseconds()))

	page, err := browserContext.NewPage()
	if err != nil {
		browserContext.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &playwrightDriver{
		context: browserContext,
		page:    page,
		timeout: l.opts.Timeout,
	}, nil
}

func (l *playwrightLauncher) Close() error {
	var errs []error
	if err := l.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
	}
	if err := l.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

type playwrightDriver struct {
	context playwright.BrowserContext
	page    playwright.Page
	timeout time.Duration
}

// limit converts the remaining call budget into playwright's millisecond
// timeout. Zero means "no timeout" to playwright, so it is never passed.
func (d *playwrightDriver) limit(ctx context.Context, explicit time.Duration) (*float64, error) {
	timeout, err := callTimeout(ctx, explicit, d.timeout)
	if err != nil {
		return nil, err
	}
	return playwright.Float(float64(max(timeout.Milliseconds(), 1))), nil
}

func (d *playwrightDriver) Navigate(ctx context.Context, path string) error {
	timeout, err := d.limit(ctx, 0)
	if err != nil {
		return err
	}
	if _, err := d.page.Goto(path, playwright.PageGotoOptions{Timeout: timeout}); err != nil {
		return playwrightError("navigate", path, err)
	}
	return nil
}

func (d *playwrightDriver) Fill(ctx context.Context, selector, value string) error {
	timeout, err := d.limit(ctx, 0)
	if err != nil {
		return err
	}
	err = d.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{Timeout: timeout})
	return playwrightError("fill", selector, err)
}

func (d *playwrightDriver) Click(ctx context.Context, selector string) error {
	timeout, err := d.limit(ctx, 0)
	if err != nil {
		return err
	}
	err = d.page.Locator(selector).First().Click(playwright.LocatorClickOptions{Timeout: timeout})
	return playwrightError("click", selector, err)
}

func (d *playwrightDriver) TextContent(ctx context.Context, selector string) (string, error) {
	timeout, err := d.limit(ctx, 0)
	if err != nil {
		return "", err
	}
	text, err := d.page.Locator(selector).First().TextContent(playwright.LocatorTextContentOptions{Timeout: timeout})
	if err != nil {
		return "", playwrightError("read", selector, err)
	}
	return text, nil
}

func (d *playwrightDriver) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	limit, err := d.limit(ctx, timeout)
	if err != nil {
		return err
	}
	err = d.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: limit,
	})
	return playwrightError("wait for", selector, err)
}

func (d *playwrightDriver) Screenshot(ctx context.Context, path string) error {
	timeout, err := d.limit(ctx, 0)
	if err != nil {
		return err
	}
	_, err = d.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
		Timeout:  timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return nil
}

func (d *playwrightDriver) SetTimeout(timeout time.Duration) {
	d.timeout = timeout
	d.context.SetDefaultTimeout(float64(timeout.Milliseconds()))
}

func (d *playwrightDriver) Timeout() time.Duration {
	return d.timeout
}

// Close closes the context, which flushes any video to disk, then drops the
// video unless the caller wants to keep it
func (d *playwrightDriver) Close(retainArtifacts bool) error {
	video := d.page.Video()
	if err := d.context.Close(); err != nil {
		return fmt.Errorf("failed to close browser context: %w", err)
	}
	if video != nil && !retainArtifacts {
		if err := video.Delete(); err != nil {
			return fmt.Errorf("failed to delete video: %w", err)
		}
	}
	return nil
}

func playwrightError(op, selector string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s %s: %w: %w", op, selector, ErrTimeout, err)
	}
	return fmt.Errorf("%s %s: %w", op, selector, err)
}

// InstallBrowsers downloads the playwright driver and the named browsers
func InstallBrowsers(browsers []string) error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: browsers}); err != nil {
		return fmt.Errorf("failed to install browsers: %w", err)
	}
	return nil
}
