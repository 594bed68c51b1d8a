package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

type chromedpLauncher struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	opts          Options
}

func launchChromedp(opts Options) (*chromedpLauncher, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.WindowSize(opts.Viewport.Width, opts.Viewport.Height),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run on a fresh context starts the browser process
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start chrome: %w", err)
	}

	return &chromedpLauncher{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		opts:          opts,
	}, nil
}

// NewSession opens a tab inside its own browser context
func (l *chromedpLauncher) NewSession(ctx context.Context, _ SessionOptions) (Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(l.browserCtx, chromedp.WithNewBrowserContext())
	if err := chromedp.Run(tabCtx, chromedp.EmulateViewport(int64(l.opts.Viewport.Width), int64(l.opts.Viewport.Height))); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}

	return &chromedpDriver{
		tabCtx:  tabCtx,
		cancel:  cancel,
		baseURL: l.opts.BaseURL,
		timeout: l.opts.Timeout,
	}, nil
}

func (l *chromedpLauncher) Close() error {
	l.browserCancel()
	l.allocCancel()
	return nil
}

type chromedpDriver struct {
	tabCtx  context.Context
	cancel  context.CancelFunc
	baseURL string
	timeout time.Duration
}

// run executes actions on the tab, bounded by timeout and by the caller's ctx
func (d *chromedpDriver) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(d.tabCtx, waitTimeout(timeout, d.timeout))
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

func (d *chromedpDriver) Navigate(ctx context.Context, path string) error {
	target, err := ResolveURL(d.baseURL, path)
	if err != nil {
		return err
	}
	return classify("navigate", target, d.run(ctx, 0, chromedp.Navigate(target)))
}

func (d *chromedpDriver) Fill(ctx context.Context, selector, value string) error {
	err := d.run(ctx, 0,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, "", chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	return classify("fill", selector, err)
}

func (d *chromedpDriver) Click(ctx context.Context, selector string) error {
	return classify("click", selector, d.run(ctx, 0, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)))
}

func (d *chromedpDriver) TextContent(ctx context.Context, selector string) (string, error) {
	var text string
	if err := d.run(ctx, 0, chromedp.TextContent(selector, &text, chromedp.ByQuery)); err != nil {
		return "", classify("read", selector, err)
	}
	return text, nil
}

func (d *chromedpDriver) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	return classify("wait for", selector, d.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery)))
}

func (d *chromedpDriver) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := d.run(ctx, 0, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return os.WriteFile(path, buf, 0o644)
}

func (d *chromedpDriver) SetTimeout(timeout time.Duration) {
	d.timeout = timeout
}

func (d *chromedpDriver) Timeout() time.Duration {
	return d.timeout
}

// Close cancels the tab context, which closes the tab and its browser context
func (d *chromedpDriver) Close(bool) error {
	d.cancel()
	return nil
}
