package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swaglabs/swagcheck/internal/browser"
	"go.uber.org/zap"
)

// DefaultBannerTimeout bounds how long ErrorMessage waits for the banner
const DefaultBannerTimeout = 5 * time.Second

// LoginPage is the storefront landing screen
type LoginPage struct {
	driver browser.Driver
	log    *zap.Logger

	// BannerTimeout bounds the wait for the error banner after a refused login
	BannerTimeout time.Duration
}

// NewLoginPage creates a LoginPage bound to one session
func NewLoginPage(driver browser.Driver, log *zap.Logger) *LoginPage {
	return &LoginPage{
		driver:        driver,
		log:           log,
		BannerTimeout: DefaultBannerTimeout,
	}
}

// Navigate opens the storefront root
func (p *LoginPage) Navigate(ctx context.Context) error {
	if err := p.driver.Navigate(ctx, "/"); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}
	return nil
}

// ValidatePageLoaded waits for the logo and checks it carries the brand
func (p *LoginPage) ValidatePageLoaded(ctx context.Context) error {
	if err := p.driver.WaitFor(ctx, LoginLogoSelector, 0); err != nil {
		return fmt.Errorf("login page did not load: %w", err)
	}
	logo, err := p.driver.TextContent(ctx, LoginLogoSelector)
	if err != nil {
		return fmt.Errorf("failed to read login logo: %w", err)
	}
	return expectContains("login logo", BrandText, logo)
}

// Login submits the credentials. The result is either a navigation to the
// inventory or an error banner.
func (p *LoginPage) Login(ctx context.Context, username, password string) error {
	if err := p.driver.Fill(ctx, UsernameSelector, username); err != nil {
		return fmt.Errorf("failed to enter username: %w", err)
	}
	if err := p.driver.Fill(ctx, PasswordSelector, password); err != nil {
		return fmt.Errorf("failed to enter password: %w", err)
	}
	if err := p.driver.Click(ctx, LoginButtonSelector); err != nil {
		return fmt.Errorf("failed to submit login: %w", err)
	}
	p.log.Debug("Submitted login", zap.String("username", username))
	return nil
}

// ValidateLoginSuccess waits for the page title and requires exactly
// "Products"
func (p *LoginPage) ValidateLoginSuccess(ctx context.Context) error {
	if err := p.driver.WaitFor(ctx, TitleSelector, 0); err != nil {
		return fmt.Errorf("no page title after login: %w", err)
	}
	title, err := p.driver.TextContent(ctx, TitleSelector)
	if err != nil {
		return fmt.Errorf("failed to read page title: %w", err)
	}
	return expectEqual("title after login", ProductsTitle, title)
}

// ErrorMessage returns the login error banner text. Asking for it after a
// login that succeeded is a caller bug and yields ErrMissingErrorBanner.
func (p *LoginPage) ErrorMessage(ctx context.Context) (string, error) {
	if err := p.driver.WaitFor(ctx, ErrorBannerSelector, p.BannerTimeout); err != nil {
		if errors.Is(err, browser.ErrTimeout) || errors.Is(err, browser.ErrElementNotFound) {
			return "", fmt.Errorf("%w: %w", ErrMissingErrorBanner, err)
		}
		return "", fmt.Errorf("failed to wait for error banner: %w", err)
	}
	text, err := p.driver.TextContent(ctx, ErrorBannerSelector)
	if err != nil {
		return "", fmt.Errorf("failed to read error banner: %w", err)
	}
	return text, nil
}
