// Package scenario composes page objects into the storefront journeys and
// runs them with retries, isolation and failure artifacts.
package scenario

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/swaglabs/swagcheck/internal/browser"
	"github.com/swaglabs/swagcheck/internal/fixtures"
	"github.com/swaglabs/swagcheck/internal/pages"
	"github.com/swaglabs/swagcheck/internal/perflog"
	"go.uber.org/zap"
)

// GlitchThreshold is the floor the timed cart flow must exceed for the
// performance glitch account
const GlitchThreshold = 120 * time.Millisecond

// Session is one isolated browser context with its page objects
type Session struct {
	Driver       browser.Driver
	LoginPage    *pages.LoginPage
	ProductsPage *pages.ProductsPage
	CartPage     *pages.CartPage
	CheckoutPage *pages.CheckoutPage

	log  *zap.Logger
	perf *perflog.Writer
}

// NewSession binds the page objects to driver. perf may be nil when no
// timing is recorded.
func NewSession(driver browser.Driver, log *zap.Logger, faker *gofakeit.Faker, perf *perflog.Writer) *Session {
	return &Session{
		Driver:       driver,
		LoginPage:    pages.NewLoginPage(driver, log),
		ProductsPage: pages.NewProductsPage(driver, log),
		CartPage:     pages.NewCartPage(driver),
		CheckoutPage: pages.NewCheckoutPage(driver, log, faker),
		log:          log,
		perf:         perf,
	}
}

// Open is the shared setup of every scenario: the login page must load
func (s *Session) Open(ctx context.Context) error {
	if err := s.LoginPage.Navigate(ctx); err != nil {
		return err
	}
	return s.LoginPage.ValidatePageLoaded(ctx)
}

// LoginAs logs in and requires the products page
func (s *Session) LoginAs(ctx context.Context, cred fixtures.Credential) error {
	if err := s.LoginPage.Login(ctx, cred.Username, cred.Password); err != nil {
		return err
	}
	return s.ProductsPage.ValidatePageLoaded(ctx)
}

// ExpectLoginRejected submits cred and requires the error banner to contain
// want
func (s *Session) ExpectLoginRejected(ctx context.Context, cred fixtures.Credential, want string) error {
	if err := s.LoginPage.Login(ctx, cred.Username, cred.Password); err != nil {
		return err
	}
	banner, err := s.LoginPage.ErrorMessage(ctx)
	if err != nil {
		return err
	}
	if !strings.Contains(banner, want) {
		return &pages.AssertionError{Check: "login error", Expected: want, Actual: banner, Contains: true}
	}
	return nil
}

// AddToCart puts item in the cart and checks it from the cart screen
func (s *Session) AddToCart(ctx context.Context, item fixtures.Item) error {
	if err := s.ProductsPage.SelectProduct(ctx, item.ID); err != nil {
		return err
	}
	if err := s.ProductsPage.ValidateCartBadge(ctx, 1); err != nil {
		return err
	}
	if err := s.ProductsPage.NavigateToCart(ctx); err != nil {
		return err
	}
	return s.ProductsPage.ValidateProductDetails(ctx, item)
}

// TimedAddToCart runs the cart flow for cred under a wall clock, appends
// the timing to the performance log and requires it to exceed
// GlitchThreshold
func (s *Session) TimedAddToCart(ctx context.Context, cred fixtures.Credential, item fixtures.Item) (time.Duration, error) {
	start := time.Now()

	steps := []func() error{
		func() error { return s.ProductsPage.SelectProduct(ctx, item.ID) },
		func() error { return s.ProductsPage.ValidateCartBadge(ctx, 1) },
		func() error { return s.ProductsPage.NavigateToCart(ctx) },
		func() error { return s.CartPage.ValidateCartPage(ctx) },
		func() error { return s.ProductsPage.ValidateProductDetails(ctx, item) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return time.Since(start), err
		}
	}

	elapsed := time.Since(start)
	record := perflog.Record{Label: cred.Role.Label(), Elapsed: elapsed}
	s.log.Info(record.String())

	if s.perf != nil {
		if err := s.perf.Append(record); err != nil {
			return elapsed, err
		}
	}

	if elapsed <= GlitchThreshold {
		return elapsed, &pages.AssertionError{
			Check:    "cart flow duration",
			Expected: fmt.Sprintf("more than %d ms", GlitchThreshold.Milliseconds()),
			Actual:   fmt.Sprintf("%d ms", elapsed.Milliseconds()),
		}
	}
	return elapsed, nil
}

// Checkout goes from the cart to the overview and checks the summary for
// the items bought
func (s *Session) Checkout(ctx context.Context, items ...fixtures.Item) error {
	if err := s.ProductsPage.ProceedToCheckout(ctx); err != nil {
		return err
	}
	if err := s.CheckoutPage.ValidatePageLoaded(ctx); err != nil {
		return err
	}
	if _, err := s.CheckoutPage.FillForm(ctx); err != nil {
		return err
	}
	return s.CheckoutPage.ValidateSummary(ctx, fixtures.SummaryFor(items...))
}
