package pages

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/swaglabs/swagcheck/internal/browser"
	"github.com/swaglabs/swagcheck/internal/fixtures"
	"go.uber.org/zap"
)

// FormData is the personal data typed into the checkout form
type FormData struct {
	FirstName string
	LastName  string
	ZipCode   string
}

// Summary is the checkout overview as rendered
type Summary struct {
	PaymentInfo  string
	ShippingInfo string
	ItemTotal    fixtures.Cents
	Tax          fixtures.Cents
	Total        fixtures.Cents
}

// CheckoutPage covers the information form and the overview
type CheckoutPage struct {
	driver browser.Driver
	log    *zap.Logger
	faker  *gofakeit.Faker
}

// NewCheckoutPage creates a CheckoutPage bound to one session. A nil faker
// gets a randomly seeded one.
func NewCheckoutPage(driver browser.Driver, log *zap.Logger, faker *gofakeit.Faker) *CheckoutPage {
	if faker == nil {
		faker = gofakeit.New(0)
	}
	return &CheckoutPage{driver: driver, log: log, faker: faker}
}

// GenerateFormData produces a fresh synthetic customer
func (p *CheckoutPage) GenerateFormData() FormData {
	return FormData{
		FirstName: p.faker.FirstName(),
		LastName:  p.faker.LastName(),
		ZipCode:   p.faker.Zip(),
	}
}

// FillForm types a generated customer into the form and continues to the
// overview. The generated data is returned and logged.
func (p *CheckoutPage) FillForm(ctx context.Context) (FormData, error) {
	data := p.GenerateFormData()
	return data, p.Submit(ctx, data)
}

// Submit types data into the form and continues
func (p *CheckoutPage) Submit(ctx context.Context, data FormData) error {
	fields := []struct {
		selector string
		value    string
	}{
		{FirstNameSelector, data.FirstName},
		{LastNameSelector, data.LastName},
		{PostalCodeSelector, data.ZipCode},
	}
	for _, f := range fields {
		if err := p.driver.Fill(ctx, f.selector, f.value); err != nil {
			return fmt.Errorf("failed to fill %s: %w", f.selector, err)
		}
	}

	p.log.Info("Checkout data",
		zap.String("first_name", data.FirstName),
		zap.String("last_name", data.LastName),
		zap.String("zip", data.ZipCode),
	)

	if err := p.driver.Click(ctx, ContinueSelector); err != nil {
		return fmt.Errorf("failed to continue checkout: %w", err)
	}
	return nil
}

// ValidatePageLoaded waits for the title and checks it mentions "Checkout"
func (p *CheckoutPage) ValidatePageLoaded(ctx context.Context) error {
	if err := p.driver.WaitFor(ctx, TitleSelector, 0); err != nil {
		return fmt.Errorf("checkout page did not load: %w", err)
	}
	title, err := p.driver.TextContent(ctx, TitleSelector)
	if err != nil {
		return fmt.Errorf("failed to read checkout title: %w", err)
	}
	return expectContains("checkout title", CheckoutTitleFragment, title)
}

// ReadSummary reads and parses the overview
func (p *CheckoutPage) ReadSummary(ctx context.Context) (Summary, error) {
	var s Summary
	var err error

	if s.PaymentInfo, err = p.driver.TextContent(ctx, PaymentInfoSelector); err != nil {
		return s, fmt.Errorf("failed to read payment information: %w", err)
	}
	if s.ShippingInfo, err = p.driver.TextContent(ctx, ShippingInfoSelector); err != nil {
		return s, fmt.Errorf("failed to read shipping information: %w", err)
	}

	amounts := []struct {
		selector string
		label    string
		dst      *fixtures.Cents
	}{
		{ItemTotalSelector, ItemTotalLabel, &s.ItemTotal},
		{TaxSelector, TaxLabel, &s.Tax},
		{TotalSelector, TotalLabel, &s.Total},
	}
	for _, a := range amounts {
		text, err := p.driver.TextContent(ctx, a.selector)
		if err != nil {
			return s, fmt.Errorf("failed to read %s: %w", a.label, err)
		}
		if *a.dst, err = fixtures.ParseLabel(text, a.label); err != nil {
			return s, err
		}
	}
	return s, nil
}

// ValidateSummary checks the overview in order and stops at the first
// mismatch: payment method, shipping method, item total, tax, then that the
// total equals item total plus tax.
func (p *CheckoutPage) ValidateSummary(ctx context.Context, want fixtures.ExpectedSummary) error {
	got, err := p.ReadSummary(ctx)
	if err != nil {
		return err
	}

	if err := expectContains("payment information", want.PaymentContains, got.PaymentInfo); err != nil {
		return err
	}
	if err := expectEqual("shipping information", want.Shipping, got.ShippingInfo); err != nil {
		return err
	}
	if err := expectEqual("item total", want.ItemTotal.String(), got.ItemTotal.String()); err != nil {
		return err
	}
	if err := expectEqual("tax", want.Tax.String(), got.Tax.String()); err != nil {
		return err
	}
	if err := expectEqual("total", want.Total.String(), got.Total.String()); err != nil {
		return err
	}
	return expectEqual("item total plus tax", got.Total.String(), (got.ItemTotal + got.Tax).String())
}
