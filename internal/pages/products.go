package pages

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/swaglabs/swagcheck/internal/browser"
	"github.com/swaglabs/swagcheck/internal/fixtures"
	"go.uber.org/zap"
)

// ProductsPage is the inventory listing. Its item detail and badge checks
// also apply on the cart screen, which shares those elements.
type ProductsPage struct {
	driver browser.Driver
	log    *zap.Logger
}

// NewProductsPage creates a ProductsPage bound to one session
func NewProductsPage(driver browser.Driver, log *zap.Logger) *ProductsPage {
	return &ProductsPage{driver: driver, log: log}
}

// SelectProduct adds the catalog item with the given id to the cart
func (p *ProductsPage) SelectProduct(ctx context.Context, itemID string) error {
	if _, ok := fixtures.LookupItem(itemID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}
	if err := p.driver.Click(ctx, fixtures.AddToCartSelector(itemID)); err != nil {
		return fmt.Errorf("failed to add %s to cart: %w", itemID, err)
	}
	return nil
}

// RemoveProduct takes the catalog item back out of the cart
func (p *ProductsPage) RemoveProduct(ctx context.Context, itemID string) error {
	if _, ok := fixtures.LookupItem(itemID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}
	if err := p.driver.Click(ctx, fixtures.RemoveSelector(itemID)); err != nil {
		return fmt.Errorf("failed to remove %s from cart: %w", itemID, err)
	}
	return nil
}

// NavigateToCart opens the cart through the header icon and returns once
// the cart's checkout button is showing. The inventory shares the item
// selectors, so reading before the cart arrives would see the old page.
func (p *ProductsPage) NavigateToCart(ctx context.Context) error {
	if err := p.driver.Click(ctx, CartLinkSelector); err != nil {
		return fmt.Errorf("failed to open cart: %w", err)
	}
	if err := p.driver.WaitFor(ctx, CheckoutSelector, 0); err != nil {
		return fmt.Errorf("cart did not load: %w", err)
	}
	return nil
}

// ValidateProductDetails requires the displayed name, description and price
// to match the catalog entry exactly
func (p *ProductsPage) ValidateProductDetails(ctx context.Context, item fixtures.Item) error {
	name, err := p.driver.TextContent(ctx, ItemNameSelector)
	if err != nil {
		return fmt.Errorf("failed to read product name: %w", err)
	}
	desc, err := p.driver.TextContent(ctx, ItemDescSelector)
	if err != nil {
		return fmt.Errorf("failed to read product description: %w", err)
	}
	price, err := p.driver.TextContent(ctx, ItemPriceSelector)
	if err != nil {
		return fmt.Errorf("failed to read product price: %w", err)
	}

	if err := expectEqual("product name", item.Name, name); err != nil {
		return err
	}
	if err := expectEqual("product description", item.Description, desc); err != nil {
		return err
	}
	return expectEqual("product price", item.Price.String(), price)
}

// ValidateCartBadge requires the cart badge to show want. A missing badge
// fails the check rather than reading as zero.
func (p *ProductsPage) ValidateCartBadge(ctx context.Context, want int) error {
	count, err := p.driver.TextContent(ctx, CartBadgeSelector)
	if errors.Is(err, browser.ErrTimeout) || errors.Is(err, browser.ErrElementNotFound) {
		missing := &AssertionError{Check: "cart badge", Expected: strconv.Itoa(want), Actual: ""}
		return fmt.Errorf("%w: %w", missing, err)
	}
	if err != nil {
		return fmt.Errorf("failed to read cart badge: %w", err)
	}
	return expectEqual("cart badge", strconv.Itoa(want), count)
}

// ProceedToCheckout starts checkout from the cart and returns once the
// information form is showing
func (p *ProductsPage) ProceedToCheckout(ctx context.Context) error {
	if err := p.driver.Click(ctx, CheckoutSelector); err != nil {
		return fmt.Errorf("failed to start checkout: %w", err)
	}
	if err := p.driver.WaitFor(ctx, FirstNameSelector, 0); err != nil {
		return fmt.Errorf("checkout form did not load: %w", err)
	}
	return nil
}

// ValidatePageLoaded waits for the title and checks it mentions "Products"
func (p *ProductsPage) ValidatePageLoaded(ctx context.Context) error {
	if err := p.driver.WaitFor(ctx, TitleSelector, 0); err != nil {
		return fmt.Errorf("product page did not load: %w", err)
	}
	title, err := p.PageTitle(ctx)
	if err != nil {
		return err
	}
	p.log.Debug("Observed page title", zap.String("title", title))
	return expectContains("product page title", ProductsTitle, title)
}

// PageTitle returns the raw title text
func (p *ProductsPage) PageTitle(ctx context.Context) (string, error) {
	title, err := p.driver.TextContent(ctx, TitleSelector)
	if err != nil {
		return "", fmt.Errorf("failed to read page title: %w", err)
	}
	return title, nil
}
