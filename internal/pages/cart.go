package pages

import (
	"context"
	"fmt"

	"github.com/swaglabs/swagcheck/internal/browser"
)

// CartPage is the shopping cart screen
type CartPage struct {
	driver browser.Driver
}

// NewCartPage creates a CartPage bound to one session
func NewCartPage(driver browser.Driver) *CartPage {
	return &CartPage{driver: driver}
}

// ValidateCartPage requires the title to read exactly "Your Cart"
func (p *CartPage) ValidateCartPage(ctx context.Context) error {
	title, err := p.driver.TextContent(ctx, TitleSelector)
	if err != nil {
		return fmt.Errorf("failed to read cart title: %w", err)
	}
	return expectEqual("cart title", CartTitle, title)
}
