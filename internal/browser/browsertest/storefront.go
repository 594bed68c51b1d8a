package browsertest

import (
	"strconv"
	"time"

	"github.com/swaglabs/swagcheck/internal/fixtures"
	"github.com/swaglabs/swagcheck/internal/pages"
)

// Storefront wires a fake driver to behave like the Swag Labs screens:
// navigation swaps titles, the login button checks the fixture accounts,
// add-to-cart updates the badge and checkout fills the overview.
type Storefront struct {
	Driver *Driver
	// GlitchDelay is slept on login and add-to-cart for the performance
	// glitch account
	GlitchDelay time.Duration
	// NavigationLag delays the page swap after the cart link and checkout
	// button are clicked
	NavigationLag time.Duration

	user string
	cart []string
}

// NewStorefront returns a storefront with the login page not yet loaded
func NewStorefront() *Storefront {
	s := &Storefront{Driver: NewDriver(), GlitchDelay: 150 * time.Millisecond}
	d := s.Driver

	d.OnNavigate = func(*Driver) { s.Load() }
	d.OnClick[pages.LoginButtonSelector] = s.submitLogin
	d.OnClick[pages.CartLinkSelector] = s.showCart
	d.OnClick[pages.CheckoutSelector] = s.showCheckoutInfo
	d.OnClick[pages.ContinueSelector] = s.submitCheckoutInfo
	for _, item := range fixtures.Catalog {
		id := item.ID
		d.OnClick[fixtures.AddToCartSelector(id)] = func(*Driver) { s.addToCart(id) }
		d.OnClick[fixtures.RemoveSelector(id)] = func(*Driver) { s.removeFromCart(id) }
	}
	return s
}

// Load renders the login page, as navigating to the root would
func (s *Storefront) Load() {
	d := s.Driver
	d.mu.Lock()
	d.Texts = map[string]string{pages.LoginLogoSelector: pages.BrandText}
	d.mu.Unlock()
	s.user = ""
	s.cart = nil
}

// NewLauncher returns a launcher whose sessions each get a fresh storefront
func NewLauncher(configure func(*Storefront)) *Launcher {
	return &Launcher{New: func() *Driver {
		s := NewStorefront()
		if configure != nil {
			configure(s)
		}
		return s.Driver
	}}
}

func (s *Storefront) submitLogin(d *Driver) {
	username := d.Value(pages.UsernameSelector)
	password := d.Value(pages.PasswordSelector)

	if message, ok := fixtures.Authenticate(username, password); !ok {
		d.SetText(pages.ErrorBannerSelector, message)
		return
	}

	s.user = username
	s.glitch()
	s.showInventory(d)
}

func (s *Storefront) glitch() {
	if cred, ok := fixtures.ByUsername(s.user); ok && cred.Role == fixtures.RolePerformanceGlitch {
		time.Sleep(s.GlitchDelay)
	}
}

func (s *Storefront) showInventory(d *Driver) {
	first := fixtures.Catalog[0]
	d.mu.Lock()
	d.Texts = map[string]string{
		pages.TitleSelector:     pages.ProductsTitle,
		pages.CartLinkSelector:  "",
		pages.ItemNameSelector:  first.Name,
		pages.ItemDescSelector:  first.Description,
		pages.ItemPriceSelector: first.Price.String(),
	}
	d.mu.Unlock()
	s.renderBadge(d)
}

func (s *Storefront) addToCart(id string) {
	for _, existing := range s.cart {
		if existing == id {
			return
		}
	}
	s.glitch()
	s.cart = append(s.cart, id)
	s.renderBadge(s.Driver)
}

func (s *Storefront) removeFromCart(id string) {
	for i, existing := range s.cart {
		if existing == id {
			s.cart = append(s.cart[:i], s.cart[i+1:]...)
			break
		}
	}
	s.renderBadge(s.Driver)
}

func (s *Storefront) renderBadge(d *Driver) {
	if len(s.cart) == 0 {
		d.Remove(pages.CartBadgeSelector)
		return
	}
	d.SetText(pages.CartBadgeSelector, strconv.Itoa(len(s.cart)))
}

func (s *Storefront) showCart(d *Driver) {
	texts := map[string]string{
		pages.TitleSelector:    pages.CartTitle,
		pages.CartLinkSelector: "",
		pages.CheckoutSelector: "Checkout",
	}
	if len(s.cart) > 0 {
		item, _ := fixtures.LookupItem(s.cart[0])
		texts[pages.ItemNameSelector] = item.Name
		texts[pages.ItemDescSelector] = item.Description
		texts[pages.ItemPriceSelector] = item.Price.String()
		texts[pages.CartBadgeSelector] = strconv.Itoa(len(s.cart))
	}
	s.navigate(d, texts)
}

func (s *Storefront) showCheckoutInfo(d *Driver) {
	s.navigate(d, map[string]string{
		pages.TitleSelector:      pages.CheckoutInfoTitle,
		pages.FirstNameSelector:  "",
		pages.LastNameSelector:   "",
		pages.PostalCodeSelector: "",
		pages.ContinueSelector:   "Continue",
	})
}

// navigate replaces the page, after NavigationLag when one is set. Until
// then the previous page stays readable, as it does in a real browser
// between a click and the next document.
func (s *Storefront) navigate(d *Driver, texts map[string]string) {
	if s.NavigationLag <= 0 {
		d.Replace(texts)
		return
	}
	lag := s.NavigationLag
	go func() {
		time.Sleep(lag)
		d.Replace(texts)
	}()
}

func (s *Storefront) submitCheckoutInfo(d *Driver) {
	switch {
	case d.Value(pages.FirstNameSelector) == "":
		d.SetText(pages.ErrorBannerSelector, "Error: First Name is required")
		return
	case d.Value(pages.LastNameSelector) == "":
		d.SetText(pages.ErrorBannerSelector, "Error: Last Name is required")
		return
	case d.Value(pages.PostalCodeSelector) == "":
		d.SetText(pages.ErrorBannerSelector, "Error: Postal Code is required")
		return
	}

	var items []fixtures.Item
	for _, id := range s.cart {
		item, _ := fixtures.LookupItem(id)
		items = append(items, item)
	}
	summary := fixtures.SummaryFor(items...)

	d.mu.Lock()
	d.Texts = map[string]string{
		pages.TitleSelector:        pages.CheckoutOverviewTitle,
		pages.PaymentInfoSelector:  fixtures.PaymentMethod,
		pages.ShippingInfoSelector: fixtures.ShippingMethod,
		pages.ItemTotalSelector:    pages.ItemTotalLabel + " " + summary.ItemTotal.String(),
		pages.TaxSelector:          pages.TaxLabel + " " + summary.Tax.String(),
		pages.TotalSelector:        pages.TotalLabel + " " + summary.Total.String(),
	}
	d.mu.Unlock()
}
