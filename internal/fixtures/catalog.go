package fixtures

import "fmt"

// Item is a storefront catalog entry
type Item struct {
	ID          string
	Name        string
	Description string
	Price       Cents
}

// Catalog item identifiers
const (
	BackpackID     = "sauce-labs-backpack"
	BikeLightID    = "sauce-labs-bike-light"
	BoltShirtID    = "sauce-labs-bolt-t-shirt"
	FleeceJacketID = "sauce-labs-fleece-jacket"
	OnesieID       = "sauce-labs-onesie"
	RedShirtID     = "test.allthethings()-t-shirt-(red)"
)

// Catalog lists the storefront inventory in display order
var Catalog = []Item{
	{
		ID:          BackpackID,
		Name:        "Sauce Labs Backpack",
		Description: "carry.allTheThings() with the sleek, streamlined Sly Pack that melds uncompromising style with unequaled laptop and tablet protection.",
		Price:       2999,
	},
	{
		ID:          BikeLightID,
		Name:        "Sauce Labs Bike Light",
		Description: "A red light isn't the desired state in testing but it sure helps when riding your bike at night. Water-resistant with 3 lighting modes, 1 AAA battery included.",
		Price:       999,
	},
	{
		ID:          BoltShirtID,
		Name:        "Sauce Labs Bolt T-Shirt",
		Description: "Get your testing superhero on with the Sauce Labs bolt T-shirt. From American Apparel, 100% ringspun combed cotton, heather gray with red bolt.",
		Price:       1599,
	},
	{
		ID:          FleeceJacketID,
		Name:        "Sauce Labs Fleece Jacket",
		Description: "It's not every day that you come across a midweight quarter-zip fleece jacket capable of handling everything from a relaxing day outdoors to a busy day at the office.",
		Price:       4999,
	},
	{
		ID:          OnesieID,
		Name:        "Sauce Labs Onesie",
		Description: "Rib snap infant onesie for the junior automation engineer in development. Reinforced 3-snap bottom closure, two-needle hemmed sleeved and bottom won't unravel.",
		Price:       799,
	},
	{
		ID:          RedShirtID,
		Name:        "Test.allTheThings() T-Shirt (Red)",
		Description: "This classic Sauce Labs t-shirt is perfect to wear when cozying up to your keyboard to automate a few tests. Super-soft and comfy ringspun combed cotton.",
		Price:       1599,
	},
}

// Checkout overview constants
const (
	PaymentMethod   = "SauceCard #31337"
	PaymentContains = "SauceCard"
	ShippingMethod  = "Free Pony Express Delivery!"
	TaxRatePercent  = 8
)

// LookupItem returns the catalog entry for id
func LookupItem(id string) (Item, bool) {
	for _, item := range Catalog {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// BikeLight returns the item every cart and checkout scenario buys
func BikeLight() Item {
	item, _ := LookupItem(BikeLightID)
	return item
}

// AddToCartSelector locates the add-to-cart control of one catalog item.
// Attribute form keeps ids with dots or parentheses valid CSS.
func AddToCartSelector(id string) string {
	return fmt.Sprintf(`[id="add-to-cart-%s"]`, id)
}

// RemoveSelector locates the remove control of one catalog item
func RemoveSelector(id string) string {
	return fmt.Sprintf(`[id="remove-%s"]`, id)
}

// Tax computes the storefront tax for an item total, rounded half up
func Tax(itemTotal Cents) Cents {
	return (itemTotal*TaxRatePercent + 50) / 100
}

// ExpectedSummary is what the checkout overview must show for a cart
type ExpectedSummary struct {
	PaymentContains string
	Shipping        string
	ItemTotal       Cents
	Tax             Cents
	Total           Cents
}

// SummaryFor returns the overview expected after buying items
func SummaryFor(items ...Item) ExpectedSummary {
	var subtotal Cents
	for _, item := range items {
		subtotal += item.Price
	}
	tax := Tax(subtotal)
	return ExpectedSummary{
		PaymentContains: PaymentContains,
		Shipping:        ShippingMethod,
		ItemTotal:       subtotal,
		Tax:             tax,
		Total:           subtotal + tax,
	}
}
