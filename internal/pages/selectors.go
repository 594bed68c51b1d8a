package pages

// Element locators shared by the storefront screens
const (
	LoginLogoSelector     = ".login_logo"
	UsernameSelector      = "#user-name"
	PasswordSelector      = "#password"
	LoginButtonSelector   = "#login-button"
	ErrorBannerSelector   = `[data-test="error"]`
	TitleSelector         = ".title"
	ItemNameSelector      = ".inventory_item_name"
	ItemDescSelector      = ".inventory_item_desc"
	ItemPriceSelector     = ".inventory_item_price"
	CartLinkSelector      = ".shopping_cart_link"
	CartBadgeSelector     = ".shopping_cart_badge"
	CheckoutSelector      = "#checkout"
	FirstNameSelector     = "#first-name"
	LastNameSelector      = "#last-name"
	PostalCodeSelector    = "#postal-code"
	ContinueSelector      = "#continue"
	PaymentInfoSelector   = `div[data-test='payment-info-value']`
	ShippingInfoSelector  = `div[data-test='shipping-info-value']`
	ItemTotalSelector     = ".summary_subtotal_label"
	TaxSelector           = ".summary_tax_label"
	TotalSelector         = ".summary_total_label"
	ItemTotalLabel        = "Item total:"
	TaxLabel              = "Tax:"
	TotalLabel            = "Total:"
	BrandText             = "Swag Labs"
	ProductsTitle         = "Products"
	CartTitle             = "Your Cart"
	CheckoutTitleFragment = "Checkout"
	CheckoutInfoTitle     = "Checkout: Your Information"
	CheckoutOverviewTitle = "Checkout: Overview"
)
