package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/swaglabs/swagcheck/internal/fixtures"
	"go.uber.org/zap"
)

// Checkout information errors
const (
	FirstNameRequiredMessage  = "Error: First Name is required"
	LastNameRequiredMessage   = "Error: Last Name is required"
	PostalCodeRequiredMessage = "Error: Postal Code is required"
)

// CheckoutData is rendered by the information step
type CheckoutData struct {
	CartCount int
	Info      CheckoutInfo
	Error     string
}

// OverviewData is rendered by the overview step
type OverviewData struct {
	CartCount int
	Items     []fixtures.Item
	Payment   string
	Shipping  string
	Summary   fixtures.ExpectedSummary
}

// CheckoutHandler serves the information step of checkout
type CheckoutHandler struct {
	template *template.Template
	sessions *SessionStore
	log      *zap.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(tmpl *template.Template, sessions *SessionStore, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		template: tmpl,
		sessions: sessions,
		log:      log,
	}
}

// ServeHTTP handles GET and POST /checkout-step-one.html
func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessions.FromRequest(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		render(w, h.log, h.template, "checkout-step-one.html", CheckoutData{CartCount: len(session.Cart)})
	case http.MethodPost:
		h.submit(w, r, session)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *CheckoutHandler) submit(w http.ResponseWriter, r *http.Request, session Session) {
	info := CheckoutInfo{
		FirstName:  strings.TrimSpace(r.PostFormValue("firstName")),
		LastName:   strings.TrimSpace(r.PostFormValue("lastName")),
		PostalCode: strings.TrimSpace(r.PostFormValue("postalCode")),
	}

	if message := validateInfo(info); message != "" {
		render(w, h.log, h.template, "checkout-step-one.html", CheckoutData{
			CartCount: len(session.Cart),
			Info:      info,
			Error:     message,
		})
		return
	}

	if _, ok := h.sessions.Update(session.ID, func(s *Session) { s.Info = info }); !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.log.Info("Checkout information accepted",
		zap.String("session", session.ID),
		zap.String("first_name", info.FirstName),
		zap.String("postal_code", info.PostalCode))
	http.Redirect(w, r, "/checkout-step-two.html", http.StatusSeeOther)
}

func validateInfo(info CheckoutInfo) string {
	switch {
	case info.FirstName == "":
		return FirstNameRequiredMessage
	case info.LastName == "":
		return LastNameRequiredMessage
	case info.PostalCode == "":
		return PostalCodeRequiredMessage
	}
	return ""
}

// OverviewHandler shows the order summary with tax
type OverviewHandler struct {
	template *template.Template
	sessions *SessionStore
	log      *zap.Logger
}

// NewOverviewHandler creates a new overview handler
func NewOverviewHandler(tmpl *template.Template, sessions *SessionStore, log *zap.Logger) *OverviewHandler {
	return &OverviewHandler{
		template: tmpl,
		sessions: sessions,
		log:      log,
	}
}

// ServeHTTP handles GET /checkout-step-two.html
func (h *OverviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.sessions.FromRequest(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if !session.Info.Complete() {
		http.Redirect(w, r, "/checkout-step-one.html", http.StatusSeeOther)
		return
	}

	items := cartItems(session)
	render(w, h.log, h.template, "checkout-step-two.html", OverviewData{
		CartCount: len(session.Cart),
		Items:     items,
		Payment:   fixtures.PaymentMethod,
		Shipping:  fixtures.ShippingMethod,
		Summary:   fixtures.SummaryFor(items...),
	})
}
