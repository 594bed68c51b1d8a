package handlers

import (
	"html/template"
	"net/http"

	"github.com/swaglabs/swagcheck/internal/fixtures"
	"go.uber.org/zap"
)

// CartData is rendered by the cart screen
type CartData struct {
	CartCount int
	Items     []fixtures.Item
}

// CartHandler shows the items in the shopper's cart
type CartHandler struct {
	template *template.Template
	sessions *SessionStore
	log      *zap.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(tmpl *template.Template, sessions *SessionStore, log *zap.Logger) *CartHandler {
	return &CartHandler{
		template: tmpl,
		sessions: sessions,
		log:      log,
	}
}

// ServeHTTP handles GET /cart.html
func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.sessions.FromRequest(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	render(w, h.log, h.template, "cart.html", CartData{
		CartCount: len(session.Cart),
		Items:     cartItems(session),
	})
}
