package handlers

import (
	"html/template"
	"net/http"
	"time"

	"github.com/swaglabs/swagcheck/internal/fixtures"
	"go.uber.org/zap"
)

// InventoryItem is one catalog row with its cart state
type InventoryItem struct {
	Item   fixtures.Item
	InCart bool
}

// InventoryData is rendered by the products screen
type InventoryData struct {
	CartCount int
	Items     []InventoryItem
}

// InventoryHandler lists the catalog and toggles cart membership
type InventoryHandler struct {
	template    *template.Template
	sessions    *SessionStore
	log         *zap.Logger
	glitchDelay time.Duration
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(tmpl *template.Template, sessions *SessionStore, log *zap.Logger, glitchDelay time.Duration) *InventoryHandler {
	return &InventoryHandler{
		template:    tmpl,
		sessions:    sessions,
		log:         log,
		glitchDelay: glitchDelay,
	}
}

// ServeHTTP handles GET and POST /inventory.html
func (h *InventoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessions.FromRequest(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	switch r.Method {
	case http.MethodGet:
		render(w, h.log, h.template, "inventory.html", inventoryData(session))
	case http.MethodPost:
		h.updateCart(w, r, session)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *InventoryHandler) updateCart(w http.ResponseWriter, r *http.Request, session Session) {
	id := r.PostFormValue("item")
	if _, ok := fixtures.LookupItem(id); !ok {
		http.Error(w, "Unknown item", http.StatusBadRequest)
		return
	}

	var update func(*Session)
	switch action := r.PostFormValue("action"); action {
	case "add":
		if !stall(r, h.glitchDelay, session.Username) {
			return
		}
		update = func(s *Session) { s.AddToCart(id) }
	case "remove":
		update = func(s *Session) { s.RemoveFromCart(id) }
	default:
		http.Error(w, "Unknown cart action", http.StatusBadRequest)
		return
	}

	session, ok := h.sessions.Update(session.ID, update)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.log.Debug("Cart updated", zap.String("session", session.ID), zap.Strings("cart", session.Cart))
	http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
}

func inventoryData(session Session) InventoryData {
	data := InventoryData{CartCount: len(session.Cart)}
	for _, item := range fixtures.Catalog {
		inCart := false
		for _, id := range session.Cart {
			if id == item.ID {
				inCart = true
				break
			}
		}
		data.Items = append(data.Items, InventoryItem{Item: item, InCart: inCart})
	}
	return data
}

func cartItems(session Session) []fixtures.Item {
	items := make([]fixtures.Item, 0, len(session.Cart))
	for _, id := range session.Cart {
		if item, ok := fixtures.LookupItem(id); ok {
			items = append(items, item)
		}
	}
	return items
}
