package handlers

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

// CompleteHandler finishes the order and empties the cart
type CompleteHandler struct {
	template *template.Template
	sessions *SessionStore
	log      *zap.Logger
}

// NewCompleteHandler creates a new completion handler
func NewCompleteHandler(tmpl *template.Template, sessions *SessionStore, log *zap.Logger) *CompleteHandler {
	return &CompleteHandler{
		template: tmpl,
		sessions: sessions,
		log:      log,
	}
}

// ServeHTTP handles POST /checkout-complete.html
func (h *CompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, ok := h.sessions.Update(sessionID(r), func(s *Session) {
		s.Cart = nil
		s.Info = CheckoutInfo{}
	})
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.log.Info("Order complete", zap.String("session", session.ID), zap.String("username", session.Username))
	render(w, h.log, h.template, "checkout-complete.html", CartData{})
}
