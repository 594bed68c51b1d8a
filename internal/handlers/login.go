package handlers

import (
	"html/template"
	"net/http"
	"time"

	"github.com/swaglabs/swagcheck/internal/fixtures"
	"go.uber.org/zap"
)

// LoginData is rendered by the login screen
type LoginData struct {
	Username string
	Error    string
}

// LoginHandler serves the login screen and checks submitted credentials
// against the fixture accounts
type LoginHandler struct {
	template    *template.Template
	sessions    *SessionStore
	log         *zap.Logger
	glitchDelay time.Duration
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(tmpl *template.Template, sessions *SessionStore, log *zap.Logger, glitchDelay time.Duration) *LoginHandler {
	return &LoginHandler{
		template:    tmpl,
		sessions:    sessions,
		log:         log,
		glitchDelay: glitchDelay,
	}
}

// ServeHTTP handles GET and POST /
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		render(w, h.log, h.template, "login.html", LoginData{})
	case http.MethodPost:
		h.login(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LoginHandler) login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("user-name")
	password := r.PostFormValue("password")

	message, ok := fixtures.Authenticate(username, password)
	if !ok {
		h.log.Info("Login refused", zap.String("username", username), zap.String("reason", message))
		render(w, h.log, h.template, "login.html", LoginData{Username: username, Error: message})
		return
	}

	if !stall(r, h.glitchDelay, username) {
		return
	}

	session := h.sessions.Create(username)
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.log.Info("Login accepted", zap.String("username", username), zap.String("session", session.ID))
	http.Redirect(w, r, "/inventory.html", http.StatusSeeOther)
}

// stall sleeps for the performance glitch account. It returns false if the
// client went away first.
func stall(r *http.Request, delay time.Duration, username string) bool {
	cred, ok := fixtures.ByUsername(username)
	if !ok || cred.Role != fixtures.RolePerformanceGlitch || delay <= 0 {
		return true
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-r.Context().Done():
		return false
	}
}
