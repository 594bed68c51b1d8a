package handlers

import (
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookie names the cookie carrying the storefront session ID
const SessionCookie = "session-id"

// CheckoutInfo is what the shopper typed on the information step
type CheckoutInfo struct {
	FirstName  string
	LastName   string
	PostalCode string
}

// Complete reports whether every field is filled
func (c CheckoutInfo) Complete() bool {
	return c.FirstName != "" && c.LastName != "" && c.PostalCode != ""
}

// Session is one logged-in shopper
type Session struct {
	ID        string
	Username  string
	Cart      []string
	Info      CheckoutInfo
	CreatedAt time.Time
}

// SessionStore keeps sessions in memory, safe for concurrent handlers
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Create starts a session for username
func (s *SessionStore) Create(username string) Session {
	session := &Session{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session.snapshot()
}

// Get returns a copy of the session
func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return session.snapshot(), true
}

// Update applies fn to the stored session and returns the result
func (s *SessionStore) Update(id string, fn func(*Session)) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	fn(session)
	return session.snapshot(), true
}

// Delete ends a session
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// FromRequest resolves the session named by the request cookie
func (s *SessionStore) FromRequest(r *http.Request) (Session, bool) {
	return s.Get(sessionID(r))
}

func sessionID(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (s *Session) snapshot() Session {
	cp := *s
	cp.Cart = slices.Clone(s.Cart)
	return cp
}

// AddToCart adds id once
func (s *Session) AddToCart(id string) {
	if !slices.Contains(s.Cart, id) {
		s.Cart = append(s.Cart, id)
	}
}

// RemoveFromCart drops id if present
func (s *Session) RemoveFromCart(id string) {
	s.Cart = slices.DeleteFunc(s.Cart, func(existing string) bool { return existing == id })
}
