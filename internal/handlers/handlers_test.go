package handlers

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/swaglabs/swagcheck/internal/fixtures"
	"go.uber.org/zap"
)

// newStorefront wires every handler onto a mux the way the stub server does
func newStorefront(t *testing.T, glitchDelay time.Duration) (*httptest.Server, *SessionStore) {
	t.Helper()

	tmpl, err := ParseTemplates()
	if err != nil {
		t.Fatalf("ParseTemplates() error = %v", err)
	}
	sessions := NewSessionStore()
	log := zap.NewNop()

	mux := http.NewServeMux()
	mux.Handle("/", NewLoginHandler(tmpl, sessions, log, glitchDelay))
	mux.Handle("/inventory.html", NewInventoryHandler(tmpl, sessions, log, glitchDelay))
	mux.Handle("/cart.html", NewCartHandler(tmpl, sessions, log))
	mux.Handle("/checkout-step-one.html", NewCheckoutHandler(tmpl, sessions, log))
	mux.Handle("/checkout-step-two.html", NewOverviewHandler(tmpl, sessions, log))
	mux.Handle("/checkout-complete.html", NewCompleteHandler(tmpl, sessions, log))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, sessions
}

// shopper is a browser-like client that keeps cookies and follows redirects
type shopper struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newShopper(t *testing.T, server *httptest.Server) *shopper {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &shopper{t: t, base: server.URL, client: &http.Client{Jar: jar}}
}

func (s *shopper) get(path string) (string, *http.Response) {
	s.t.Helper()
	resp, err := s.client.Get(s.base + path)
	if err != nil {
		s.t.Fatalf("GET %s: %v", path, err)
	}
	return readBody(s.t, resp)
}

func (s *shopper) post(path string, form url.Values) (string, *http.Response) {
	s.t.Helper()
	resp, err := s.client.PostForm(s.base+path, form)
	if err != nil {
		s.t.Fatalf("POST %s: %v", path, err)
	}
	return readBody(s.t, resp)
}

func (s *shopper) login(username string) string {
	s.t.Helper()
	body, _ := s.post("/", url.Values{"user-name": {username}, "password": {fixtures.DefaultPassword}})
	return body
}

func readBody(t *testing.T, resp *http.Response) (string, *http.Response) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(body), resp
}

func assertContains(t *testing.T, body string, want ...string) {
	t.Helper()
	for _, content := range want {
		if !strings.Contains(body, content) {
			t.Errorf("expected response to contain %q", content)
		}
	}
}

func TestLoginHandler_GET(t *testing.T) {
	server, _ := newStorefront(t, 0)
	body, resp := newShopper(t, server).get("/")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	assertContains(t, body, `class="login_logo">Swag Labs`, `id="user-name"`, `id="password"`, `id="login-button"`)
	if strings.Contains(body, `data-test="error"`) {
		t.Error("fresh login page should not show an error banner")
	}
}

func TestLoginHandler_POST(t *testing.T) {
	tests := []struct {
		name         string
		username     string
		password     string
		wantBanner   string
		wantProducts bool
	}{
		{"standard user", "standard_user", fixtures.DefaultPassword, "", true},
		{"problem user", "problem_user", fixtures.DefaultPassword, "", true},
		{"locked out user", "locked_out_user", fixtures.DefaultPassword, fixtures.LockedOutMessage, false},
		{"wrong password", "random_user", "wrong_password", fixtures.CredentialMismatch, false},
		{"missing username", "", fixtures.DefaultPassword, fixtures.UsernameRequiredMessage, false},
		{"missing password", "standard_user", "", fixtures.PasswordRequiredMessage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, sessions := newStorefront(t, 0)
			body, resp := newShopper(t, server).post("/", url.Values{
				"user-name": {tt.username},
				"password":  {tt.password},
			})

			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected status 200, got %d", resp.StatusCode)
			}
			if tt.wantProducts {
				assertContains(t, body, `<span class="title">Products</span>`)
				if sessions.Len() != 1 {
					t.Errorf("expected one session, got %d", sessions.Len())
				}
				return
			}
			assertContains(t, body, `data-test="error"`, tt.wantBanner)
			if sessions.Len() != 0 {
				t.Errorf("refused login should not create a session")
			}
		})
	}
}

func TestLoginHandler_MethodNotAllowed(t *testing.T) {
	tmpl, err := ParseTemplates()
	if err != nil {
		t.Fatal(err)
	}
	handler := NewLoginHandler(tmpl, NewSessionStore(), zap.NewNop(), 0)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(method, "/", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected status 405, got %d", method, w.Code)
		}
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for unknown path, got %d", w.Code)
	}
}

func TestLoginHandler_GlitchDelay(t *testing.T) {
	server, _ := newStorefront(t, 150*time.Millisecond)
	s := newShopper(t, server)

	start := time.Now()
	body := s.login("performance_glitch_user")
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("expected glitch login to take at least 150ms, took %v", elapsed)
	}
	assertContains(t, body, `<span class="title">Products</span>`)
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	server, _ := newStorefront(t, 0)
	s := newShopper(t, server)

	for _, path := range []string{"/inventory.html", "/cart.html", "/checkout-step-one.html", "/checkout-step-two.html"} {
		body, resp := s.get(path)
		if resp.Request.URL.Path != "/" {
			t.Errorf("%s: expected redirect to login, landed on %s", path, resp.Request.URL.Path)
		}
		assertContains(t, body, `class="login_logo"`)
	}
}

func TestInventoryHandler_AddAndRemove(t *testing.T) {
	server, _ := newStorefront(t, 0)
	s := newShopper(t, server)
	s.login("standard_user")

	bike := fixtures.BikeLight()
	body, _ := s.post("/inventory.html", url.Values{"item": {bike.ID}, "action": {"add"}})
	assertContains(t, body,
		`<span class="shopping_cart_badge">1</span>`,
		`id="remove-`+bike.ID+`"`)

	// adding twice keeps one entry
	body, _ = s.post("/inventory.html", url.Values{"item": {bike.ID}, "action": {"add"}})
	assertContains(t, body, `<span class="shopping_cart_badge">1</span>`)

	body, _ = s.post("/inventory.html", url.Values{"item": {bike.ID}, "action": {"remove"}})
	if strings.Contains(body, "shopping_cart_badge") {
		t.Error("badge should disappear once the cart is empty")
	}
	assertContains(t, body, `id="add-to-cart-`+bike.ID+`"`)
}

func TestInventoryHandler_BadRequests(t *testing.T) {
	server, _ := newStorefront(t, 0)
	s := newShopper(t, server)
	s.login("standard_user")

	tests := []struct {
		name string
		form url.Values
	}{
		{"unknown item", url.Values{"item": {"sauce-labs-anvil"}, "action": {"add"}}},
		{"unknown action", url.Values{"item": {fixtures.BikeLightID}, "action": {"buy"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp := s.post("/inventory.html", tt.form)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestCartHandler_ShowsItems(t *testing.T) {
	server, _ := newStorefront(t, 0)
	s := newShopper(t, server)
	s.login("standard_user")

	bike := fixtures.BikeLight()
	s.post("/inventory.html", url.Values{"item": {bike.ID}, "action": {"add"}})

	body, _ := s.get("/cart.html")
	assertContains(t, body,
		`<span class="title">Your Cart</span>`,
		`<div class="inventory_item_name">`+bike.Name+`</div>`,
		`<div class="inventory_item_price">$9.99</div>`,
		`id="checkout"`)
}

func TestCheckoutHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"missing first name", url.Values{"lastName": {"Doe"}, "postalCode": {"12345"}}, FirstNameRequiredMessage},
		{"missing last name", url.Values{"firstName": {"Jane"}, "postalCode": {"12345"}}, LastNameRequiredMessage},
		{"missing postal code", url.Values{"firstName": {"Jane"}, "lastName": {"Doe"}}, PostalCodeRequiredMessage},
		{"blank first name", url.Values{"firstName": {"  "}, "lastName": {"Doe"}, "postalCode": {"12345"}}, FirstNameRequiredMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newStorefront(t, 0)
			s := newShopper(t, server)
			s.login("standard_user")

			body, resp := s.post("/checkout-step-one.html", tt.form)
			if resp.Request.URL.Path != "/checkout-step-one.html" {
				t.Errorf("expected to stay on the information step, landed on %s", resp.Request.URL.Path)
			}
			assertContains(t, body, `<span class="title">Checkout: Your Information</span>`, tt.want)
		})
	}
}

func TestCheckoutFlow_OverviewAndComplete(t *testing.T) {
	server, _ := newStorefront(t, 0)
	s := newShopper(t, server)
	s.login("standard_user")

	bike := fixtures.BikeLight()
	s.post("/inventory.html", url.Values{"item": {bike.ID}, "action": {"add"}})

	body, _ := s.get("/checkout-step-one.html")
	assertContains(t, body, `<span class="title">Checkout: Your Information</span>`, `id="continue"`)

	// overview is unreachable until the information step is done
	_, resp := s.get("/checkout-step-two.html")
	if resp.Request.URL.Path != "/checkout-step-one.html" {
		t.Errorf("expected redirect to information step, landed on %s", resp.Request.URL.Path)
	}

	body, resp = s.post("/checkout-step-one.html", url.Values{
		"firstName":  {"Jane"},
		"lastName":   {"Doe"},
		"postalCode": {"12345"},
	})
	if resp.Request.URL.Path != "/checkout-step-two.html" {
		t.Fatalf("expected overview, landed on %s", resp.Request.URL.Path)
	}
	assertContains(t, body,
		`<span class="title">Checkout: Overview</span>`,
		`data-test="payment-info-value">SauceCard #31337</div>`,
		`data-test="shipping-info-value">Free Pony Express Delivery!</div>`,
		`<div class="summary_subtotal_label">Item total: $9.99</div>`,
		`<div class="summary_tax_label">Tax: $0.80</div>`,
		`<div class="summary_total_label">Total: $10.79</div>`)

	body, _ = s.post("/checkout-complete.html", nil)
	assertContains(t, body, "Thank you for your order!")

	body, _ = s.get("/inventory.html")
	if strings.Contains(body, "shopping_cart_badge") {
		t.Error("cart should be empty after completing the order")
	}
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()
	session := store.Create("standard_user")

	if session.ID == "" {
		t.Fatal("session ID should not be empty")
	}

	updated, ok := store.Update(session.ID, func(s *Session) {
		s.AddToCart("a")
		s.AddToCart("b")
		s.AddToCart("a")
		s.RemoveFromCart("b")
	})
	if !ok || len(updated.Cart) != 1 || updated.Cart[0] != "a" {
		t.Errorf("unexpected cart %v", updated.Cart)
	}

	// snapshots do not alias the stored cart
	updated.Cart[0] = "mutated"
	if got, _ := store.Get(session.ID); got.Cart[0] != "a" {
		t.Error("mutating a snapshot changed the stored session")
	}

	store.Delete(session.ID)
	if _, ok := store.Get(session.ID); ok {
		t.Error("deleted session should be gone")
	}
	if _, ok := store.Update(session.ID, func(*Session) {}); ok {
		t.Error("updating a deleted session should fail")
	}
}
