package cli

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/swaglabs/swagcheck/internal/config"
	"go.uber.org/zap"
)

// mockHandler creates a simple test handler
func mockHandler(response string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(response))
	})
}

// createTestDeps creates ServerDependencies with mock handlers for testing
func createTestDeps(port string) ServerDependencies {
	return ServerDependencies{
		StubConfig:       config.StubConfig{Port: port},
		Log:              zap.NewNop(),
		LoginHandler:     mockHandler("login"),
		InventoryHandler: mockHandler("inventory"),
		CartHandler:      mockHandler("cart"),
		CheckoutHandler:  mockHandler("checkout"),
		OverviewHandler:  mockHandler("overview"),
		CompleteHandler:  mockHandler("complete"),
	}
}

// startTestServer starts a server with the given dependencies and returns listener, server, and port
func startTestServer(t *testing.T, deps ServerDependencies) (net.Listener, *http.Server, int) {
	t.Helper()
	listener, server, err := StartServer(deps)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	return listener, server, port
}

// httpGet makes an HTTP GET request and returns response body and status
func httpGet(t *testing.T, url string) (string, int) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Failed to make request to %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body), resp.StatusCode
}

func TestStartServer_SuccessfulStartup(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")

	// WHEN
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	// THEN
	if port == 0 {
		t.Error("Expected non-zero port")
	}

	time.Sleep(50 * time.Millisecond)
	body, status := httpGet(t, fmt.Sprintf("http://localhost:%d/", port))

	if status != http.StatusOK {
		t.Errorf("Expected status 200, got %d", status)
	}
	if body != "login" {
		t.Errorf("Expected 'login', got '%s'", body)
	}
}

func TestStartServer_InvalidPort(t *testing.T) {
	// GIVEN
	deps := createTestDeps("99999")

	// WHEN
	listener, server, err := StartServer(deps)

	// THEN
	if err == nil {
		listener.Close()
		server.Close()
		t.Error("Expected error for invalid port, got nil")
	}
}

func TestStartServer_PortAlreadyInUse(t *testing.T) {
	// GIVEN
	existingListener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to create test listener: %v", err)
	}
	defer existingListener.Close()

	port := existingListener.Addr().(*net.TCPAddr).Port
	deps := createTestDeps(fmt.Sprintf("%d", port))

	// WHEN
	listener, server, err := StartServer(deps)

	// THEN
	if err == nil {
		listener.Close()
		server.Close()
		t.Error("Expected error for port already in use, got nil")
	}
}

func TestStartServer_AllRoutesWork(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")

	// WHEN
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	baseURL := fmt.Sprintf("http://localhost:%d", port)
	time.Sleep(50 * time.Millisecond)

	// THEN
	testCases := []struct {
		path     string
		expected string
	}{
		{"/", "login"},
		{"/inventory.html", "inventory"},
		{"/cart.html", "cart"},
		{"/checkout-step-one.html", "checkout"},
		{"/checkout-step-two.html", "overview"},
		{"/checkout-complete.html", "complete"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			body, status := httpGet(t, baseURL+tc.path)
			if status != http.StatusOK {
				t.Errorf("Expected status 200, got %d", status)
			}
			if body != tc.expected {
				t.Errorf("Expected '%s', got '%s'", tc.expected, body)
			}
		})
	}
}

func TestStartServer_RealStorefront(t *testing.T) {
	// GIVEN
	deps, err := NewServerDependencies(config.StubConfig{Port: "0"}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewServerDependencies() error = %v", err)
	}

	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()
	time.Sleep(50 * time.Millisecond)

	// WHEN
	resp, err := http.PostForm(fmt.Sprintf("http://localhost:%d/", port), url.Values{
		"user-name": {"locked_out_user"},
		"password":  {"secret_sauce"},
	})
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	// THEN
	if !strings.Contains(string(body), "Sorry, this user has been locked out.") {
		t.Errorf("expected locked out banner, got %s", body)
	}
	if deps.Sessions.Len() != 0 {
		t.Error("locked out user should not get a session")
	}
}

func TestStartServer_GracefulShutdown(t *testing.T) {
	// GIVEN
	deps := createTestDeps("0")

	// WHEN
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()

	time.Sleep(50 * time.Millisecond)
	_, status := httpGet(t, fmt.Sprintf("http://localhost:%d/", port))
	if status != http.StatusOK {
		t.Fatal("Server not responding")
	}

	// THEN
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		t.Errorf("Failed to shutdown server gracefully: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	_, getErr := http.Get(fmt.Sprintf("http://localhost:%d/", port))
	if getErr == nil {
		t.Error("Expected error after shutdown, server still responding")
	}
}

func TestWaitForShutdown_Signals(t *testing.T) {
	for _, sig := range []os.Signal{syscall.SIGTERM, syscall.SIGINT} {
		t.Run(sig.String(), func(t *testing.T) {
			// GIVEN
			listener, server, _ := startTestServer(t, createTestDeps("0"))
			defer listener.Close()

			shutdown := make(chan os.Signal, 1)

			// WHEN
			errCh := make(chan error, 1)
			go func() {
				errCh <- WaitForShutdown(server, zap.NewNop(), shutdown)
			}()

			time.Sleep(50 * time.Millisecond)
			shutdown <- sig

			// THEN
			select {
			case err := <-errCh:
				if err != nil {
					t.Errorf("Expected nil error, got: %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("WaitForShutdown did not complete")
			}
		})
	}
}

func TestWaitForShutdown_WithActiveRequests(t *testing.T) {
	// GIVEN
	slowHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte("done"))
	})

	deps := createTestDeps("0")
	deps.InventoryHandler = slowHandler

	listener, server, port := startTestServer(t, deps)
	defer listener.Close()

	time.Sleep(50 * time.Millisecond)
	requestComplete := make(chan bool, 1)
	go func() {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d/inventory.html", port))
		if err == nil {
			resp.Body.Close()
		}
		requestComplete <- true
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := make(chan os.Signal, 1)

	// WHEN
	errCh := make(chan error, 1)
	go func() {
		errCh <- WaitForShutdown(server, zap.NewNop(), shutdown)
	}()

	shutdown <- syscall.SIGTERM

	// THEN
	select {
	case <-requestComplete:
	case <-time.After(2 * time.Second):
		t.Error("Request did not complete in time")
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Expected nil error, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WaitForShutdown did not complete")
	}
}

func TestWaitForShutdownWithTimeout_ForcesClose(t *testing.T) {
	// GIVEN
	release := make(chan struct{})
	blockingHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	deps := createTestDeps("0")
	deps.CartHandler = blockingHandler

	listener, server, port := startTestServer(t, deps)
	defer listener.Close()

	time.Sleep(50 * time.Millisecond)
	go func() {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d/cart.html", port))
		if err == nil {
			resp.Body.Close()
		}
	}()
	time.Sleep(50 * time.Millisecond)

	shutdown := make(chan os.Signal, 1)
	shutdown <- syscall.SIGTERM

	// WHEN
	start := time.Now()
	err := WaitForShutdownWithTimeout(server, zap.NewNop(), shutdown, 100*time.Millisecond)

	// THEN
	if err != nil {
		t.Errorf("Expected forced close to succeed, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Shutdown took %v, expected the timeout to cut it short", elapsed)
	}
}

func TestRunServe_StartupFailure(t *testing.T) {
	// GIVEN
	deps := createTestDeps("99999")

	// WHEN
	err := RunServe(deps)

	// THEN
	if err == nil {
		t.Error("Expected error for invalid port, got nil")
	}
}

// BenchmarkStartServer benchmarks server startup
func BenchmarkStartServer(b *testing.B) {
	deps := createTestDeps("0")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		listener, server, err := StartServer(deps)
		if err != nil {
			b.Fatalf("Failed to start server: %v", err)
		}
		server.Close()
		listener.Close()
	}
}
