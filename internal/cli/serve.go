package cli

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/swaglabs/swagcheck/internal/config"
	"github.com/swaglabs/swagcheck/internal/handlers"
	"go.uber.org/zap"
)

// ServerDependencies holds all dependencies needed by the stub storefront
type ServerDependencies struct {
	StubConfig       config.StubConfig
	Log              *zap.Logger
	Sessions         *handlers.SessionStore
	LoginHandler     http.Handler
	InventoryHandler http.Handler
	CartHandler      http.Handler
	CheckoutHandler  http.Handler
	OverviewHandler  http.Handler
	CompleteHandler  http.Handler
}

// NewServerDependencies wires the storefront handlers around one session store
func NewServerDependencies(stubConfig config.StubConfig, log *zap.Logger) (ServerDependencies, error) {
	tmpl, err := handlers.ParseTemplates()
	if err != nil {
		return ServerDependencies{}, err
	}
	sessions := handlers.NewSessionStore()

	return ServerDependencies{
		StubConfig:       stubConfig,
		Log:              log,
		Sessions:         sessions,
		LoginHandler:     handlers.NewLoginHandler(tmpl, sessions, log, stubConfig.GlitchDelay),
		InventoryHandler: handlers.NewInventoryHandler(tmpl, sessions, log, stubConfig.GlitchDelay),
		CartHandler:      handlers.NewCartHandler(tmpl, sessions, log),
		CheckoutHandler:  handlers.NewCheckoutHandler(tmpl, sessions, log),
		OverviewHandler:  handlers.NewOverviewHandler(tmpl, sessions, log),
		CompleteHandler:  handlers.NewCompleteHandler(tmpl, sessions, log),
	}, nil
}

// RunServe starts the stub storefront and blocks until a shutdown signal
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, deps.logger(), nil)
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	log := deps.logger()

	mux := http.NewServeMux()
	mux.Handle("/", deps.LoginHandler)
	mux.Handle("/inventory.html", deps.InventoryHandler)
	mux.Handle("/cart.html", deps.CartHandler)
	mux.Handle("/checkout-step-one.html", deps.CheckoutHandler)
	mux.Handle("/checkout-step-two.html", deps.OverviewHandler)
	mux.Handle("/checkout-complete.html", deps.CompleteHandler)

	addr := fmt.Sprintf(":%s", deps.StubConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Stub storefront listening", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("Server error", zap.Error(err))
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server.
// If shutdown is nil, a channel is created and registered with signal.Notify.
func WaitForShutdown(server *http.Server, log *zap.Logger, shutdown chan os.Signal) error {
	return WaitForShutdownWithTimeout(server, log, shutdown, 30*time.Second)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout
func WaitForShutdownWithTimeout(server *http.Server, log *zap.Logger, shutdown chan os.Signal, shutdownTimeout time.Duration) error {
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	log.Info("Received signal, shutting down server", zap.Stringer("signal", sig))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// http.Server.Close does not surface listener close errors, so this
		// only fails if the server was never usable
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	log.Info("Server stopped")
	return nil
}

func (d ServerDependencies) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
