package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/gizmogrid/internal/api"
	"github.com/alextreichler/gizmogrid/internal/config"
	"github.com/alextreichler/gizmogrid/internal/handlers"
	"github.com/alextreichler/gizmogrid/internal/imageproxy"
	"github.com/alextreichler/gizmogrid/internal/session"
	"github.com/alextreichler/gizmogrid/web"
)

func main() {
	handlerOpts := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
	slog.SetDefault(logger)

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. API client
	client := api.NewClient(cfg.APIURL, cfg.APITimeout)
	slog.Info("Using API", "url", client.BaseURL, "timeout", cfg.APITimeout)

	// 3. Session Setup
	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	sessionStore.Options.MaxAge = int(cfg.SessionTTL.Seconds())
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	// Per-browser user and cart, dropped after SESSION_TTL of inactivity.
	registry := session.NewRegistry(cfg.SessionTTL, func(id string, h *session.Holder) {
		h.Subscribe(func(s session.Snapshot) {
			slog.Debug("Session state changed",
				"session", id,
				"logged_in", s.User.LoggedIn(),
				"cart_items", len(s.Cart),
			)
		})
	})
	defer registry.Close()

	// 4. Routes
	images := imageproxy.New(cfg.SessionKey, cfg.ImageMaxWidth, cfg.APITimeout)
	router, err := handlers.NewRouter(handlers.Options{
		API:             client,
		SessionStore:    sessionStore,
		Registry:        registry,
		Images:          images,
		LoginRateWindow: cfg.LoginRateWindow,
		Assets:          web.FS,
	})
	if err != nil {
		slog.Error("Failed to build router", "error", err)
		os.Exit(1)
	}

	// 5. Middleware Setup
	CSRF := csrf.Protect(
		cfg.CSRFKey,
		csrf.Secure(cfg.CookieSecure),
		csrf.Path("/"),
		csrf.TrustedOrigins([]string{"localhost:" + cfg.Port, "127.0.0.1:" + cfg.Port, "localhost", "127.0.0.1"}),
	)

	// Chain: RequestID -> RealIP -> Logger -> Security Headers -> (Plaintext) -> CSRF -> Router
	var handler http.Handler = CSRF(router)
	if !cfg.CookieSecure {
		handler = handlers.PlaintextMiddleware(handler)
	}
	handler = handlers.LoggingMiddleware(handlers.SecurityHeadersMiddleware(handler))
	handler = middleware.RequestID(middleware.RealIP(handler))

	// 6. Start Server with Graceful Shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}
