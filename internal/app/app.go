// Package app assembles the service from configuration: storage, tracing,
// the routed HTTP handler and the server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"TODOAPP_BACK-END/internal/auth"
	"TODOAPP_BACK-END/internal/config"
	"TODOAPP_BACK-END/internal/handlers"
	"TODOAPP_BACK-END/internal/logging"
	"TODOAPP_BACK-END/internal/middleware"
	"TODOAPP_BACK-END/internal/routes"
	"TODOAPP_BACK-END/internal/services"
	"TODOAPP_BACK-END/internal/store"
	"TODOAPP_BACK-END/internal/telemetry"
)

const startupTimeout = 20 * time.Second

// NewHandler wires services and handlers over st and wraps the mux with
// request logging, CORS and tracing.
func NewHandler(cfg *config.Config, st store.Store, log logging.Logger) http.Handler {
	tokens := auth.NewTokenService(cfg.Auth.Secret)
	users := services.NewUserService(st.Users(), tokens, cfg.Auth.BcryptCost, log)
	todos := services.NewTodoService(st.Todos(), log)

	mux := http.NewServeMux()
	routes.SetupRoutes(mux, routes.Handlers{
		Auth:           handlers.NewAuthHandler(users, cfg.Auth.Header, log),
		Todos:          handlers.NewTodoHandler(todos, log),
		Health:         handlers.NewHealthHandler(st),
		GoogleAuth:     handlers.NewGoogleAuthHandler(users, cfg.GoogleOAuth, cfg.Auth.Header, log),
		RequireAuth:    middleware.RequireAuth(auth.NewGate(tokens, st.Users()), cfg.Auth.Header, log),
		SwaggerEnabled: cfg.Swagger.Enabled,
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{cfg.Auth.Header, middleware.RequestIDHeader},
		AllowCredentials: cfg.CORS.AllowCredentials,
	})

	h := middleware.RequestLogger(log.With("module", "http"))(mux)
	return otelhttp.NewHandler(c.Handler(h), "todoapp")
}

// NewServer applies the configured port and timeouts to h.
func NewServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           h,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}

// Run starts tracing, storage and the HTTP server, and blocks until ctx is
// cancelled or the server fails. Shutdown drains in-flight requests within
// cfg.Server.ShutdownTimeout.
func Run(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	openCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	st, err := OpenStore(openCtx, cfg, log)
	cancel()
	if err != nil {
		_ = shutdownTracing(context.Background())
		return err
	}

	srv := NewServer(cfg, NewHandler(cfg, st, log))

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "HTTP server listening", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info(context.Background(), "shutting down server")
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown", "error", err)
	}
	if err := st.Close(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "close storage", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "flush traces", "error", err)
	}

	if serveErr != nil {
		return fmt.Errorf("listen: %w", serveErr)
	}
	log.Info(shutdownCtx, "server exited")
	return nil
}
