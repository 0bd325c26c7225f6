// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/blinko-mcp/internal/api"
	"github.com/starford/blinko-mcp/internal/blinko"
	"github.com/starford/blinko-mcp/internal/credentials"
	"github.com/starford/blinko-mcp/internal/mcpserver"
	pkgconfig "github.com/starford/blinko-mcp/pkg/config"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// stdout carries the stdio protocol, so logs always go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("blinko_domain", cfg.Blinko.Domain),
		slog.String("transport", cfg.App.Transport),
		slog.String("log_level", cfg.App.LogLevel.String()))

	loc, err := cfg.App.Location()
	if err != nil {
		return err
	}

	store := credentials.NewStore(cfg.Blinko.Credentials())
	srv := mcpserver.New(store,
		mcpserver.WithLocation(loc),
		mcpserver.WithLogger(logger))

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	if app.configPath != "" {
		if _, statErr := os.Stat(app.configPath); statErr == nil {
			g.Go(func() error {
				if err := credentials.Watch(gCtx, app.configPath, store, app.reloadCredentials, logger); err != nil {
					logger.Warn("config watcher unavailable", slog.String("error", err.Error()))
				}
				return nil
			})
		}
	}

	switch cfg.App.Transport {
	case TransportHTTP:
		runHTTP(gCtx, g, cfg, srv, store, logger)
	default:
		runStdio(gCtx, g, srv, logger, stop)
	}

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// reloadCredentials rebuilds the configuration from the file and re-applies
// the command line overrides.
func (a *application) reloadCredentials() (blinko.Credentials, error) {
	cfg := NewDefaultConfig()
	if _, err := pkgconfig.DecodeOptional(a.configPath, cfg); err != nil {
		return blinko.Credentials{}, err
	}
	a.overrides.Apply(cfg)
	if err := cfg.Blinko.Validate(); err != nil {
		return blinko.Credentials{}, fmt.Errorf("blinko: %w", err)
	}
	return cfg.Blinko.Credentials(), nil
}

func runStdio(ctx context.Context, g *errgroup.Group, srv *mcpserver.Server, logger *slog.Logger, stop context.CancelFunc) {
	g.Go(func() error {
		// The session ends when the client closes stdin; stop the watcher too.
		defer stop()
		logger.Info("Serving MCP over stdio")
		err := srv.ServeStdio(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio server error: %w", err)
		}
		return nil
	})
}

func runHTTP(ctx context.Context, g *errgroup.Group, cfg *Config, srv *mcpserver.Server, store *credentials.Store, logger *slog.Logger) {
	router := api.NewRouter(srv.HTTPHandler(),
		func() bool { return store.Credentials().Complete() },
		cfg.Auth.AuthEnabled(), cfg.Auth.Token, logger)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server",
			slog.String("address", cfg.App.HTTP.Address()),
			slog.String("mcp_path", api.MCPPath))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})
}
