package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cardoctor/server/app"
	"github.com/cardoctor/server/config"
	"github.com/cardoctor/server/internal/observability"
	"github.com/cardoctor/server/routes"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

// initLogger builds the process logger from the observability config
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	deps, err := app.NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}

	server := newServer(cfg, routes.SetupRoutes(deps))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("car doctor listening",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case sig := <-stop:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	case err := <-serveErr:
		_ = deps.Close(ctx)
		return fmt.Errorf("server listen error: %w", err)
	}

	return shutdown(server, deps, cfg, logger)
}

// newServer builds the HTTP server from config
func newServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  2 * cfg.Server.ReadTimeout,
	}
}

// shutdown drains in-flight requests, then releases the pool.
// Dependencies are closed even when draining times out.
func shutdown(server *http.Server, deps *app.Dependencies, cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	shutdownErr := server.Shutdown(ctx)
	if shutdownErr != nil {
		logger.Error("server shutdown failed", zap.Error(shutdownErr))
	}

	if err := deps.Close(ctx); err != nil {
		return errors.Join(shutdownErr, err)
	}
	if shutdownErr != nil {
		return fmt.Errorf("server shutdown failed: %w", shutdownErr)
	}

	logger.Info("server stopped gracefully")
	return nil
}
