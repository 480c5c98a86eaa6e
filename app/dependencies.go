package app

import (
	"context"
	"fmt"

	"github.com/cardoctor/server/auth"
	"github.com/cardoctor/server/config"
	"github.com/cardoctor/server/handlers"
	"github.com/cardoctor/server/internal/observability"
	"github.com/cardoctor/server/middleware"
	"github.com/cardoctor/server/repositories"
	"github.com/cardoctor/server/repositories/postgres"
	"github.com/cardoctor/server/repositories/redis"
	"github.com/cardoctor/server/services/booking"
	"github.com/cardoctor/server/services/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Redis  *redis.Client
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Services repositories.ServiceRepository
	Bookings repositories.BookingRepository

	// Metrics. Registry is nil when metrics are disabled.
	Registry *prometheus.Registry
	Metrics  observability.Metrics

	// Auth
	Tokens         *auth.TokenService
	AuthMiddleware *middleware.AuthMiddleware
	AuthHandler    *auth.Handler
	LoginLimiter   *middleware.RateLimiter

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	CatalogHandler *handlers.CatalogHandler
	BookingHandler *handlers.BookingHandler
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize PostgreSQL
	if err := deps.initDatabase(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize the optional catalog cache
	if err := deps.initRedis(cfg); err != nil {
		_ = deps.RepoFactory.Close()
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	deps.wire()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesWithDB wires the application over an already open pool.
// No migrations run and no cache is attached.
func NewDependenciesWithDB(cfg *config.Config, db *postgres.DB, logger *zap.Logger) *Dependencies {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		DB:          db,
		RepoFactory: postgres.NewRepositoryFactoryFromDB(db, logger),
	}
	deps.wire()
	return deps
}

// initDatabase opens the pool, which is pinged by postgres.NewDB
func (d *Dependencies) initDatabase(cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg.Database, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()
	return nil
}

func (d *Dependencies) initRedis(cfg *config.Config) error {
	if !cfg.Redis.CacheEnabled() {
		d.Logger.Info("redis not configured, catalog cache disabled")
		return nil
	}

	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return err
	}
	d.Redis = client

	d.Logger.Info("redis connection established",
		zap.String("addr", cfg.Redis.Addr),
		zap.Duration("catalog_ttl", cfg.Redis.CatalogTTL))
	return nil
}

// wire builds everything above the pool
func (d *Dependencies) wire() {
	cfg := d.Config

	d.initMetrics(cfg)

	repos := d.RepoFactory.NewRepositories()
	d.Services = repos.Services
	d.Bookings = repos.Bookings
	if d.Redis != nil {
		d.Services = redis.NewServiceCache(d.Services, d.Redis.Client, cfg.Redis.CatalogTTL, d.Logger)
	}

	d.Tokens = auth.NewTokenService(cfg.Auth.Secret, auth.WithIssuer(cfg.Auth.Issuer))
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.Tokens, cfg.Auth.CookieName, d.Metrics, d.Logger)
	d.AuthHandler = auth.NewHandler(cfg.Auth, d.Tokens, d.Logger)
	d.LoginLimiter = middleware.NewRateLimiter(
		middleware.LoginRateLimiterConfig(cfg.RateLimit.LoginPerMinute, cfg.RateLimit.LoginBurst),
		d.Metrics, d.Logger)

	checks := map[string]handlers.Pinger{"database": d.DB}
	if d.Redis != nil {
		checks["redis"] = d.Redis
	}
	d.HealthHandler = handlers.NewHealthHandler(checks, d.Logger)
	d.CatalogHandler = handlers.NewCatalogHandler(catalog.NewService(d.Services, d.Logger), d.Logger)
	d.BookingHandler = handlers.NewBookingHandler(booking.NewService(d.Bookings, d.Logger), d.Logger)
}

func (d *Dependencies) initMetrics(cfg *config.Config) {
	if !cfg.Observability.MetricsEnabled {
		d.Metrics = observability.NopMetrics{}
		return
	}
	d.Registry = prometheus.NewRegistry()
	d.Metrics = observability.NewCollector(d.Registry)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.LoginLimiter != nil {
		d.LoginLimiter.Stop()
	}

	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		} else {
			d.Logger.Info("redis connection closed")
		}
	}

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
