package postgres

import (
	"github.com/cardoctor/server/config"
	"github.com/cardoctor/server/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory owns the pool and hands out repositories bound to it
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory opens the pool and applies migrations when enabled
func NewRepositoryFactory(cfg config.DatabaseConfig, logger *zap.Logger) (*RepositoryFactory, error) {
	if cfg.RunMigrations {
		if err := RunMigrations(cfg.MigrationURL()); err != nil {
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	db, err := NewDB(cfg, logger)
	if err != nil {
		return nil, err
	}

	return NewRepositoryFactoryFromDB(db, logger), nil
}

// NewRepositoryFactoryFromDB builds a factory over an existing pool
func NewRepositoryFactoryFromDB(db *DB, logger *zap.Logger) *RepositoryFactory {
	return &RepositoryFactory{db: db, logger: logger}
}

// NewRepositories creates all repository instances
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Services: NewServiceRepository(f.db, f.logger),
		Bookings: NewBookingRepository(f.db, f.logger),
	}
}

// GetDB returns the database connection
func (f *RepositoryFactory) GetDB() *DB {
	return f.db
}

// Close closes the database connection
func (f *RepositoryFactory) Close() error {
	return f.db.Close()
}
