package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cardoctor/server/models"
	"github.com/cardoctor/server/repositories"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// ServiceRepository implements the repositories.ServiceRepository interface
type ServiceRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewServiceRepository creates a new service repository
func NewServiceRepository(db *DB, logger *zap.Logger) repositories.ServiceRepository {
	return &ServiceRepository{
		db:     db,
		logger: logger,
	}
}

// Find returns the whole catalog in insertion order
func (r *ServiceRepository) Find(ctx context.Context) ([]models.Document, error) {
	query := `
		SELECT id, doc
		FROM services
		ORDER BY created_at, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// FindOne returns a single service restricted to the projected keys
func (r *ServiceRepository) FindOne(ctx context.Context, id uuid.UUID, projection []string) (models.Document, error) {
	var (
		query string
		args  []interface{}
	)

	if len(projection) == 0 {
		query = `SELECT id, doc FROM services WHERE id = $1`
		args = []interface{}{id}
	} else {
		query = `
			SELECT id, COALESCE(
				(SELECT jsonb_object_agg(key, value) FROM jsonb_each(doc) WHERE key = ANY($2)),
				'{}'::jsonb
			)
			FROM services
			WHERE id = $1
		`
		args = []interface{}{id, pq.Array(projection)}
	}

	var (
		gotID uuid.UUID
		raw   []byte
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&gotID, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	return decodeDocument(gotID, raw)
}
