package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cardoctor/server/models"
	"github.com/cardoctor/server/repositories"
	"go.uber.org/zap"
)

var errEmptyFilter = errors.New("refusing to modify bookings without a filter")

// BookingRepository implements the repositories.BookingRepository interface
type BookingRepository struct {
	db     *DB
	logger *zap.Logger
	now    func() time.Time
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *DB, logger *zap.Logger) repositories.BookingRepository {
	return &BookingRepository{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Find returns bookings matching the filter, oldest first
func (r *BookingRepository) Find(ctx context.Context, filter models.BookingFilter) ([]models.Document, error) {
	where, args := bookingWhere(filter, 1)

	query := `SELECT id, doc FROM bookings` + where + ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// InsertOne stores a new booking
func (r *BookingRepository) InsertOne(ctx context.Context, booking *models.Booking) (*models.InsertResult, error) {
	doc, err := json.Marshal(booking.Doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode booking: %w", err)
	}

	query := `
		INSERT INTO bookings (id, email, status, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(ctx, query,
		booking.ID,
		booking.Email,
		booking.Status,
		doc,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	r.logger.Debug("booking created", zap.String("id", booking.ID.String()))
	return &models.InsertResult{Acknowledged: true, InsertedID: booking.ID.String()}, nil
}

// UpdateOne merges set into the first matching booking. A row whose document
// already holds the same values counts as matched but not modified.
func (r *BookingRepository) UpdateOne(ctx context.Context, filter models.BookingFilter, set models.Document) (*models.UpdateResult, error) {
	where, filterArgs := bookingWhere(filter, 4)
	if where == "" {
		return nil, errEmptyFilter
	}

	patch, err := json.Marshal(set.WithoutID())
	if err != nil {
		return nil, fmt.Errorf("failed to encode booking update: %w", err)
	}

	var status sql.NullString
	if s, ok := set[models.StatusField].(string); ok {
		status = sql.NullString{String: s, Valid: true}
	}

	query := `
		WITH target AS (
			SELECT id FROM bookings` + where + ` LIMIT 1 FOR UPDATE
		), updated AS (
			UPDATE bookings b
			SET doc = b.doc || $1::jsonb,
				status = COALESCE($2, b.status),
				updated_at = $3
			FROM target
			WHERE b.id = target.id AND (b.doc || $1::jsonb) IS DISTINCT FROM b.doc
			RETURNING b.id
		)
		SELECT (SELECT COUNT(*) FROM target), (SELECT COUNT(*) FROM updated)
	`

	args := append([]interface{}{patch, status, r.now()}, filterArgs...)

	result := &models.UpdateResult{Acknowledged: true}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&result.MatchedCount, &result.ModifiedCount)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	return result, nil
}

// DeleteOne removes the first matching booking
func (r *BookingRepository) DeleteOne(ctx context.Context, filter models.BookingFilter) (*models.DeleteResult, error) {
	where, args := bookingWhere(filter, 1)
	if where == "" {
		return nil, errEmptyFilter
	}

	query := `DELETE FROM bookings WHERE id IN (SELECT id FROM bookings` + where + ` LIMIT 1)`

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to delete booking: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return &models.DeleteResult{Acknowledged: true, DeletedCount: deleted}, nil
}

// bookingWhere renders the filter as a WHERE clause with placeholders numbered from start
func bookingWhere(filter models.BookingFilter, start int) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.ID != nil {
		args = append(args, *filter.ID)
		conds = append(conds, fmt.Sprintf("id = $%d", start+len(args)-1))
	}
	if filter.Email != "" {
		args = append(args, filter.Email)
		conds = append(conds, fmt.Sprintf("email = $%d", start+len(args)-1))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
