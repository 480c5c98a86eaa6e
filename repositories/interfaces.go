package repositories

import (
	"context"
	"errors"

	"github.com/cardoctor/server/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned by single-document lookups that match nothing
var ErrNotFound = errors.New("document not found")

// ServiceRepository reads the service catalog
type ServiceRepository interface {
	// Find returns every service document
	Find(ctx context.Context) ([]models.Document, error)

	// FindOne returns one service limited to the projected fields ("_id" is always included).
	// An empty projection returns the whole document.
	FindOne(ctx context.Context, id uuid.UUID, projection []string) (models.Document, error)
}

// BookingRepository handles booking documents
type BookingRepository interface {
	// Find returns bookings matching the filter
	Find(ctx context.Context, filter models.BookingFilter) ([]models.Document, error)

	// InsertOne stores a new booking
	InsertOne(ctx context.Context, booking *models.Booking) (*models.InsertResult, error)

	// UpdateOne sets the given fields on the first booking matching the filter
	UpdateOne(ctx context.Context, filter models.BookingFilter, set models.Document) (*models.UpdateResult, error)

	// DeleteOne removes the first booking matching the filter
	DeleteOne(ctx context.Context, filter models.BookingFilter) (*models.DeleteResult, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Services ServiceRepository
	Bookings BookingRepository
}
