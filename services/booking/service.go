package booking

import (
	"context"

	"github.com/cardoctor/server/models"
	"github.com/cardoctor/server/repositories"
	"github.com/cardoctor/server/services"
	"github.com/cardoctor/server/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service manages bookings on behalf of an authenticated owner.
// Every operation is scoped to the owner's email.
type Service struct {
	repo   repositories.BookingRepository
	logger *zap.Logger
}

// NewService creates a booking service
func NewService(repo repositories.BookingRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the owner's bookings
func (s *Service) List(ctx context.Context, owner string) ([]models.Document, error) {
	if owner == "" {
		return nil, services.ErrForbidden
	}

	docs, err := s.repo.Find(ctx, models.BookingFilter{Email: owner})
	if err != nil {
		return nil, services.WrapInternal("failed to list bookings", err)
	}
	return docs, nil
}

// Create stores doc as a new booking. The document's email must name the owner.
func (s *Service) Create(ctx context.Context, owner string, doc models.Document) (*models.InsertResult, error) {
	if owner == "" || doc.String(models.EmailField) != owner {
		return nil, services.ErrForbidden
	}

	result, err := s.repo.InsertOne(ctx, models.NewBooking(doc))
	if err != nil {
		return nil, services.WrapInternal("failed to create booking", err)
	}

	s.logger.Info("booking created", zap.String("id", result.InsertedID))
	return result, nil
}

// UpdateStatus sets the status of one of the owner's bookings
func (s *Service) UpdateStatus(ctx context.Context, owner string, id uuid.UUID, update models.StatusUpdate) (*models.UpdateResult, error) {
	if err := utils.ValidateStruct(update); err != nil {
		return nil, services.FromValidation(services.ErrEmptyStatus.Message, err)
	}
	if owner == "" {
		return nil, services.ErrForbidden
	}

	result, err := s.repo.UpdateOne(ctx,
		models.BookingFilter{ID: &id, Email: owner},
		models.Document{models.StatusField: update.Status},
	)
	if err != nil {
		return nil, services.WrapInternal("failed to update booking", err)
	}
	if result.MatchedCount == 0 {
		return nil, services.ErrBookingNotFound
	}

	s.logger.Info("booking status updated",
		zap.String("id", id.String()),
		zap.String("status", update.Status))
	return result, nil
}

// Delete removes one of the owner's bookings
func (s *Service) Delete(ctx context.Context, owner string, id uuid.UUID) (*models.DeleteResult, error) {
	if owner == "" {
		return nil, services.ErrForbidden
	}

	result, err := s.repo.DeleteOne(ctx, models.BookingFilter{ID: &id, Email: owner})
	if err != nil {
		return nil, services.WrapInternal("failed to delete booking", err)
	}
	if result.DeletedCount == 0 {
		return nil, services.ErrBookingNotFound
	}

	s.logger.Info("booking deleted", zap.String("id", id.String()))
	return result, nil
}
