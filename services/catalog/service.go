package catalog

import (
	"context"
	"errors"

	"github.com/cardoctor/server/models"
	"github.com/cardoctor/server/repositories"
	"github.com/cardoctor/server/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service exposes the read-only service catalog
type Service struct {
	repo   repositories.ServiceRepository
	logger *zap.Logger
}

// NewService creates a catalog service
func NewService(repo repositories.ServiceRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns every service document
func (s *Service) List(ctx context.Context) ([]models.Document, error) {
	docs, err := s.repo.Find(ctx)
	if err != nil {
		return nil, services.WrapInternal("failed to list services", err)
	}
	return docs, nil
}

// Checkout returns the fields of one service the checkout page renders
func (s *Service) Checkout(ctx context.Context, id uuid.UUID) (models.Document, error) {
	doc, err := s.repo.FindOne(ctx, id, models.CheckoutProjection)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrServiceNotFound
		}
		return nil, services.WrapInternal("failed to get service", err)
	}
	return doc, nil
}
