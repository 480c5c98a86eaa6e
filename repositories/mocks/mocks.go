// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/cardoctor/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ServiceRepository is a mock of repositories.ServiceRepository
type ServiceRepository struct {
	mock.Mock
}

func (m *ServiceRepository) Find(ctx context.Context) ([]models.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document), args.Error(1)
}

func (m *ServiceRepository) FindOne(ctx context.Context, id uuid.UUID, projection []string) (models.Document, error) {
	args := m.Called(ctx, id, projection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Document), args.Error(1)
}

// BookingRepository is a mock of repositories.BookingRepository
type BookingRepository struct {
	mock.Mock
}

func (m *BookingRepository) Find(ctx context.Context, filter models.BookingFilter) ([]models.Document, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Document), args.Error(1)
}

func (m *BookingRepository) InsertOne(ctx context.Context, booking *models.Booking) (*models.InsertResult, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InsertResult), args.Error(1)
}

func (m *BookingRepository) UpdateOne(ctx context.Context, filter models.BookingFilter, set models.Document) (*models.UpdateResult, error) {
	args := m.Called(ctx, filter, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UpdateResult), args.Error(1)
}

func (m *BookingRepository) DeleteOne(ctx context.Context, filter models.BookingFilter) (*models.DeleteResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeleteResult), args.Error(1)
}
