package models

import (
	"time"

	"github.com/google/uuid"
)

// Booking is a customer's reservation of a service. Email identifies the owner.
type Booking struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Status    string    `json:"status" db:"status"`
	Doc       Document  `json:"doc" db:"doc"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewBooking creates a Booking from a client document.
// Any client supplied "_id" is discarded.
func NewBooking(doc Document) *Booking {
	now := time.Now().UTC()
	doc = doc.WithoutID()
	return &Booking{
		ID:        uuid.New(),
		Email:     doc.String(EmailField),
		Status:    doc.String(StatusField),
		Doc:       doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// BookingFilter selects bookings. Zero fields do not constrain the query.
type BookingFilter struct {
	ID    *uuid.UUID
	Email string
}

// StatusUpdate is the body of a booking status change
type StatusUpdate struct {
	Status string `json:"status" validate:"required,max=64"`
}

// InsertResult reports the outcome of an insert
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult reports the outcome of a single-document update
type UpdateResult struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeleteResult reports the outcome of a single-document delete
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
