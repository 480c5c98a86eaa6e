package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_String(t *testing.T) {
	doc := Document{"email": "a@x.com", "price": 20.5}

	assert.Equal(t, "a@x.com", doc.String(EmailField))
	assert.Equal(t, "", doc.String("price"))
	assert.Equal(t, "", doc.String("missing"))
}

func TestDocument_WithID(t *testing.T) {
	id := uuid.New()
	doc := Document{"title": "Engine Repair"}

	withID := doc.WithID(id)

	assert.Equal(t, id.String(), withID[IDField])
	assert.NotContains(t, doc, IDField, "original must not be mutated")
}

func TestNewBooking(t *testing.T) {
	doc := Document{
		"_id":          "client-chosen",
		"email":        "a@x.com",
		"customerName": "Ann",
		"service":      "Oil Change",
		"price":        "40.00",
		"date":         "2026-10-20",
	}

	booking := NewBooking(doc)

	assert.NotEqual(t, uuid.Nil, booking.ID)
	assert.Equal(t, "a@x.com", booking.Email)
	assert.Empty(t, booking.Status)
	assert.NotContains(t, booking.Doc, IDField)
	assert.Equal(t, "Ann", booking.Doc["customerName"])
	assert.False(t, booking.CreatedAt.IsZero())
	assert.Equal(t, booking.CreatedAt, booking.UpdatedAt)
}

func TestResults_JSONShape(t *testing.T) {
	data, err := json.Marshal(UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"acknowledged":true,"matchedCount":1,"modifiedCount":1}`, string(data))

	data, err = json.Marshal(InsertResult{Acknowledged: true, InsertedID: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"acknowledged":true,"insertedId":"abc"}`, string(data))
}
