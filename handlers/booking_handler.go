package handlers

import (
	"net/http"

	"github.com/cardoctor/server/middleware"
	"github.com/cardoctor/server/models"
	"github.com/cardoctor/server/services"
	"github.com/cardoctor/server/services/booking"
	"github.com/cardoctor/server/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BookingHandler serves the owner-scoped booking routes. It expects
// RequireAuth to have run so the identity is in the request context.
type BookingHandler struct {
	bookings *booking.Service
	logger   *zap.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookings *booking.Service, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

// HandleList handles GET /bookings?email=
func (h *BookingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	docs, err := h.bookings.List(r.Context(), owner)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, docs)
}

// HandleCreate handles POST /bookings
func (h *BookingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	var doc models.Document
	if err := utils.DecodeJSON(r, &doc); err != nil || doc == nil {
		HandleServiceError(w, services.ErrInvalidInput, h.logger)
		return
	}

	result, err := h.bookings.Create(r.Context(), owner, doc)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, result)
}

// HandleUpdate handles PATCH /bookings/{id}
func (h *BookingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, services.ErrInvalidID, h.logger)
		return
	}

	var update models.StatusUpdate
	if err := utils.DecodeJSON(r, &update); err != nil {
		HandleServiceError(w, services.ErrInvalidInput, h.logger)
		return
	}

	result, err := h.bookings.UpdateStatus(r.Context(), owner, id, update)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, result)
}

// HandleDelete handles DELETE /bookings/{id}
func (h *BookingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.owner(w, r)
	if !ok {
		return
	}

	id, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, services.ErrInvalidID, h.logger)
		return
	}

	result, err := h.bookings.Delete(r.Context(), owner, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, result)
}

// owner returns the authenticated email, answering 401 when the gate did not run
func (h *BookingHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		HandleServiceError(w, services.ErrUnauthorized, h.logger)
		return "", false
	}
	return identity.Email, true
}
