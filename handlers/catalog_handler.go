package handlers

import (
	"net/http"

	"github.com/cardoctor/server/services"
	"github.com/cardoctor/server/services/catalog"
	"github.com/cardoctor/server/utils"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler serves the public service catalog
type CatalogHandler struct {
	catalog *catalog.Service
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog *catalog.Service, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// HandleList handles GET /services
func (h *CatalogHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.catalog.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, docs)
}

// HandleCheckout handles GET /services/{id}
func (h *CatalogHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		HandleServiceError(w, services.ErrInvalidID, h.logger)
		return
	}

	doc, err := h.catalog.Checkout(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	_ = utils.WriteOK(w, doc)
}
