package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cardoctor/server/utils"
	"go.uber.org/zap"
)

// Pinger is a dependency the readiness probe can check
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp,omitempty"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	checks map[string]Pinger
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. Nil pingers are skipped.
func NewHealthHandler(checks map[string]Pinger, logger *zap.Logger) *HealthHandler {
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthHandler{
		checks: active,
		logger: logger,
	}
}

// HandleHealth handles GET /healthz.
// It only reports that the process is serving.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, HealthResponse{Status: "ok"})
}

// HandleReadiness handles GET /readyz
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.checks))
	allHealthy := true

	for name, p := range h.checks {
		if err := p.HealthCheck(ctx); err != nil {
			h.logger.Warn("dependency health check failed",
				zap.String("dependency", name),
				zap.Error(err))
			checks[name] = "unhealthy"
			allHealthy = false
			continue
		}
		checks[name] = "healthy"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if err := utils.WriteJSON(w, httpStatus, response); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}

// HandleRoot answers GET / so uptime checks see the service is up
func HandleRoot(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteText(w, http.StatusOK, "Car Doctor is running...")
}
