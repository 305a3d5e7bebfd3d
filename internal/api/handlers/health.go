package handlers

import (
	"net/http"
	"time"

	"github.com/pratik-mahalle/alertprobe/internal/api/dto"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/utils"
)

// ServiceName is reported by the health endpoint
const ServiceName = "alertprobe-mockapi"

// HealthHandler handles health check requests
type HealthHandler struct {
	now func() time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthHandler{now: now}
}

// Health reports that the backend is up
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: h.now().UTC(),
		Service:   ServiceName,
	})
}
