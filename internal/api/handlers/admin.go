package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/alertprobe/internal/api/dto"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/utils"
	"github.com/pratik-mahalle/alertprobe/internal/services"
)

// AdminHandler serves environment administration endpoints
type AdminHandler struct {
	service *services.AdminService
	logger  *logger.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service *services.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{service: service, logger: log}
}

// Reset clears all alerts and scans
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		writeServiceError(w, h.logger, err, "Failed to reset environment")
		return
	}
	utils.WriteJSON(w, http.StatusOK, dto.ResetResponse{
		Success: true,
		Message: "Environment reset",
	})
}
