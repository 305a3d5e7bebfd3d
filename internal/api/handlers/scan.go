package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/alertprobe/internal/domain/scan"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/utils"
)

// ScanHandler serves the scan endpoints
type ScanHandler struct {
	service scan.Service
	logger  *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(service scan.Service, log *logger.Logger) *ScanHandler {
	return &ScanHandler{service: service, logger: log}
}

// Start begins a new scan
func (h *ScanHandler) Start(w http.ResponseWriter, r *http.Request) {
	sc, err := h.service.Start(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to start scan")
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, sc)
}

// List returns every scan
func (h *ScanHandler) List(w http.ResponseWriter, r *http.Request) {
	scans, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list scans")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, scans)
}

// Get returns a scan by ID
func (h *ScanHandler) Get(w http.ResponseWriter, r *http.Request) {
	sc, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get scan")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, sc)
}

// Status reports the scanner state
func (h *ScanHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Status(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get scan status")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, st)
}
