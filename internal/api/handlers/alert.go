package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/alertprobe/internal/api/dto"
	"github.com/pratik-mahalle/alertprobe/internal/api/middleware"
	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/utils"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/validator"
	"github.com/pratik-mahalle/alertprobe/internal/services"
)

// AlertHandler serves the alert endpoints
type AlertHandler struct {
	service   alert.Service
	users     *services.AuthService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(service alert.Service, users *services.AuthService, log *logger.Logger, val *validator.Validator) *AlertHandler {
	return &AlertHandler{service: service, users: users, logger: log, validator: val}
}

// List returns alerts, optionally filtered by status and runId
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if appErr := h.validator.CheckStatusFilter(status); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	filter := alert.Filter{
		Status: alert.Status(status),
		RunID:  r.URL.Query().Get("runId"),
	}

	alerts, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list alerts")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, alerts)
}

// Get returns a single alert by ID
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get alert")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, a)
}

// Create seeds a new OPEN alert
func (h *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAlertRequest
	if appErr := decodeAndValidate(r, h.validator, &req, false); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	a, err := h.service.Create(r.Context(), req.ToAlert())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to create alert")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, a)
}

// UpdateStatus applies a direct status update
func (h *AlertHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if appErr := decodeAndValidate(r, h.validator, &req, false); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	a, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), alert.Status(req.Status))
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to update alert status")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, a)
}

// Remediate starts remediation of an alert
func (h *AlertHandler) Remediate(w http.ResponseWriter, r *http.Request) {
	var req dto.RemediateRequest
	if appErr := decodeAndValidate(r, h.validator, &req, true); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	a, err := h.service.Remediate(r.Context(), chi.URLParam(r, "id"), req.Note)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to remediate alert")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, a)
}

// AddComment appends a comment authored by the caller
func (h *AlertHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCommentRequest
	if appErr := decodeAndValidate(r, h.validator, &req, false); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	claims, _ := middleware.GetClaims(r)
	user := h.users.Author(claims)

	c, err := h.service.AddComment(r.Context(), chi.URLParam(r, "id"), alert.Author{ID: user.ID, Name: user.DisplayName}, req.Message)
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to add comment")
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, c)
}
