package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/alertprobe/internal/domain/policy"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/utils"
)

// PolicyHandler serves the policy endpoints
type PolicyHandler struct {
	service policy.Service
	logger  *logger.Logger
}

// NewPolicyHandler creates a new policy handler
func NewPolicyHandler(service policy.Service, log *logger.Logger) *PolicyHandler {
	return &PolicyHandler{service: service, logger: log}
}

// List returns every policy
func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	policies, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to list policies")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, policies)
}

// Get returns a policy by ID
func (h *PolicyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get policy")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// Config returns the policy configuration options
func (h *PolicyHandler) Config(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Config(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "Failed to get policy configuration")
		return
	}
	utils.WriteSuccess(w, http.StatusOK, cfg)
}
