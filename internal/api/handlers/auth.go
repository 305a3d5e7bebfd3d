package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/alertprobe/internal/api/dto"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/utils"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/validator"
	"github.com/pratik-mahalle/alertprobe/internal/services"
)

// AuthHandler handles login
type AuthHandler struct {
	service   *services.AuthService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *services.AuthService, log *logger.Logger, val *validator.Validator) *AuthHandler {
	return &AuthHandler{service: service, logger: log, validator: val}
}

// Login exchanges username and password for an access token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if appErr := decodeAndValidate(r, h.validator, &req, false); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	res, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err, "Login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    res.Token,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	utils.WriteSuccess(w, http.StatusOK, res)
}
