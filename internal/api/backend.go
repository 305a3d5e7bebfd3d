// Package api assembles the mock backend: repositories, services, handlers
// and the chi router.
package api

import (
	"net/http"

	"github.com/pratik-mahalle/alertprobe/internal/api/handlers"
	"github.com/pratik-mahalle/alertprobe/internal/api/router"
	"github.com/pratik-mahalle/alertprobe/internal/config"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/validator"
	"github.com/pratik-mahalle/alertprobe/internal/repository/memory"
	"github.com/pratik-mahalle/alertprobe/internal/services"
)

// Backend is a wired mock backend
type Backend struct {
	Handler   http.Handler
	Simulator *services.Simulator
	Alerts    *services.AlertService
	Scans     *services.ScanService
	Admin     *services.AdminService
}

// NewBackend wires an in-memory backend. A nil clock uses the wall clock.
func NewBackend(cfg *config.Config, clock services.Clock, log *logger.Logger) (*Backend, error) {
	if log == nil {
		log = logger.Nop()
	}

	policies := memory.NewDefaultPolicyRepository()
	sim := services.NewSimulator(services.SimulationConfig{
		ScanDuration:        cfg.Simulation.ScanDuration,
		RemediationDelay:    cfg.Simulation.RemediationDelay,
		AutoRemediationStep: cfg.Simulation.AutoRemediationStep,
		IdempotentRescan:    cfg.Simulation.IdempotentRescan,
	}, clock, memory.NewAlertRepository(), memory.NewScanRepository(), policies, log)

	authSvc, err := services.NewAuthService(services.AuthConfig{
		Username:    cfg.Auth.AdminUsername,
		Password:    cfg.Auth.AdminPassword,
		JWTSecret:   cfg.Auth.JWTSecret,
		TokenExpiry: cfg.Auth.AccessTokenExpiry,
		BCryptCost:  cfg.Auth.BCryptCost,
	}, log)
	if err != nil {
		return nil, err
	}

	alertSvc := services.NewAlertService(sim, log)
	scanSvc := services.NewScanService(sim, log)
	adminSvc := services.NewAdminService(sim, log)
	policySvc := services.NewPolicyService(policies)
	val := validator.New()

	h := &router.Handlers{
		Health: handlers.NewHealthHandler(nil),
		Auth:   handlers.NewAuthHandler(authSvc, log, val),
		Alert:  handlers.NewAlertHandler(alertSvc, authSvc, log, val),
		Scan:   handlers.NewScanHandler(scanSvc, log),
		Policy: handlers.NewPolicyHandler(policySvc, log),
		Admin:  handlers.NewAdminHandler(adminSvc, log),
	}

	return &Backend{
		Handler:   router.New(cfg, log, h),
		Simulator: sim,
		Alerts:    alertSvc,
		Scans:     scanSvc,
		Admin:     adminSvc,
	}, nil
}
