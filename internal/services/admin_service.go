package services

import (
	"context"
	"fmt"

	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
)

// AdminService resets the environment between runs
type AdminService struct {
	sim    *Simulator
	logger *logger.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(sim *Simulator, log *logger.Logger) *AdminService {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminService{sim: sim, logger: log}
}

// Reset removes every alert and scan
func (s *AdminService) Reset(ctx context.Context) error {
	err := s.sim.Run(ctx, func(ctx context.Context) error {
		if err := s.sim.alerts.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset alerts: %w", err)
		}
		if err := s.sim.scans.Reset(ctx); err != nil {
			return fmt.Errorf("failed to reset scans: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Environment reset failed")
		return err
	}

	s.logger.Info("Environment reset")
	return nil
}
