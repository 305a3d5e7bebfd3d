package services

import (
	"context"

	"github.com/pratik-mahalle/alertprobe/internal/domain/scan"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
)

// ScanService implements scan.Service
type ScanService struct {
	sim    *Simulator
	logger *logger.Logger
}

// NewScanService creates a new scan service
func NewScanService(sim *Simulator, log *logger.Logger) *ScanService {
	if log == nil {
		log = logger.Nop()
	}
	return &ScanService{
		sim:    sim,
		logger: log,
	}
}

// Start begins a new scan. Only one scan may run at a time.
func (s *ScanService) Start(ctx context.Context) (*scan.Scan, error) {
	var started *scan.Scan
	err := s.sim.Run(ctx, func(ctx context.Context) error {
		scans, err := s.sim.scans.List(ctx)
		if err != nil {
			return err
		}
		for _, sc := range scans {
			if sc.Status == scan.StatusRunning {
				return errors.Conflict("scan " + sc.ID + " is already running").
					WithDetails(map[string]string{"scanId": sc.ID})
			}
		}

		sc := &scan.Scan{
			ID:        s.sim.newID(),
			Status:    scan.StatusRunning,
			StartedAt: s.sim.clock.Now(),
		}
		if err := s.sim.scans.Create(ctx, sc); err != nil {
			return err
		}
		started = sc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.With("scan_id", started.ID).Info("Scan started")
	return started, nil
}

// Get retrieves a scan by ID
func (s *ScanService) Get(ctx context.Context, id string) (*scan.Scan, error) {
	var sc *scan.Scan
	err := s.sim.Run(ctx, func(ctx context.Context) error {
		var err error
		sc, err = s.sim.scans.GetByID(ctx, id)
		return err
	})
	return sc, err
}

// List retrieves all scans
func (s *ScanService) List(ctx context.Context) ([]*scan.Scan, error) {
	var scans []*scan.Scan
	err := s.sim.Run(ctx, func(ctx context.Context) error {
		var err error
		scans, err = s.sim.scans.List(ctx)
		return err
	})
	return scans, err
}

// Status reports the running scan, if any, and the last completed one
func (s *ScanService) Status(ctx context.Context) (*scan.StatusResponse, error) {
	resp := &scan.StatusResponse{Status: scan.StateIdle}
	err := s.sim.Run(ctx, func(ctx context.Context) error {
		scans, err := s.sim.scans.List(ctx)
		if err != nil {
			return err
		}
		for _, sc := range scans {
			switch {
			case sc.Status == scan.StatusRunning:
				started := sc.StartedAt
				resp.Status = scan.StateRunning
				resp.ScanID = sc.ID
				resp.StartedAt = &started
			case sc.IsCompleted() && sc.CompletedAt != nil:
				if resp.LastCompleted == nil || sc.CompletedAt.After(resp.LastCompleted.CompletedAt) {
					resp.LastCompleted = &scan.LastCompleted{
						ScanID:             sc.ID,
						CompletedAt:        *sc.CompletedAt,
						AlertsCreatedCount: sc.AlertsCreatedCount,
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
