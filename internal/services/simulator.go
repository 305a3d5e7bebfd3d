package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/domain/policy"
	"github.com/pratik-mahalle/alertprobe/internal/domain/scan"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/metrics"
)

// Clock supplies the simulator's notion of now
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock
var SystemClock Clock = systemClock{}

// SimulationConfig controls how the mock backend progresses on its own
type SimulationConfig struct {
	// ScanDuration is how long a scan stays RUNNING
	ScanDuration time.Duration
	// RemediationDelay is how long a manual remediation takes to finish
	RemediationDelay time.Duration
	// AutoRemediationStep is the time between backend-driven status changes
	// of auto-remediated alerts. Zero disables auto-remediation.
	AutoRemediationStep time.Duration
	// IdempotentRescan stops scans from re-creating alerts for violations
	// that already have a resolved alert.
	IdempotentRescan bool
}

// DefaultSimulationConfig returns the timings of the reference environment
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		ScanDuration:        5 * time.Second,
		RemediationDelay:    6 * time.Second,
		AutoRemediationStep: 4 * time.Second,
	}
}

// Simulator owns the mock backend state. Background progress (scan
// completion and asynchronous remediation) is applied lazily against the
// clock before every operation, so no goroutines run behind the API.
type Simulator struct {
	mu       sync.Mutex
	cfg      SimulationConfig
	clock    Clock
	alerts   alert.Repository
	scans    scan.Repository
	policies policy.Repository
	logger   *logger.Logger
	newID    func() string
}

// NewSimulator creates a simulator over the given repositories
func NewSimulator(cfg SimulationConfig, clock Clock, alerts alert.Repository, scans scan.Repository, policies policy.Repository, log *logger.Logger) *Simulator {
	if clock == nil {
		clock = SystemClock
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Simulator{
		cfg:      cfg,
		clock:    clock,
		alerts:   alerts,
		scans:    scans,
		policies: policies,
		logger:   log,
		newID:    uuid.NewString,
	}
}

// Config returns the simulation settings
func (s *Simulator) Config() SimulationConfig {
	return s.cfg
}

// Now returns the simulator's current time
func (s *Simulator) Now() time.Time {
	return s.clock.Now()
}

// Run brings the state up to date and then calls fn while holding the lock.
func (s *Simulator) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.advance(ctx); err != nil {
		return err
	}
	return fn(ctx)
}

func (s *Simulator) advance(ctx context.Context) error {
	now := s.clock.Now()

	scans, err := s.scans.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scans: %w", err)
	}
	for _, sc := range scans {
		if sc.Status != scan.StatusRunning {
			continue
		}
		done := sc.StartedAt.Add(s.cfg.ScanDuration)
		if now.Before(done) {
			continue
		}
		if err := s.completeScan(ctx, sc, done); err != nil {
			return err
		}
	}

	alerts, err := s.alerts.List(ctx, alert.Filter{})
	if err != nil {
		return fmt.Errorf("failed to list alerts: %w", err)
	}
	for _, a := range alerts {
		if !s.progress(a, now) {
			continue
		}
		if err := s.alerts.Update(ctx, a); err != nil {
			return fmt.Errorf("failed to update alert %s: %w", a.ID, err)
		}
	}

	counts, err := s.alerts.CountByStatus(ctx)
	if err != nil {
		return err
	}
	for _, st := range alert.AllStatuses {
		metrics.SetAlertCount(string(st), float64(counts[st]))
	}
	return nil
}

// completeScan finishes a scan at the given time and raises an OPEN alert for
// every violation that has no live alert yet.
func (s *Simulator) completeScan(ctx context.Context, sc *scan.Scan, at time.Time) error {
	violations, err := s.policies.Violations(ctx)
	if err != nil {
		return fmt.Errorf("failed to load violations: %w", err)
	}
	existing, err := s.alerts.List(ctx, alert.Filter{})
	if err != nil {
		return fmt.Errorf("failed to list alerts: %w", err)
	}

	assets := make(map[string]struct{})
	created := 0
	for _, v := range violations {
		assets[alert.Normalize(v.AssetLocation)] = struct{}{}

		p, err := s.policies.GetByID(ctx, v.PolicyID)
		if err != nil {
			s.logger.With("policy_id", v.PolicyID).Warn("Violation references unknown policy")
			continue
		}
		if !p.Enabled || s.alreadyAlerted(existing, v) {
			continue
		}

		a := s.newAlert(p, v, sc.ID, at)
		if err := s.alerts.Create(ctx, a); err != nil {
			return fmt.Errorf("failed to create alert: %w", err)
		}
		existing = append(existing, a)
		created++
		metrics.RecordAlertCreated(string(a.Severity))
	}

	sc.Status = scan.StatusCompleted
	sc.CompletedAt = &at
	sc.ScannedAssetsCount = len(assets)
	sc.AlertsCreatedCount = created
	if err := s.scans.Update(ctx, sc); err != nil {
		return fmt.Errorf("failed to complete scan %s: %w", sc.ID, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"scan_id":        sc.ID,
		"alerts_created": created,
		"assets":         len(assets),
	}).Info("Scan completed")
	return nil
}

// alreadyAlerted reports whether v is covered by an existing alert. Only
// unresolved alerts count unless rescans are idempotent, which is what lets
// a rescan raise a fresh OPEN alert for a violation that was just resolved.
func (s *Simulator) alreadyAlerted(existing []*alert.Alert, v policy.Violation) bool {
	loc := alert.Normalize(v.AssetLocation)
	for _, a := range existing {
		if a.PolicyID != v.PolicyID || alert.Normalize(a.AssetLocation) != loc {
			continue
		}
		if a.Status != alert.StatusResolved || s.cfg.IdempotentRescan {
			return true
		}
	}
	return false
}

func (s *Simulator) newAlert(p *policy.Policy, v policy.Violation, runID string, at time.Time) *alert.Alert {
	a := &alert.Alert{
		ID:               s.newID(),
		RunID:            runID,
		PolicyID:         p.ID,
		PolicyName:       p.Name,
		Severity:         p.Severity,
		CreatedSeverity:  p.Severity,
		ViolationType:    p.ViolationType,
		CloudProvider:    v.CloudProvider,
		Status:           alert.StatusOpen,
		AssetDisplayName: v.AssetDisplayName,
		AssetLocation:    v.AssetLocation,
		Description:      v.Description,
		Comments:         []alert.Comment{},
		PolicySnapshot:   p.Snapshot(),
		Remediation: &alert.Remediation{
			Type:          p.RemediationType,
			Priority:      p.RemediationPriority,
			AutoRemediate: alert.Bool(p.AutoRemediate),
		},
		RemediationOrigin: alert.OriginNone,
		CreatedAt:         at,
		StatusUpdatedAt:   &at,
	}
	refresh(a)
	return a
}

// progress applies every backend-driven step that is due by now. Steps are
// stamped with the time they became due, not with now.
func (s *Simulator) progress(a *alert.Alert, now time.Time) bool {
	changed := false
	for {
		to, due, ok := s.nextStep(a)
		if !ok || now.Before(due) {
			return changed
		}
		setStatus(a, to, due)
		if to == alert.StatusRemediationInProgress {
			a.RemediationOrigin = alert.OriginAuto
		}
		changed = true
	}
}

func (s *Simulator) nextStep(a *alert.Alert) (alert.Status, time.Time, bool) {
	since := a.CreatedAt
	if a.StatusUpdatedAt != nil {
		since = *a.StatusUpdatedAt
	}

	if a.Status == alert.StatusRemediationInProgress && a.RemediationOrigin == alert.OriginManual {
		return alert.StatusRemediatedWaitingForCustomer, since.Add(s.cfg.RemediationDelay), true
	}
	if s.cfg.AutoRemediationStep <= 0 || !a.IsAutoRemediate() || a.RemediationOrigin == alert.OriginManual {
		return "", time.Time{}, false
	}

	var to alert.Status
	switch a.Status {
	case alert.StatusOpen:
		to = alert.StatusInProgress
	case alert.StatusInProgress:
		to = alert.StatusRemediationInProgress
	case alert.StatusRemediationInProgress:
		to = alert.StatusRemediatedWaitingForCustomer
	default:
		return "", time.Time{}, false
	}
	return to, since.Add(s.cfg.AutoRemediationStep), true
}

// setStatus moves a to status at the given time and refreshes derived fields
func setStatus(a *alert.Alert, to alert.Status, at time.Time) {
	a.Status = to
	a.StatusUpdatedAt = &at
	a.UpdatedAt = &at
	if to == alert.StatusRemediatedWaitingForCustomer {
		a.WasRemediated = true
	}
	refresh(a)
}

// refresh recomputes the transition metadata the backend reports
func refresh(a *alert.Alert) {
	a.ValidTransitions = alert.StatusUpdateTransitionsFrom(a.Status)
	a.CanRemediate = alert.Bool(a.Status == alert.StatusInProgress)
}
