package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/domain/policy"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/metrics"
)

// AlertService implements alert.Service
type AlertService struct {
	sim    *Simulator
	logger *logger.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(sim *Simulator, log *logger.Logger) *AlertService {
	if log == nil {
		log = logger.Nop()
	}
	return &AlertService{
		sim:    sim,
		logger: log,
	}
}

// Create seeds an OPEN alert for a known policy without running a scan
func (s *AlertService) Create(ctx context.Context, req *alert.Alert) (*alert.Alert, error) {
	var created *alert.Alert
	err := s.sim.Run(ctx, func(ctx context.Context) error {
		p, err := s.sim.policies.GetByID(ctx, req.PolicyID)
		if err != nil {
			return errors.ValidationError("unknown policy", map[string]string{"policyId": req.PolicyID})
		}

		now := s.sim.clock.Now()
		a := s.sim.newAlert(p, policyViolation(req), req.RunID, now)
		if req.Severity != "" {
			a.Severity = req.Severity
			a.CreatedSeverity = req.Severity
		}
		if err := s.sim.alerts.Create(ctx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to create alert")
		return nil, err
	}

	metrics.RecordAlertCreated(string(created.Severity))
	s.logger.WithFields(map[string]interface{}{
		"alert_id":  created.ID,
		"policy_id": created.PolicyID,
		"severity":  created.Severity,
	}).Info("Alert created")

	return created, nil
}

// Get retrieves an alert by ID
func (s *AlertService) Get(ctx context.Context, id string) (*alert.Alert, error) {
	var a *alert.Alert
	err := s.sim.Run(ctx, func(ctx context.Context) error {
		var err error
		a, err = s.sim.alerts.GetByID(ctx, id)
		return err
	})
	return a, err
}

// List retrieves alerts with filters
func (s *AlertService) List(ctx context.Context, filter alert.Filter) ([]*alert.Alert, error) {
	var alerts []*alert.Alert
	err := s.sim.Run(ctx, func(ctx context.Context) error {
		var err error
		alerts, err = s.sim.alerts.List(ctx, filter)
		return err
	})
	return alerts, err
}

// UpdateStatus applies a direct status update. Only status-update edges of
// the transition table are accepted; anything else is INVALID_TRANSITION.
func (s *AlertService) UpdateStatus(ctx context.Context, id string, status alert.Status) (*alert.Alert, error) {
	var updated *alert.Alert
	var from alert.Status
	err := s.sim.Run(ctx, func(ctx context.Context) error {
		a, err := s.sim.alerts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		from = a.Status
		if !alert.CanUpdateStatus(a.Status, status) {
			return errors.InvalidTransition(string(a.Status), string(status))
		}

		setStatus(a, status, s.sim.clock.Now())
		if status == alert.StatusReopen {
			a.WasRemediated = false
			a.RemediationOrigin = alert.OriginNone
		}
		if err := s.sim.alerts.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"alert_id": id,
			"from":     from,
			"to":       status,
		}).WithError(err).Warn("Status update refused")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id": id,
		"from":     from,
		"to":       status,
	}).Info("Alert status updated")

	return updated, nil
}

// Remediate starts a manual remediation. It is only allowed from IN_PROGRESS
// and finishes asynchronously after the configured delay.
func (s *AlertService) Remediate(ctx context.Context, id, note string) (*alert.Alert, error) {
	var updated *alert.Alert
	err := s.sim.Run(ctx, func(ctx context.Context) error {
		a, err := s.sim.alerts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !alert.IsValidVia(a.Status, alert.StatusRemediationInProgress, alert.TriggerRemediation) {
			return errors.InvalidTransition(string(a.Status), string(alert.StatusRemediationInProgress))
		}

		setStatus(a, alert.StatusRemediationInProgress, s.sim.clock.Now())
		a.RemediationOrigin = alert.OriginManual
		if a.Remediation == nil {
			a.Remediation = &alert.Remediation{}
		}
		a.Remediation.Note = note
		if err := s.sim.alerts.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		s.logger.WithError(err).With("alert_id", id).Warn("Remediation refused")
		return nil, err
	}

	s.logger.With("alert_id", id).Info("Remediation started")
	return updated, nil
}

// AddComment appends a comment to an alert
func (s *AlertService) AddComment(ctx context.Context, id string, author alert.Author, message string) (*alert.Comment, error) {
	if strings.TrimSpace(message) == "" {
		return nil, errors.ValidationError("comment message is required", nil)
	}

	var c *alert.Comment
	err := s.sim.Run(ctx, func(ctx context.Context) error {
		a, err := s.sim.alerts.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := s.sim.clock.Now()
		comment := alert.Comment{
			ID:        uuid.NewString(),
			Author:    author,
			Message:   message,
			CreatedAt: now,
		}
		a.Comments = append(a.Comments, comment)
		a.UpdatedAt = &now
		if err := s.sim.alerts.Update(ctx, a); err != nil {
			return err
		}
		c = &comment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id":   id,
		"comment_id": c.ID,
	}).Info("Comment added")
	return c, nil
}

func policyViolation(a *alert.Alert) policy.Violation {
	return policy.Violation{
		PolicyID:         a.PolicyID,
		AssetDisplayName: a.AssetDisplayName,
		AssetLocation:    a.AssetLocation,
		CloudProvider:    a.CloudProvider,
		Description:      a.Description,
	}
}
