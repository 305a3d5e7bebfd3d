// Package lifecycle drives alerts through their status lifecycle against a
// backend and checks that the backend conforms to the lifecycle table.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/domain/scan"
	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/metrics"
	"github.com/pratik-mahalle/alertprobe/internal/poller"
)

// Default texts sent by the flows
const (
	DefaultRemediationNote = "Remediation triggered by lifecycle check"
	DefaultClosingComment  = "Closed by lifecycle check"
)

// Options configures an Orchestrator
type Options struct {
	// Poll configures waits for alert status changes.
	Poll poller.Options
	// ScanPoll configures waits for scan completion.
	ScanPoll        poller.Options
	RemediationNote string
	ClosingComment  string
}

// Orchestrator runs the manual and auto-remediation flows. It holds no state
// between runs and may be shared by concurrent scenarios on different alerts.
type Orchestrator struct {
	backend Backend
	opts    Options
	log     *logger.Logger
}

// New creates an orchestrator
func New(backend Backend, opts Options, log *logger.Logger) *Orchestrator {
	if opts.RemediationNote == "" {
		opts.RemediationNote = DefaultRemediationNote
	}
	if opts.ClosingComment == "" {
		opts.ClosingComment = DefaultClosingComment
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{backend: backend, opts: opts, log: log}
}

// CheckValidTransitions verifies the backend-reported successor set of a.
// An alert without the metadata passes; see ValidTransitionsExposed.
func CheckValidTransitions(a *alert.Alert) error {
	if len(a.ValidTransitions) == 0 {
		return nil
	}
	if bad := alert.UnexpectedTransitions(a.ValidTransitions, a.Status); len(bad) > 0 {
		names := make([]string, len(bad))
		for i, s := range bad {
			names[i] = string(s)
		}
		return apperrors.TransitionSetInconsistent(string(a.Status), names)
	}
	return nil
}

// ValidTransitionsExposed reports whether the backend sent validTransitions
// metadata for a, so callers can report a skipped check instead of a pass.
func ValidTransitionsExposed(a *alert.Alert) bool {
	return a.ValidTransitions != nil
}

// inspect records a fetched alert in the trace and checks its metadata.
func (o *Orchestrator) inspect(tr *Trace, a *alert.Alert) error {
	if tr != nil {
		tr.Observe(a.Status)
	}
	return CheckValidTransitions(a)
}

// Transition issues a direct status update. The change is validated against
// the lifecycle table before anything is sent.
func (o *Orchestrator) Transition(ctx context.Context, a *alert.Alert, to alert.Status, tr *Trace) (*alert.Alert, error) {
	from := a.Status
	if !alert.CanUpdateStatus(from, to) {
		metrics.RecordTransition(string(from), string(to), "invalid")
		return nil, apperrors.InvalidTransition(string(from), string(to))
	}

	updated, err := o.backend.UpdateAlertStatus(ctx, a.ID, to)
	if err != nil {
		metrics.RecordTransition(string(from), string(to), "rejected")
		return nil, fmt.Errorf("update status of alert %s: %w", a.ID, err)
	}
	metrics.RecordTransition(string(from), string(to), "applied")

	if tr != nil {
		tr.Issue(to)
	}
	if updated.Status != to {
		return nil, apperrors.PostconditionFailed(fmt.Sprintf("alert %s reported status %s after update to %s", a.ID, updated.Status, to))
	}
	if err := o.inspect(tr, updated); err != nil {
		return nil, err
	}

	o.log.WithFields(map[string]interface{}{
		"alert_id": a.ID,
		"from":     from,
		"to":       to,
	}).Info("Alert status updated")

	return updated, nil
}

// Remediate triggers remediation of an alert.
func (o *Orchestrator) Remediate(ctx context.Context, a *alert.Alert, note string, tr *Trace) (*alert.Alert, error) {
	if !alert.IsValidVia(a.Status, alert.StatusRemediationInProgress, alert.TriggerRemediation) {
		return nil, apperrors.InvalidTransition(string(a.Status), string(alert.StatusRemediationInProgress))
	}

	updated, err := o.backend.RemediateAlert(ctx, a.ID, note)
	if err != nil {
		return nil, fmt.Errorf("remediate alert %s: %w", a.ID, err)
	}
	metrics.RecordTransition(string(a.Status), string(updated.Status), "remediation")
	if err := o.inspect(tr, updated); err != nil {
		return nil, err
	}

	o.log.WithFields(map[string]interface{}{
		"alert_id": a.ID,
		"status":   updated.Status,
	}).Info("Alert remediation triggered")

	return updated, nil
}

// WaitForStatus polls an alert until its status is one of targets.
func (o *Orchestrator) WaitForStatus(ctx context.Context, id string, tr *Trace, targets ...alert.Status) (*alert.Alert, error) {
	opts := o.opts.Poll
	if opts.Description == "" {
		opts.Description = fmt.Sprintf("alert %s to reach %v", id, targets)
	}

	start := time.Now()
	a, err := poller.Until(ctx,
		func(ctx context.Context) (*alert.Alert, error) {
			metrics.RecordPollAttempt("alert")
			a, err := o.backend.GetAlert(ctx, id)
			if err != nil {
				return nil, err
			}
			if err := o.inspect(tr, a); err != nil {
				return nil, err
			}
			return a, nil
		},
		func(a *alert.Alert) bool { return hasAnyStatus(a, targets) },
		opts)
	metrics.RecordWait("alert", waitResult(err), time.Since(start))
	return a, err
}

// WaitForScan polls a scan until it has completed.
func (o *Orchestrator) WaitForScan(ctx context.Context, id string) (*scan.Scan, error) {
	opts := o.opts.ScanPoll
	if opts.Description == "" {
		opts.Description = fmt.Sprintf("scan %s to complete", id)
	}

	start := time.Now()
	sc, err := poller.Until(ctx,
		func(ctx context.Context) (*scan.Scan, error) {
			metrics.RecordPollAttempt("scan")
			return o.backend.GetScan(ctx, id)
		},
		func(sc *scan.Scan) bool { return sc.IsCompleted() },
		opts)
	metrics.RecordWait("scan", waitResult(err), time.Since(start))
	return sc, err
}

// RunScan starts a scan and waits for it to complete.
func (o *Orchestrator) RunScan(ctx context.Context) (*scan.Scan, error) {
	started, err := o.backend.StartScan(ctx)
	if err != nil {
		return nil, fmt.Errorf("start scan: %w", err)
	}
	o.log.With("scan_id", started.ID).Info("Scan started")

	done, err := o.WaitForScan(ctx, started.ID)
	if err != nil {
		return nil, err
	}

	o.log.WithFields(map[string]interface{}{
		"scan_id":        done.ID,
		"alerts_created": done.AlertsCreatedCount,
	}).Info("Scan completed")
	return done, nil
}

// EnsureResolved moves a to RESOLVED unless it already is.
func (o *Orchestrator) EnsureResolved(ctx context.Context, a *alert.Alert, tr *Trace) (*alert.Alert, error) {
	if a.Status == alert.StatusResolved {
		return a, nil
	}
	return o.Transition(ctx, a, alert.StatusResolved, tr)
}

// PrepareManualCandidate runs a scan and returns an OPEN, manually remediated
// alert, preferring one raised by that scan. Alerts are never moved back to
// OPEN to make one.
func (o *Orchestrator) PrepareManualCandidate(ctx context.Context) (*alert.Alert, *scan.Scan, error) {
	sc, err := o.RunScan(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, filter := range []alert.Filter{
		{Status: alert.StatusOpen, RunID: sc.ID},
		{Status: alert.StatusOpen},
	} {
		alerts, err := o.backend.ListAlerts(ctx, filter)
		if err != nil {
			return nil, sc, fmt.Errorf("list open alerts: %w", err)
		}
		for _, a := range alerts {
			if a.Status == alert.StatusOpen && a.IsManual() {
				return a, sc, nil
			}
		}
	}
	return nil, sc, apperrors.PreconditionFailed(fmt.Sprintf("no OPEN alert with manual remediation after scan %s", sc.ID))
}

func hasAnyStatus(a *alert.Alert, targets []alert.Status) bool {
	for _, s := range targets {
		if a.Status == s {
			return true
		}
	}
	return false
}

func waitResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case poller.IsTimeout(err):
		return "timeout"
	default:
		return "error"
	}
}
