package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/metrics"
)

// FlowAutoProbe names the auto-remediation re-scan probe in logs and metrics
const FlowAutoProbe = "auto_probe"

// ProbeResult describes a run of the auto-remediation re-scan probe
type ProbeResult struct {
	Outcome      Outcome        `json:"outcome"`
	OriginalID   string         `json:"originalId,omitempty"`
	Identity     alert.Identity `json:"identity"`
	FirstScanID  string         `json:"firstScanId,omitempty"`
	SecondScanID string         `json:"secondScanId,omitempty"`
	DuplicateIDs []string       `json:"duplicateIds,omitempty"`
	Trace        *Trace         `json:"trace,omitempty"`
	Duration     time.Duration  `json:"duration"`
	// Failure is the harness error when Outcome is OutcomeFail.
	Failure error `json:"-"`
}

// Err returns nil for a pass, a KNOWN_DEFECT_REPRODUCED error when the
// re-scan re-created the alert, and the harness failure otherwise.
func (r *ProbeResult) Err() error {
	switch r.Outcome {
	case OutcomePass:
		return nil
	case OutcomeKnownDefectReproduced:
		return apperrors.KnownDefectReproduced(r.OriginalID, r.DuplicateIDs)
	default:
		return r.Failure
	}
}

// RunAutoProbe resolves an auto-remediated alert and re-scans, looking for an
// OPEN alert with the same identity. The returned error is non-nil only for
// OutcomeFail; a re-created alert is reported as OutcomeKnownDefectReproduced.
func (o *Orchestrator) RunAutoProbe(ctx context.Context) (*ProbeResult, error) {
	start := time.Now()
	res := &ProbeResult{}

	if err := o.runAutoProbe(ctx, res); err != nil {
		res.Outcome = OutcomeFail
		res.Failure = err
		o.log.ForFlow(FlowAutoProbe, "").ErrorWithErr(err, "Auto-remediation probe failed")
	}
	res.Duration = time.Since(start)
	metrics.RecordScenario(FlowAutoProbe, string(res.Outcome), res.Duration)

	if res.Outcome == OutcomeFail {
		return res, res.Failure
	}
	return res, nil
}

func (o *Orchestrator) runAutoProbe(ctx context.Context, res *ProbeResult) error {
	first, err := o.RunScan(ctx)
	if err != nil {
		return err
	}
	res.FirstScanID = first.ID

	candidate, err := o.selectAutoCandidate(ctx, first.ID)
	if err != nil {
		return err
	}
	res.OriginalID = candidate.ID
	// Captured now: the backend may blank policy or asset fields once
	// remediation completes.
	res.Identity = candidate.Identity()

	log := o.log.ForFlow(FlowAutoProbe, candidate.ID).WithFields(map[string]interface{}{
		"scan_id":  first.ID,
		"identity": res.Identity.String(),
	})
	log.Info("Auto-remediation candidate selected")

	tr := NewTrace(candidate.ID)
	res.Trace = tr
	if err := o.inspect(tr, candidate); err != nil {
		return err
	}

	a, err := o.WaitForStatus(ctx, candidate.ID, tr, alert.StatusRemediatedWaitingForCustomer, alert.StatusResolved)
	if err != nil {
		return err
	}
	if a, err = o.EnsureResolved(ctx, a, tr); err != nil {
		return err
	}
	if _, err := o.backend.AddComment(ctx, a.ID, o.opts.ClosingComment); err != nil {
		return fmt.Errorf("comment on alert %s: %w", a.ID, err)
	}
	if err := tr.Validate(); err != nil {
		return err
	}

	second, err := o.RunScan(ctx)
	if err != nil {
		return err
	}
	res.SecondScanID = second.ID

	after, err := o.backend.ListAlerts(ctx, alert.Filter{Status: alert.StatusOpen, RunID: second.ID})
	if err != nil {
		return fmt.Errorf("list alerts of scan %s: %w", second.ID, err)
	}
	for _, dup := range alert.FindDuplicates(res.Identity, candidate.ID, alert.StatusOpen, after) {
		res.DuplicateIDs = append(res.DuplicateIDs, dup.ID)
	}

	if len(res.DuplicateIDs) > 0 {
		res.Outcome = OutcomeKnownDefectReproduced
		log.WithFields(map[string]interface{}{
			"scan_id":       second.ID,
			"duplicate_ids": res.DuplicateIDs,
		}).Warn("Re-scan re-created resolved alert")
		return nil
	}

	res.Outcome = OutcomePass
	log.With("scan_id", second.ID).Info("Re-scan did not re-create resolved alert")
	return nil
}

// selectAutoCandidate picks an auto-remediated alert raised by the scan that
// remediation has not finished with yet.
func (o *Orchestrator) selectAutoCandidate(ctx context.Context, scanID string) (*alert.Alert, error) {
	alerts, err := o.backend.ListAlerts(ctx, alert.Filter{RunID: scanID})
	if err != nil {
		return nil, fmt.Errorf("list alerts of scan %s: %w", scanID, err)
	}
	for _, a := range alerts {
		if !a.IsAutoRemediate() {
			continue
		}
		if a.Status == alert.StatusOpen || a.Status == alert.StatusRemediationInProgress {
			if a.Identity().IsEmpty() {
				continue
			}
			return a, nil
		}
	}
	return nil, apperrors.PreconditionFailed(fmt.Sprintf("scan %s raised no auto-remediated alert awaiting remediation", scanID))
}
