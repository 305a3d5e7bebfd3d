package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/metrics"
)

// FlowManual names the manual remediation flow in logs and metrics
const FlowManual = "manual"

// ManualResult describes a completed manual remediation run
type ManualResult struct {
	AlertID        string         `json:"alertId"`
	Trace          *Trace         `json:"trace"`
	PriorComments  int            `json:"priorComments"`
	FinalComments  int            `json:"finalComments"`
	ClosingComment *alert.Comment `json:"closingComment"`
	Final          *alert.Alert   `json:"final"`
	// TransitionsChecked is false when the backend exposed no
	// validTransitions metadata, so that check was skipped.
	TransitionsChecked bool          `json:"transitionsChecked"`
	Duration           time.Duration `json:"duration"`
}

// RunManual takes an OPEN, manually remediated alert through
// IN_PROGRESS, remediation and RESOLVED, then adds a closing comment.
func (o *Orchestrator) RunManual(ctx context.Context, alertID string) (*ManualResult, error) {
	start := time.Now()
	res, err := o.runManual(ctx, alertID)
	outcome := OutcomePass
	if err != nil {
		outcome = OutcomeFail
		o.log.ForFlow(FlowManual, alertID).ErrorWithErr(err, "Manual remediation flow failed")
	}
	metrics.RecordScenario(FlowManual, string(outcome), time.Since(start))
	if res != nil {
		res.Duration = time.Since(start)
	}
	return res, err
}

func (o *Orchestrator) runManual(ctx context.Context, alertID string) (*ManualResult, error) {
	log := o.log.ForFlow(FlowManual, alertID)

	a, err := o.backend.GetAlert(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("get alert %s: %w", alertID, err)
	}
	if a.Status != alert.StatusOpen {
		return nil, apperrors.PreconditionFailed(fmt.Sprintf("alert %s is %s, want OPEN", alertID, a.Status))
	}
	if a.IsAutoRemediate() {
		return nil, apperrors.PreconditionFailed(fmt.Sprintf("alert %s is configured for auto-remediation", alertID))
	}

	tr := NewTrace(alertID)
	res := &ManualResult{AlertID: alertID, Trace: tr, PriorComments: len(a.Comments)}
	exposed := ValidTransitionsExposed(a)
	if err := o.inspect(tr, a); err != nil {
		return res, err
	}

	a, err = o.Transition(ctx, a, alert.StatusInProgress, tr)
	if err != nil {
		return res, err
	}
	exposed = exposed || ValidTransitionsExposed(a)

	if _, err := o.Remediate(ctx, a, o.opts.RemediationNote, tr); err != nil {
		return res, err
	}

	a, err = o.WaitForStatus(ctx, alertID, tr, alert.StatusRemediatedWaitingForCustomer, alert.StatusResolved)
	if err != nil {
		return res, err
	}
	log.With("status", a.Status).Info("Remediation completed")

	if a, err = o.EnsureResolved(ctx, a, tr); err != nil {
		return res, err
	}

	c, err := o.backend.AddComment(ctx, alertID, o.opts.ClosingComment)
	if err != nil {
		return res, fmt.Errorf("comment on alert %s: %w", alertID, err)
	}
	res.ClosingComment = c

	final, err := o.backend.GetAlert(ctx, alertID)
	if err != nil {
		return res, fmt.Errorf("get alert %s: %w", alertID, err)
	}
	if err := o.inspect(tr, final); err != nil {
		return res, err
	}
	res.Final = final
	res.FinalComments = len(final.Comments)
	res.TransitionsChecked = exposed || ValidTransitionsExposed(final)

	if final.Status != alert.StatusResolved {
		return res, apperrors.PostconditionFailed(fmt.Sprintf("alert %s ended in %s, want RESOLVED", alertID, final.Status))
	}
	if res.FinalComments != res.PriorComments+1 {
		return res, apperrors.PostconditionFailed(fmt.Sprintf("alert %s has %d comments, want %d", alertID, res.FinalComments, res.PriorComments+1))
	}
	if err := tr.Validate(); err != nil {
		return res, err
	}

	log.With("trace", tr.String()).Info("Manual remediation flow passed")
	return res, nil
}
