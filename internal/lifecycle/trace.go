package lifecycle

import (
	"fmt"
	"strings"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

// Step is one status in an alert's observed history
type Step struct {
	Status alert.Status `json:"status"`
	// Issued is set when the harness requested this status with a direct
	// status update, as opposed to reading it back from the backend.
	Issued bool `json:"issued,omitempty"`
}

// Trace is the sequence of distinct statuses seen for one alert.
// It is not safe for concurrent use; a scenario owns its trace.
type Trace struct {
	AlertID string `json:"alertId"`
	Steps   []Step `json:"steps"`
}

// NewTrace starts a trace for an alert
func NewTrace(alertID string) *Trace {
	return &Trace{AlertID: alertID}
}

// Observe records a status read from the backend. Repeats are collapsed.
func (t *Trace) Observe(s alert.Status) {
	t.add(Step{Status: s})
}

// Issue records a status the harness set with a direct status update.
func (t *Trace) Issue(s alert.Status) {
	t.add(Step{Status: s, Issued: true})
}

func (t *Trace) add(step Step) {
	if n := len(t.Steps); n > 0 && t.Steps[n-1].Status == step.Status {
		if step.Issued {
			t.Steps[n-1].Issued = true
		}
		return
	}
	t.Steps = append(t.Steps, step)
}

// Statuses returns the recorded statuses in order
func (t *Trace) Statuses() []alert.Status {
	out := make([]alert.Status, len(t.Steps))
	for i, s := range t.Steps {
		out[i] = s.Status
	}
	return out
}

// Last returns the most recent status, or "" for an empty trace
func (t *Trace) Last() alert.Status {
	if len(t.Steps) == 0 {
		return ""
	}
	return t.Steps[len(t.Steps)-1].Status
}

// Validate checks each change against the lifecycle table. Issued statuses
// must be a single status-update edge from the previous status. An observed
// status must be a single edge from the previous one, or reachable through
// states the backend moves through on its own between two reads. A skip
// that needs a status update nobody issued, such as RESOLVED -> REOPEN, is
// rejected.
func (t *Trace) Validate() error {
	for i := 1; i < len(t.Steps); i++ {
		from, to := t.Steps[i-1].Status, t.Steps[i]
		if to.Issued {
			if !alert.CanUpdateStatus(from, to.Status) {
				return apperrors.InvalidTransition(string(from), string(to.Status))
			}
			continue
		}
		if !alert.IsValidTransition(from, to.Status) && !alert.ReachableUnattended(from, to.Status) {
			return apperrors.InvalidTransition(string(from), string(to.Status))
		}
	}
	return nil
}

func (t *Trace) String() string {
	parts := make([]string, len(t.Steps))
	for i, s := range t.Steps {
		parts[i] = string(s.Status)
		if s.Issued {
			parts[i] += "*"
		}
	}
	return fmt.Sprintf("%s: %s", t.AlertID, strings.Join(parts, " -> "))
}
