package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

func TestTrace_CollapsesRepeats(t *testing.T) {
	tr := NewTrace("a-1")
	tr.Observe(alert.StatusOpen)
	tr.Observe(alert.StatusOpen)
	tr.Issue(alert.StatusInProgress)
	tr.Observe(alert.StatusInProgress)

	assert.Equal(t, []alert.Status{alert.StatusOpen, alert.StatusInProgress}, tr.Statuses())
	assert.True(t, tr.Steps[1].Issued)
	assert.Equal(t, alert.StatusInProgress, tr.Last())
	assert.Equal(t, "a-1: OPEN -> IN_PROGRESS*", tr.String())
}

func TestTrace_Validate(t *testing.T) {
	tests := []struct {
		name  string
		steps []Step
		ok    bool
	}{
		{
			name: "manual flow",
			steps: []Step{
				{Status: alert.StatusOpen},
				{Status: alert.StatusInProgress, Issued: true},
				{Status: alert.StatusRemediationInProgress},
				{Status: alert.StatusRemediatedWaitingForCustomer},
				{Status: alert.StatusResolved, Issued: true},
			},
			ok: true,
		},
		{
			name: "observed skip over intermediate states",
			steps: []Step{
				{Status: alert.StatusOpen},
				{Status: alert.StatusRemediatedWaitingForCustomer},
			},
			ok: true,
		},
		{
			name: "issued skip is not allowed",
			steps: []Step{
				{Status: alert.StatusOpen},
				{Status: alert.StatusResolved, Issued: true},
			},
			ok: false,
		},
		{
			name: "issued remediation edge needs the remediate action",
			steps: []Step{
				{Status: alert.StatusInProgress},
				{Status: alert.StatusRemediationInProgress, Issued: true},
			},
			ok: false,
		},
		{
			name: "observed regression",
			steps: []Step{
				{Status: alert.StatusResolved},
				{Status: alert.StatusOpen},
			},
			ok: false,
		},
		{
			name: "observed move back into remediation after resolve",
			steps: []Step{
				{Status: alert.StatusResolved},
				{Status: alert.StatusRemediationInProgress},
			},
			ok: false,
		},
		{
			name: "observed move back to in progress from awaiting customer",
			steps: []Step{
				{Status: alert.StatusRemediatedWaitingForCustomer},
				{Status: alert.StatusInProgress},
			},
			ok: false,
		},
		{
			name: "observed silent reopen",
			steps: []Step{
				{Status: alert.StatusResolved},
				{Status: alert.StatusInProgress},
			},
			ok: false,
		},
		{
			name: "observed reopen one edge at a time",
			steps: []Step{
				{Status: alert.StatusResolved},
				{Status: alert.StatusReopen},
				{Status: alert.StatusInProgress},
			},
			ok: true,
		},
		{
			name: "observed resolve after issued in progress skips nothing",
			steps: []Step{
				{Status: alert.StatusOpen},
				{Status: alert.StatusInProgress, Issued: true},
				{Status: alert.StatusResolved},
			},
			ok: true,
		},
		{name: "empty", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Trace{AlertID: "a", Steps: tt.steps}
			err := tr.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, apperrors.ErrCodeInvalidTransition, apperrors.CodeOf(err))
		})
	}
}

func TestOutcome_ExitCode(t *testing.T) {
	assert.Equal(t, 0, OutcomePass.ExitCode())
	assert.Equal(t, 1, OutcomeFail.ExitCode())
	assert.Equal(t, 3, OutcomeKnownDefectReproduced.ExitCode())
	assert.Equal(t, 1, Outcome("").ExitCode())
}
