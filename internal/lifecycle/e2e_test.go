package lifecycle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/lifecycle"
	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/testutil"
)

func newOrchestrator(t *testing.T, opts testutil.Options) (*lifecycle.Orchestrator, *testutil.Backend) {
	t.Helper()
	b := testutil.NewBackend(t, opts)
	o := lifecycle.New(lifecycle.NewClientBackend(b.Client), lifecycle.Options{
		Poll:     b.PollOptions(),
		ScanPoll: b.PollOptions(),
	}, nil)
	return o, b
}

func TestManualFlow_AgainstMockBackend(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t, testutil.Options{})

	candidate, sc, err := o.PrepareManualCandidate(ctx)
	require.NoError(t, err)
	require.True(t, sc.IsCompleted())
	assert.Equal(t, alert.StatusOpen, candidate.Status)
	assert.True(t, candidate.IsManual())

	res, err := o.RunManual(ctx, candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.StatusResolved, res.Final.Status)
	assert.Equal(t, res.PriorComments+1, res.FinalComments)
	assert.True(t, res.TransitionsChecked)
	assert.Equal(t, lifecycle.DefaultClosingComment, res.ClosingComment.Message)
	assert.Equal(t, []alert.Status{
		alert.StatusOpen,
		alert.StatusInProgress,
		alert.StatusRemediationInProgress,
		alert.StatusRemediatedWaitingForCustomer,
		alert.StatusResolved,
	}, res.Trace.Statuses())
}

func TestManualFlow_RejectsSecondRun(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t, testutil.Options{})

	candidate, _, err := o.PrepareManualCandidate(ctx)
	require.NoError(t, err)
	_, err = o.RunManual(ctx, candidate.ID)
	require.NoError(t, err)

	_, err = o.RunManual(ctx, candidate.ID)
	assert.Equal(t, apperrors.ErrCodePreconditionFailed, apperrors.CodeOf(err))
}

func TestAutoProbe_AgainstMockBackend(t *testing.T) {
	tests := []struct {
		name       string
		idempotent bool
		want       lifecycle.Outcome
		exitCode   int
	}{
		{"re-scan re-creates resolved alert", false, lifecycle.OutcomeKnownDefectReproduced, 3},
		{"idempotent re-scan", true, lifecycle.OutcomePass, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, _ := newOrchestrator(t, testutil.Options{IdempotentRescan: tt.idempotent})

			res, err := o.RunAutoProbe(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, tt.exitCode, res.Outcome.ExitCode())
			assert.NotEqual(t, res.FirstScanID, res.SecondScanID)
			assert.Equal(t, alert.StatusResolved, res.Trace.Last())
			assert.NoError(t, res.Trace.Validate())

			if tt.idempotent {
				assert.Empty(t, res.DuplicateIDs)
				assert.NoError(t, res.Err())
				return
			}
			require.Len(t, res.DuplicateIDs, 1)
			assert.NotEqual(t, res.OriginalID, res.DuplicateIDs[0])
			assert.Equal(t, apperrors.ErrCodeKnownDefectReproduced, apperrors.CodeOf(res.Err()))
		})
	}
}

func TestTransition_RejectedByBackend(t *testing.T) {
	ctx := context.Background()
	o, b := newOrchestrator(t, testutil.Options{})

	candidate, _, err := o.PrepareManualCandidate(ctx)
	require.NoError(t, err)

	// pre-validation is bypassed by calling the client directly
	_, err = b.Client.Alerts().UpdateStatus(ctx, candidate.ID, alert.StatusResolved)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeTransitionRejected))
}
