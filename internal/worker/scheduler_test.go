package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/domain/scan"
	"github.com/pratik-mahalle/alertprobe/internal/lifecycle"
	apperrors "github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
)

type fakeRunner struct {
	prepareErr error
	manualErr  error
	probe      *lifecycle.ProbeResult
	probeErr   error
	calls      atomic.Int32
}

func (f *fakeRunner) PrepareManualCandidate(ctx context.Context) (*alert.Alert, *scan.Scan, error) {
	f.calls.Add(1)
	if f.prepareErr != nil {
		return nil, nil, f.prepareErr
	}
	return &alert.Alert{ID: "a-1", Status: alert.StatusOpen}, &scan.Scan{ID: "s-1"}, nil
}

func (f *fakeRunner) RunManual(ctx context.Context, alertID string) (*lifecycle.ManualResult, error) {
	return &lifecycle.ManualResult{AlertID: alertID}, f.manualErr
}

func (f *fakeRunner) RunAutoProbe(ctx context.Context) (*lifecycle.ProbeResult, error) {
	return f.probe, f.probeErr
}

func TestParseFlow(t *testing.T) {
	tests := []struct {
		in      string
		want    Flow
		wantErr bool
	}{
		{"manual", FlowManual, false},
		{"auto", FlowAuto, false},
		{"auto_probe", FlowAuto, false},
		{"both", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFlow(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunOnce_Outcomes(t *testing.T) {
	r := &fakeRunner{probe: &lifecycle.ProbeResult{
		Outcome:      lifecycle.OutcomeKnownDefectReproduced,
		OriginalID:   "a-2",
		DuplicateIDs: []string{"a-3"},
	}}
	s := New(r, []Flow{FlowManual, FlowAuto}, time.Minute, nil)

	var seen []Flow
	s.OnResult = func(res Result) { seen = append(seen, res.Flow) }

	results := s.RunOnce(context.Background())
	require.Len(t, results, 2)

	assert.Equal(t, FlowManual, results[0].Flow)
	assert.Equal(t, lifecycle.OutcomePass, results[0].Outcome)
	assert.Equal(t, "a-1", results[0].AlertID)
	assert.NoError(t, results[0].Err)

	assert.Equal(t, FlowAuto, results[1].Flow)
	assert.Equal(t, lifecycle.OutcomeKnownDefectReproduced, results[1].Outcome)
	assert.Equal(t, "a-2", results[1].AlertID)
	assert.Equal(t, apperrors.ErrCodeKnownDefectReproduced, apperrors.CodeOf(results[1].Err))

	assert.Equal(t, []Flow{FlowManual, FlowAuto}, seen)
	assert.Equal(t, 1, s.Runs())
	assert.Equal(t, results, s.LastResults())
}

func TestRunOnce_Failures(t *testing.T) {
	r := &fakeRunner{
		prepareErr: apperrors.PreconditionFailed("no candidate"),
		probe:      &lifecycle.ProbeResult{Outcome: lifecycle.OutcomeFail, OriginalID: "a-9"},
		probeErr:   errors.New("boom"),
	}
	s := New(r, []Flow{FlowManual, FlowAuto}, 0, nil)

	results := s.RunOnce(context.Background())
	require.Len(t, results, 2)
	assert.Equal(t, lifecycle.OutcomeFail, results[0].Outcome)
	assert.Equal(t, "no candidate", results[0].Error)
	assert.Equal(t, lifecycle.OutcomeFail, results[1].Outcome)
	assert.Equal(t, "a-9", results[1].AlertID)
	assert.EqualError(t, results[1].Err, "boom")
}

func TestSchedule(t *testing.T) {
	s := New(&fakeRunner{}, []Flow{FlowManual}, 0, nil)

	assert.Error(t, s.Schedule("every day"))
	assert.True(t, s.NextRun().IsZero())

	require.NoError(t, s.Schedule("*/5 * * * *"))
	assert.Error(t, s.Schedule("@hourly"), "second schedule is refused")
}

func TestScheduler_FiresOnSchedule(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a real cron tick")
	}

	r := &fakeRunner{}
	s := New(r, []Flow{FlowManual}, 0, nil)
	require.NoError(t, s.Schedule("@every 1s"))

	s.Start()
	assert.True(t, s.IsRunning())
	assert.False(t, s.NextRun().IsZero())

	require.Eventually(t, func() bool { return s.Runs() >= 1 }, 5*time.Second, 50*time.Millisecond)

	<-s.Stop().Done()
	assert.False(t, s.IsRunning())
	assert.GreaterOrEqual(t, r.calls.Load(), int32(1))
}

func TestRunOnce_BeforeRun(t *testing.T) {
	r := &fakeRunner{}
	s := New(r, []Flow{FlowManual, FlowAuto}, 0, nil)

	resets := 0
	s.BeforeRun = func(ctx context.Context) error {
		resets++
		if resets > 1 {
			return errors.New("reset refused")
		}
		return nil
	}

	r.probe = &lifecycle.ProbeResult{Outcome: lifecycle.OutcomePass}
	first := s.RunOnce(context.Background())
	assert.Equal(t, lifecycle.OutcomePass, first[0].Outcome)
	assert.Equal(t, lifecycle.OutcomePass, first[1].Outcome)

	second := s.RunOnce(context.Background())
	require.Len(t, second, 2)
	for _, res := range second {
		assert.Equal(t, lifecycle.OutcomeFail, res.Outcome)
		assert.Contains(t, res.Error, "reset refused")
	}
	assert.Equal(t, int32(1), r.calls.Load(), "flows are not run after a failed reset")
}
