package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/domain/scan"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/errors"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
	"github.com/pratik-mahalle/alertprobe/internal/poller"
	"github.com/pratik-mahalle/alertprobe/internal/repository/memory"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	clock  *poller.FakeClock
	sim    *Simulator
	alerts *AlertService
	scans  *ScanService
	admin  *AdminService
}

func newTestEnv(t *testing.T, cfg SimulationConfig) *testEnv {
	t.Helper()

	clock := poller.NewFakeClock(t0)
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	sim := NewSimulator(cfg, clock, memory.NewAlertRepository(), memory.NewScanRepository(), memory.NewDefaultPolicyRepository(), log)

	n := 0
	sim.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}

	return &testEnv{
		clock:  clock,
		sim:    sim,
		alerts: NewAlertService(sim, log),
		scans:  NewScanService(sim, log),
		admin:  NewAdminService(sim, log),
	}
}

// completedScan starts a scan and moves the clock past its duration
func (e *testEnv) completedScan(t *testing.T) *scan.Scan {
	t.Helper()
	ctx := context.Background()

	sc, err := e.scans.Start(ctx)
	require.NoError(t, err)
	e.clock.Advance(e.sim.Config().ScanDuration)

	done, err := e.scans.Get(ctx, sc.ID)
	require.NoError(t, err)
	require.True(t, done.IsCompleted())
	return done
}

func (e *testEnv) find(t *testing.T, filter alert.Filter, policyID, asset string) *alert.Alert {
	t.Helper()
	alerts, err := e.alerts.List(context.Background(), filter)
	require.NoError(t, err)
	for _, a := range alerts {
		if a.PolicyID == policyID && a.AssetDisplayName == asset {
			return a
		}
	}
	t.Fatalf("no alert for %s on %s", policyID, asset)
	return nil
}

func TestScan_CompletesAfterDuration(t *testing.T) {
	env := newTestEnv(t, DefaultSimulationConfig())
	ctx := context.Background()

	sc, err := env.scans.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, scan.StatusRunning, sc.Status)

	env.clock.Advance(4 * time.Second)
	got, err := env.scans.Get(ctx, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, scan.StatusRunning, got.Status)

	status, err := env.scans.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, scan.StateRunning, status.Status)
	assert.Equal(t, sc.ID, status.ScanID)
	assert.Nil(t, status.LastCompleted)

	env.clock.Advance(time.Second)
	got, err = env.scans.Get(ctx, sc.ID)
	require.NoError(t, err)
	require.True(t, got.IsCompleted())
	assert.Equal(t, t0.Add(5*time.Second), *got.CompletedAt)
	assert.Equal(t, 5, got.AlertsCreatedCount)
	assert.Equal(t, 5, got.ScannedAssetsCount)

	alerts, err := env.alerts.List(ctx, alert.Filter{RunID: sc.ID})
	require.NoError(t, err)
	require.Len(t, alerts, 5)
	for _, a := range alerts {
		assert.Equal(t, alert.StatusOpen, a.Status)
		assert.Equal(t, []alert.Status{alert.StatusInProgress}, a.ValidTransitions)
		assert.NotNil(t, a.Comments)
	}

	status, err = env.scans.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, scan.StateIdle, status.Status)
	require.NotNil(t, status.LastCompleted)
	assert.Equal(t, sc.ID, status.LastCompleted.ScanID)
}

func TestScan_StartWhileRunning(t *testing.T) {
	env := newTestEnv(t, DefaultSimulationConfig())
	ctx := context.Background()

	_, err := env.scans.Start(ctx)
	require.NoError(t, err)

	_, err = env.scans.Start(ctx)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", codeOf(err))
}

func TestRescan_RecreatesResolvedViolation(t *testing.T) {
	tests := []struct {
		name        string
		idempotent  bool
		wantCreated int
	}{
		{"default backend re-creates the alert", false, 1},
		{"idempotent rescan", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSimulationConfig()
			cfg.IdempotentRescan = tt.idempotent
			env := newTestEnv(t, cfg)
			ctx := context.Background()

			first := env.completedScan(t)
			a := env.find(t, alert.Filter{RunID: first.ID}, "pol-public-bucket", "finance-reports-prod")

			_, err := env.alerts.UpdateStatus(ctx, a.ID, alert.StatusInProgress)
			require.NoError(t, err)
			_, err = env.alerts.UpdateStatus(ctx, a.ID, alert.StatusResolved)
			require.NoError(t, err)

			second := env.completedScan(t)
			assert.Equal(t, tt.wantCreated, second.AlertsCreatedCount)

			open, err := env.alerts.List(ctx, alert.Filter{Status: alert.StatusOpen, RunID: second.ID})
			require.NoError(t, err)
			assert.Len(t, open, tt.wantCreated)
			for _, dup := range open {
				assert.NotEqual(t, a.ID, dup.ID)
				assert.True(t, alert.SameAlert(a.Observation(), dup.Observation()))
			}

			original, err := env.alerts.Get(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, alert.StatusResolved, original.Status)
		})
	}
}

func TestAlertService_ManualRemediation(t *testing.T) {
	env := newTestEnv(t, DefaultSimulationConfig())
	ctx := context.Background()

	sc := env.completedScan(t)
	a := env.find(t, alert.Filter{RunID: sc.ID}, "pol-public-bucket", "finance-reports-prod")
	require.True(t, a.IsManual())

	_, err := env.alerts.Remediate(ctx, a.ID, "too early")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", codeOf(err))

	got, err := env.alerts.UpdateStatus(ctx, a.ID, alert.StatusInProgress)
	require.NoError(t, err)
	assert.True(t, *got.CanRemediate)
	assert.Equal(t, []alert.Status{alert.StatusResolved}, got.ValidTransitions)

	remediatedAt := env.clock.Now()
	got, err = env.alerts.Remediate(ctx, a.ID, "closing the bucket ACL")
	require.NoError(t, err)
	assert.Equal(t, alert.StatusRemediationInProgress, got.Status)
	assert.Equal(t, alert.OriginManual, got.RemediationOrigin)
	assert.Equal(t, "closing the bucket ACL", got.Remediation.Note)

	env.clock.Advance(5 * time.Second)
	got, err = env.alerts.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.StatusRemediationInProgress, got.Status)

	env.clock.Advance(10 * time.Second)
	got, err = env.alerts.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.StatusRemediatedWaitingForCustomer, got.Status)
	assert.True(t, got.WasRemediated)
	assert.Equal(t, remediatedAt.Add(6*time.Second), *got.StatusUpdatedAt)

	got, err = env.alerts.UpdateStatus(ctx, a.ID, alert.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, []alert.Status{alert.StatusReopen}, got.ValidTransitions)
}

func TestAlertService_UpdateStatusRejects(t *testing.T) {
	env := newTestEnv(t, DefaultSimulationConfig())
	ctx := context.Background()

	sc := env.completedScan(t)
	a := env.find(t, alert.Filter{RunID: sc.ID}, "pol-permissive-share", "HR Shared Drive")

	tests := []struct {
		name string
		to   alert.Status
	}{
		{"skip to resolved", alert.StatusResolved},
		{"self loop", alert.StatusOpen},
		{"unknown status", alert.Status("ARCHIVED")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.alerts.UpdateStatus(ctx, a.ID, tt.to)
			require.Error(t, err)
			assert.Equal(t, "INVALID_TRANSITION", codeOf(err))
		})
	}

	_, err := env.alerts.UpdateStatus(ctx, a.ID, alert.StatusInProgress)
	require.NoError(t, err)

	// the remediation edge needs the remediate action
	_, err = env.alerts.UpdateStatus(ctx, a.ID, alert.StatusRemediationInProgress)
	assert.Equal(t, "INVALID_TRANSITION", codeOf(err))

	_, err = env.alerts.UpdateStatus(ctx, "missing", alert.StatusInProgress)
	assert.Equal(t, "NOT_FOUND", codeOf(err))
}

func TestAlertService_AutoRemediation(t *testing.T) {
	env := newTestEnv(t, DefaultSimulationConfig())
	ctx := context.Background()

	sc := env.completedScan(t)
	a := env.find(t, alert.Filter{RunID: sc.ID}, "pol-unencrypted-snapshot", "customers-db-snap-0412")
	require.True(t, a.IsAutoRemediate())
	created := a.CreatedAt

	steps := []alert.Status{
		alert.StatusInProgress,
		alert.StatusRemediationInProgress,
		alert.StatusRemediatedWaitingForCustomer,
	}
	for i, want := range steps {
		env.clock.Advance(4 * time.Second)
		got, err := env.alerts.Get(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got.Status, "step %d", i+1)
	}

	got, err := env.alerts.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.OriginAuto, got.RemediationOrigin)
	assert.True(t, got.WasRemediated)
	assert.Equal(t, created.Add(12*time.Second), *got.StatusUpdatedAt)

	env.clock.Advance(time.Minute)
	got, err = env.alerts.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.StatusRemediatedWaitingForCustomer, got.Status, "backend never resolves on its own")
}

func TestAlertService_AutoRemediationCatchesUp(t *testing.T) {
	env := newTestEnv(t, DefaultSimulationConfig())
	ctx := context.Background()

	sc, err := env.scans.Start(ctx)
	require.NoError(t, err)
	env.clock.Advance(time.Hour)

	alerts, err := env.alerts.List(ctx, alert.Filter{RunID: sc.ID})
	require.NoError(t, err)
	for _, a := range alerts {
		if a.IsAutoRemediate() {
			assert.Equal(t, alert.StatusRemediatedWaitingForCustomer, a.Status, a.PolicyName)
			assert.Equal(t, t0.Add(5*time.Second+12*time.Second), *a.StatusUpdatedAt)
		} else {
			assert.Equal(t, alert.StatusOpen, a.Status, a.PolicyName)
		}
	}
}

func TestAlertService_AddComment(t *testing.T) {
	env := newTestEnv(t, DefaultSimulationConfig())
	ctx := context.Background()

	sc := env.completedScan(t)
	a := env.find(t, alert.Filter{RunID: sc.ID}, "pol-public-bucket", "marketing-exports")
	author := alert.Author{ID: "user-admin", Name: "Administrator"}

	_, err := env.alerts.AddComment(ctx, a.ID, author, "   ")
	assert.Equal(t, "VALIDATION_ERROR", codeOf(err))

	c, err := env.alerts.AddComment(ctx, a.ID, author, "looked into it")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, author, c.Author)

	got, err := env.alerts.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 1)
	assert.Equal(t, "looked into it", got.Comments[0].Message)
}

func TestAlertService_Create(t *testing.T) {
	env := newTestEnv(t, DefaultSimulationConfig())
	ctx := context.Background()

	a, err := env.alerts.Create(ctx, &alert.Alert{
		PolicyID:         "pol-public-bucket",
		AssetDisplayName: "seeded-bucket",
		AssetLocation:    "s3://seeded-bucket",
		Severity:         alert.SeverityLow,
		RunID:            "seed",
	})
	require.NoError(t, err)
	assert.Equal(t, alert.StatusOpen, a.Status)
	assert.Equal(t, "Public Bucket With Sensitive Data", a.PolicyName)
	assert.Equal(t, alert.SeverityLow, a.Severity)
	assert.Equal(t, "seed", a.RunID)
	assert.True(t, a.IsManual())

	_, err = env.alerts.Create(ctx, &alert.Alert{PolicyID: "pol-missing"})
	assert.Equal(t, "VALIDATION_ERROR", codeOf(err))
}

func TestAdminService_Reset(t *testing.T) {
	env := newTestEnv(t, DefaultSimulationConfig())
	ctx := context.Background()

	env.completedScan(t)
	require.NoError(t, env.admin.Reset(ctx))

	alerts, err := env.alerts.List(ctx, alert.Filter{})
	require.NoError(t, err)
	assert.Empty(t, alerts)

	scans, err := env.scans.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, scans)
}

func codeOf(err error) string {
	return errors.CodeOf(err)
}
