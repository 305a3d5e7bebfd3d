// Package worker runs the lifecycle flows on a cron schedule.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pratik-mahalle/alertprobe/internal/domain/alert"
	"github.com/pratik-mahalle/alertprobe/internal/domain/scan"
	"github.com/pratik-mahalle/alertprobe/internal/lifecycle"
	"github.com/pratik-mahalle/alertprobe/internal/pkg/logger"
)

// Flow names a scheduled scenario
type Flow string

const (
	FlowManual Flow = lifecycle.FlowManual
	FlowAuto   Flow = lifecycle.FlowAutoProbe
)

// ParseFlow accepts "manual" or "auto"
func ParseFlow(s string) (Flow, error) {
	switch s {
	case string(FlowManual):
		return FlowManual, nil
	case "auto", string(FlowAuto):
		return FlowAuto, nil
	}
	return "", fmt.Errorf("unknown flow %q (want manual or auto)", s)
}

// Runner is the part of the orchestrator the scheduler drives
type Runner interface {
	PrepareManualCandidate(ctx context.Context) (*alert.Alert, *scan.Scan, error)
	RunManual(ctx context.Context, alertID string) (*lifecycle.ManualResult, error)
	RunAutoProbe(ctx context.Context) (*lifecycle.ProbeResult, error)
}

// Result is the outcome of one scheduled flow run
type Result struct {
	Flow      Flow              `json:"flow"`
	Outcome   lifecycle.Outcome `json:"outcome"`
	AlertID   string            `json:"alertId,omitempty"`
	StartedAt time.Time         `json:"startedAt"`
	Duration  time.Duration     `json:"duration"`
	Err       error             `json:"-"`
	Error     string            `json:"error,omitempty"`
}

// Scheduler runs flows periodically. Runs never overlap: a tick that fires
// while the previous run is still going is skipped.
type Scheduler struct {
	runner  Runner
	flows   []Flow
	timeout time.Duration
	logger  *logger.Logger

	cron    *cron.Cron
	entryID cron.EntryID

	mu      sync.RWMutex
	last    []Result
	runs    int
	running bool

	// BeforeRun, when set, is called at the start of every tick. A failure
	// fails every flow of that tick without running it.
	BeforeRun func(ctx context.Context) error
	// OnResult, when set, is called after every flow run
	OnResult func(Result)
}

// New creates a scheduler that runs flows in order on every tick, by default
// the auto probe and then the manual flow. A zero timeout leaves each run
// bounded only by the flows' own waits.
func New(runner Runner, flows []Flow, timeout time.Duration, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	if len(flows) == 0 {
		flows = []Flow{FlowAuto, FlowManual}
	}
	s := &Scheduler{
		runner:  runner,
		flows:   flows,
		timeout: timeout,
		logger:  log,
	}
	cl := cronLogger{log: log}
	s.cron = cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	return s
}

// Schedule registers the flows under a standard cron spec or descriptor
// such as "@every 5m". It may be called once.
func (s *Scheduler) Schedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron schedule: %w", err)
	}
	if s.entryID != 0 {
		return fmt.Errorf("scheduler already has a schedule")
	}

	id, err := s.cron.AddFunc(spec, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule: %w", err)
	}
	s.entryID = id

	s.logger.WithFields(map[string]interface{}{
		"schedule": spec,
		"flows":    s.flows,
	}).Info("Scheduled lifecycle flows")
	return nil
}

// Start begins running the schedule in the background
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("Lifecycle scheduler started")
}

// Stop halts the schedule and returns a context that is done once any
// in-flight run has finished.
func (s *Scheduler) Stop() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	ctx := s.cron.Stop()
	s.logger.Info("Lifecycle scheduler stopped")
	return ctx
}

// IsRunning reports whether the schedule is active
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// NextRun returns the next scheduled tick, or the zero time when no
// schedule is active.
func (s *Scheduler) NextRun() time.Time {
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// RunOnce runs every configured flow once, in order, and returns their results.
func (s *Scheduler) RunOnce(ctx context.Context) []Result {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var setupErr error
	if s.BeforeRun != nil {
		if err := s.BeforeRun(ctx); err != nil {
			setupErr = fmt.Errorf("prepare run: %w", err)
			s.logger.ErrorWithErr(err, "Failed to prepare scheduled run")
		}
	}

	results := make([]Result, 0, len(s.flows))
	for _, f := range s.flows {
		var res Result
		if setupErr != nil {
			res = Result{Flow: f, Outcome: lifecycle.OutcomeFail, StartedAt: time.Now(), Err: setupErr, Error: setupErr.Error()}
		} else {
			res = s.run(ctx, f)
		}
		results = append(results, res)
		if s.OnResult != nil {
			s.OnResult(res)
		}
	}

	s.mu.Lock()
	s.last = results
	s.runs++
	s.mu.Unlock()
	return results
}

// LastResults returns the results of the most recent completed tick
func (s *Scheduler) LastResults() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Result, len(s.last))
	copy(out, s.last)
	return out
}

// Runs returns how many ticks have completed
func (s *Scheduler) Runs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.runs
}

func (s *Scheduler) run(ctx context.Context, f Flow) Result {
	res := Result{Flow: f, StartedAt: time.Now()}

	switch f {
	case FlowManual:
		res.Outcome, res.AlertID, res.Err = s.runManual(ctx)
	case FlowAuto:
		res.Outcome, res.AlertID, res.Err = s.runAuto(ctx)
	default:
		res.Outcome, res.Err = lifecycle.OutcomeFail, fmt.Errorf("unknown flow %q", f)
	}
	res.Duration = time.Since(res.StartedAt)
	if res.Err != nil {
		res.Error = res.Err.Error()
	}

	log := s.logger.WithFields(map[string]interface{}{
		"flow":     f,
		"outcome":  res.Outcome,
		"alert_id": res.AlertID,
		"duration": res.Duration.String(),
	})
	switch res.Outcome {
	case lifecycle.OutcomePass:
		log.Info("Scheduled flow passed")
	case lifecycle.OutcomeKnownDefectReproduced:
		log.Warn("Scheduled flow reproduced known defect")
	default:
		log.ErrorWithErr(res.Err, "Scheduled flow failed")
	}
	return res
}

func (s *Scheduler) runManual(ctx context.Context) (lifecycle.Outcome, string, error) {
	candidate, _, err := s.runner.PrepareManualCandidate(ctx)
	if err != nil {
		return lifecycle.OutcomeFail, "", err
	}
	id := candidate.ID
	if _, err := s.runner.RunManual(ctx, id); err != nil {
		return lifecycle.OutcomeFail, id, err
	}
	return lifecycle.OutcomePass, id, nil
}

func (s *Scheduler) runAuto(ctx context.Context) (lifecycle.Outcome, string, error) {
	res, err := s.runner.RunAutoProbe(ctx)
	if err != nil {
		id := ""
		if res != nil {
			id = res.OriginalID
		}
		return lifecycle.OutcomeFail, id, err
	}
	return res.Outcome, res.OriginalID, res.Err()
}

// cronLogger routes cron's own logging through the structured logger
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithKV(keysAndValues...).Debug("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithKV(keysAndValues...).ErrorWithErr(err, "cron: "+msg)
}
