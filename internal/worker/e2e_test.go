package worker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/alertprobe/internal/lifecycle"
	"github.com/pratik-mahalle/alertprobe/internal/testutil"
	"github.com/pratik-mahalle/alertprobe/internal/worker"
)

func TestRunOnce_AgainstMockBackend(t *testing.T) {
	b := testutil.NewBackend(t, testutil.Options{})
	orch := lifecycle.New(lifecycle.NewClientBackend(b.Client), lifecycle.Options{
		Poll:     b.PollOptions(),
		ScanPoll: b.PollOptions(),
	}, nil)

	s := worker.New(orch, nil, 0, nil)
	results := s.RunOnce(context.Background())
	require.Len(t, results, 2)

	assert.Equal(t, worker.FlowAuto, results[0].Flow)
	assert.Equal(t, lifecycle.OutcomeKnownDefectReproduced, results[0].Outcome, results[0].Error)
	assert.Equal(t, worker.FlowManual, results[1].Flow)
	assert.Equal(t, lifecycle.OutcomePass, results[1].Outcome, results[1].Error)
}
