package bot_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/counsellor/internal/bot"
	"github.com/edgard/counsellor/internal/bot/tasks"
	"github.com/edgard/counsellor/internal/config"
	"github.com/edgard/counsellor/internal/logger"
)

type blockingRunner struct{ err error }

func (r blockingRunner) Run(ctx context.Context) error {
	if r.err != nil {
		return r.err
	}
	<-ctx.Done()
	return nil
}

func TestApp_StopsOnCancel(t *testing.T) {
	t.Parallel()

	sched, err := bot.NewScheduler(logger.Discard(), &config.SchedulerConfig{}, nil)
	require.NoError(t, err)
	app := bot.NewApp(logger.Discard(), blockingRunner{}, nil, sched)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestApp_ComponentFailureStopsEverything(t *testing.T) {
	t.Parallel()

	sched, err := bot.NewScheduler(logger.Discard(), &config.SchedulerConfig{}, nil)
	require.NoError(t, err)
	app := bot.NewApp(logger.Discard(), blockingRunner{err: errors.New("port in use")}, nil, sched)

	err = app.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port in use")
}

func TestScheduler_RunsEnabledTasks(t *testing.T) {
	t.Parallel()

	var runs, disabledRuns atomic.Int32
	ran := make(chan struct{}, 1)
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"tick": func(context.Context) error {
			runs.Add(1)
			select {
			case ran <- struct{}{}:
			default:
			}
			return nil
		},
		"off": func(context.Context) error {
			disabledRuns.Add(1)
			return nil
		},
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"tick":    {Enabled: true, Schedule: "* * * * * *"},
		"off":     {Enabled: false, Schedule: "* * * * * *"},
		"missing": {Enabled: true, Schedule: "* * * * * *"},
		"bad":     {Enabled: true, Schedule: "not a cron"},
	}}
	taskMap["bad"] = taskMap["off"]

	sched, err := bot.NewScheduler(logger.Discard(), cfg, taskMap)
	require.NoError(t, err)
	require.NoError(t, sched.Start())
	assert.Error(t, sched.Start(), "double start is rejected")

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("task did not run")
	}
	require.NoError(t, sched.Stop())
	require.NoError(t, sched.Stop(), "stopping twice is a no-op")

	assert.Positive(t, runs.Load())
	assert.Zero(t, disabledRuns.Load())
}
