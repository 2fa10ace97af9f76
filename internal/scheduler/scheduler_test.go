package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestAddAndRemoveTasks(t *testing.T) {
	s := New(nil)

	require.NoError(t, s.AddTask("refresh", "@every 1h", func(context.Context) error { return nil }))
	require.NoError(t, s.AddTask("cleanup", "0 3 * * *", func(context.Context) error { return nil }))
	require.NoError(t, s.AddTask("refresh", "@every 2h", func(context.Context) error { return nil }))

	assert.Equal(t, []string{"cleanup", "refresh"}, s.Tasks())

	s.RemoveTask("cleanup")
	s.RemoveTask("unknown")
	assert.Equal(t, []string{"refresh"}, s.Tasks())
}

func TestAddTaskInvalidSchedule(t *testing.T) {
	s := New(nil)

	assert.Error(t, s.AddTask("broken", "every tuesday", func(context.Context) error { return nil }))
	assert.Empty(t, s.Tasks())
}

func TestStartStop(t *testing.T) {
	s := New(nil)
	assert.False(t, s.IsRunning())

	s.Start()
	s.Start()
	assert.True(t, s.IsRunning())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.False(t, s.IsRunning())

	s.Stop(ctx)
}

func TestRunTaskLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := New(zap.New(core))

	var got context.Context
	s.runTask("refresh", func(ctx context.Context) error {
		got = ctx
		return errors.New("boom")
	})

	require.NotNil(t, got)
	_, hasDeadline := got.Deadline()
	assert.True(t, hasDeadline)

	failed := logs.FilterMessage("scheduled task failed")
	require.Equal(t, 1, failed.Len())
	assert.Equal(t, "refresh", failed.All()[0].ContextMap()["name"])
}

func TestRunTaskLogsCompletion(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := New(zap.New(core))

	s.runTask("refresh", func(context.Context) error { return nil })

	assert.Equal(t, 1, logs.FilterMessage("scheduled task completed").Len())
	assert.Zero(t, logs.FilterMessage("scheduled task failed").Len())
}
