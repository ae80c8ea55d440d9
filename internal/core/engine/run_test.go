package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robosim/robosim/internal/core/arena"
	"github.com/robosim/robosim/internal/core/events/bus"
)

func TestRunTicksUntilCancelled(t *testing.T) {
	e := New(arena.NewScene(), bus.New(), nil, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return e.TickCount() > 0
	}, time.Second, time.Millisecond)
	assert.True(t, e.Running())

	cancel()
	require.NoError(t, <-done)
	assert.False(t, e.Running())
}

func TestRunRejectsSecondLoop(t *testing.T) {
	e := New(arena.NewScene(), bus.New(), nil, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	assert.Eventually(t, e.Running, time.Second, time.Millisecond)
	assert.Error(t, e.Run(ctx))

	e.Stop()
	require.NoError(t, <-done)
}

func TestStopIsIdempotent(t *testing.T) {
	e := New(arena.NewScene(), bus.New(), nil, time.Millisecond)

	e.Stop() // not running, no-op

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()
	assert.Eventually(t, e.Running, time.Second, time.Millisecond)

	e.Stop()
	e.Stop()
	require.NoError(t, <-done)
}

func TestPauseSuspendsTicking(t *testing.T) {
	e := New(arena.NewScene(), bus.New(), nil, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	assert.Eventually(t, func() bool {
		return e.TickCount() > 0
	}, time.Second, time.Millisecond)

	e.Pause()
	assert.True(t, e.Paused())
	frozen := e.TickCount()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frozen, e.TickCount(), "no ticks while paused")

	e.Resume()
	assert.False(t, e.Paused())
	assert.Eventually(t, func() bool {
		return e.TickCount() > frozen
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestLifecycleEvents(t *testing.T) {
	eventBus := bus.New()
	e := New(arena.NewScene(), eventBus, nil, time.Millisecond)

	events := make(chan string, 16)
	for _, typ := range []string{EventStarted, EventStopped, EventPaused, EventResumed} {
		eventBus.Subscribe(typ, func(ev bus.Event) { events <- ev.Type })
	}

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	assert.Equal(t, EventStarted, <-events)

	e.Pause()
	assert.Equal(t, EventPaused, <-events)
	e.Pause() // no event while already paused
	e.Resume()
	assert.Equal(t, EventResumed, <-events)

	e.Stop()
	require.NoError(t, <-done)
	assert.Equal(t, EventStopped, <-events)
}
