package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robosim/robosim/internal/core/observability/log"
)

// Run drives the tick loop at the configured cadence until the context
// is cancelled or Stop is called. Pausing suspends ticking between
// ticks without touching any state; a resumed engine continues from
// exactly where it stopped.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return errors.New("engine is already running")
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.stopOnce = &sync.Once{}
	stop := e.stopChan
	robots := len(e.robots)
	e.mu.Unlock()

	e.logger.Info("engine started",
		log.Duration("tick_interval", e.tickInterval),
		log.Int("robots", robots))
	e.publish(EventStarted, uuid.Nil)

	defer func() {
		e.mu.Lock()
		e.running = false
		ticks := e.tickCount
		e.mu.Unlock()

		e.publish(EventStopped, uuid.Nil)
		e.logger.Info("engine stopped", log.Uint64("ticks", ticks))
	}()

	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-stop:
			return nil
		case <-ticker.C:
			if e.Paused() {
				continue
			}
			e.TickAll()
		}
	}
}

// Stop terminates a running loop after the current tick completes.
// Safe to call multiple times and while the engine is not running.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running && e.stopOnce != nil {
		e.stopOnce.Do(func() { close(e.stopChan) })
	}
}

// Pause suspends ticking after the current tick. No-op while paused.
func (e *Engine) Pause() {
	e.mu.Lock()
	already := e.paused
	e.paused = true
	e.mu.Unlock()

	if !already {
		e.publish(EventPaused, uuid.Nil)
		e.logger.Info("engine paused")
	}
}

// Resume continues ticking from where Pause left off.
func (e *Engine) Resume() {
	e.mu.Lock()
	already := !e.paused
	e.paused = false
	e.mu.Unlock()

	if !already {
		e.publish(EventResumed, uuid.Nil)
		e.logger.Info("engine resumed")
	}
}

// Paused reports whether ticking is suspended.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Running reports whether the tick loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// TickCount returns the number of completed ticks.
func (e *Engine) TickCount() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tickCount
}
