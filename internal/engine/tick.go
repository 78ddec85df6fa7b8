// Package engine provides the city simulation: the tick cycle, the fire and
// settlement models, building placement, tender resolution, and the
// fixed-interval loop that drives them.
package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the real time between ticks at speed 1.
const DefaultInterval = 5 * time.Second

// Engine drives the simulation forward.
type Engine struct {
	Interval time.Duration // base tick interval

	// OnTick is called once per tick.
	OnTick func(tick uint64)

	mu    sync.Mutex
	speed float64 // 1.0 = real-time, 0 = paused
	ticks uint64  // ticks fired by this engine
}

// NewEngine creates an engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Interval: DefaultInterval,
		speed:    1.0,
	}
}

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// Ticks returns how many ticks this engine has fired.
func (e *Engine) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// SetSpeed changes the speed multiplier. Zero pauses the loop.
func (e *Engine) SetSpeed(speed float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = speed
}

// Run fires ticks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	slog.Info("simulation engine started", "tick", e.Ticks(), "interval", e.Interval)

	for {
		speed := e.Speed()
		if speed <= 0 {
			// Paused, check again shortly.
			if !sleep(ctx, 100*time.Millisecond) {
				break
			}
			continue
		}

		start := time.Now()
		e.step()

		target := time.Duration(float64(e.Interval) / speed)
		if !sleep(ctx, target-time.Since(start)) {
			break
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Ticks())
}

func (e *Engine) step() {
	e.mu.Lock()
	e.ticks++
	tick := e.ticks
	e.mu.Unlock()
	if e.OnTick != nil {
		e.OnTick(tick)
	}
}

// sleep waits for d or until ctx is done. It reports false when cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
