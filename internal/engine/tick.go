// Package engine provides the tick-based loop driving the Terminal
// Network, plus periodic persistence and summary cadences layered on
// top of the per-tick run.
package engine

import (
	"log/slog"
	"time"
)

// TickSchedule defines when each cadence layer runs relative to the
// tick counter. The Terminal Network itself runs every tick; slower
// cadences only persist or summarize its accumulated state.
const (
	TicksPerHour = 60   // 60 ticks = 1 persistence cycle
	TicksPerDay  = 1440 // 24 hours x 60 = 1 summary cycle
)

// Engine drives the Terminal Network forward one tick at a time.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval (default 1 second)
	Running  bool

	// OnTick runs every tick: the Terminal Network's refresh/init/run
	// pipeline. OnHour persists accumulated state. OnDay logs/prints a
	// tier summary.
	OnTick func(tick uint64)
	OnHour func(tick uint64)
	OnDay  func(tick uint64)
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run starts the tick loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("terminal network engine started", "tick", e.Tick, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		e.step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("terminal network engine stopped", "tick", e.Tick)
}

// Stop halts the tick loop.
func (e *Engine) Stop() {
	e.Running = false
}

// step advances the engine by one tick.
func (e *Engine) step() {
	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}
	if e.Tick%TicksPerHour == 0 && e.OnHour != nil {
		e.OnHour(e.Tick)
	}
	if e.Tick%TicksPerDay == 0 && e.OnDay != nil {
		e.OnDay(e.Tick)
	}
}
