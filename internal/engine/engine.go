// Package engine implements the resilient action-execution core: locate a
// visual marker, act on it, optionally confirm it disappeared, and escalate to
// a diagnostic capture when the screen never reaches the expected state.
//
// The engine is single-threaded and blocking. Every sleep observes the
// context, so an operator interrupt aborts a wait promptly. Escalations are
// returned as values; the caller decides how to terminate the process.
package engine

import (
	"context"
	"log/slog"
	"time"
)

// DefaultPollInterval is the delay between locate and disappearance checks.
const DefaultPollInterval = time.Second

// Deps are the collaborators an Engine consumes.
type Deps struct {
	Locator     Locator
	Actor       Actor
	Windows     WindowOracle
	Orientation OrientationOracle
	Escalator   *Escalator
	Clock       Clock
	Logger      *slog.Logger
	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration
}

// Engine runs RetryingActionSteps and WindowWaits against one desktop session.
// It holds no state between calls.
type Engine struct {
	locator     Locator
	actor       Actor
	windows     WindowOracle
	orientation OrientationOracle
	escalator   *Escalator
	clock       Clock
	logger      *slog.Logger
	poll        time.Duration
}

// New creates an Engine. Missing Clock, Logger and Escalator get defaults.
func New(d Deps) *Engine {
	e := &Engine{
		locator:     d.Locator,
		actor:       d.Actor,
		windows:     d.Windows,
		orientation: d.Orientation,
		escalator:   d.Escalator,
		clock:       d.Clock,
		logger:      d.Logger,
		poll:        d.PollInterval,
	}
	if e.clock == nil {
		e.clock = SystemClock{}
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.poll <= 0 {
		e.poll = DefaultPollInterval
	}
	if e.escalator == nil {
		e.escalator = NewEscalator(nil, e.clock, e.logger, "")
	}
	return e
}

// Escalator returns the engine's failure escalator.
func (e *Engine) Escalator() *Escalator {
	return e.escalator
}

// Orientation queries the display orientation oracle.
func (e *Engine) Orientation(ctx context.Context) Query[int] {
	if e.orientation == nil {
		return Absent[int]()
	}
	return e.orientation.Orientation(ctx)
}
