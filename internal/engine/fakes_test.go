package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

// locateResult is one scripted answer of seqLocator.
type locateResult struct {
	pos   Position
	found bool
	err   error
}

var notFound = locateResult{}

func foundAt(x, y int) locateResult {
	return locateResult{pos: Position{X: x, Y: y}, found: true}
}

// seqLocator replays results in order and repeats the last one forever.
// onCall, when set, runs with the 1-based call number before answering.
type seqLocator struct {
	results []locateResult
	calls   int
	onCall  func(n int)
}

func (l *seqLocator) Locate(_ context.Context, _ MarkerID) (Position, bool, error) {
	i := l.calls
	if i >= len(l.results) {
		i = len(l.results) - 1
	}
	l.calls++
	if l.onCall != nil {
		l.onCall(l.calls)
	}
	r := l.results[i]
	return r.pos, r.found, r.err
}

type actCall struct {
	pos  Position
	kind ActionKind
}

type recordingActor struct {
	calls []actCall
	err   error
	onAct func()
}

func (a *recordingActor) Act(_ context.Context, pos Position, kind ActionKind) error {
	a.calls = append(a.calls, actCall{pos: pos, kind: kind})
	if a.onAct != nil {
		a.onAct()
	}
	return a.err
}

type fakeCapturer struct {
	paths       []string
	annotations []string
	err         error
}

func (c *fakeCapturer) CaptureFullScreen(_ context.Context, path, annotation string) error {
	c.paths = append(c.paths, path)
	c.annotations = append(c.annotations, annotation)
	return c.err
}

type seqWindows struct {
	results []Query[string]
	calls   int
	onCall  func(n int)
}

func (w *seqWindows) ActiveWindowTitle(context.Context) Query[string] {
	i := w.calls
	if i >= len(w.results) {
		i = len(w.results) - 1
	}
	w.calls++
	if w.onCall != nil {
		w.onCall(w.calls)
	}
	return w.results[i]
}

var errQuery = errors.New("platform call failed")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	clock    *fakeClock
	locator  *seqLocator
	actor    *recordingActor
	capturer *fakeCapturer
	windows  *seqWindows
	engine   *Engine
}

func newHarness(results ...locateResult) *harness {
	h := &harness{
		clock:    newFakeClock(),
		locator:  &seqLocator{results: results},
		actor:    &recordingActor{},
		capturer: &fakeCapturer{},
		windows:  &seqWindows{results: []Query[string]{Absent[string]()}},
	}
	logger := discardLogger()
	h.engine = New(Deps{
		Locator:   h.locator,
		Actor:     h.actor,
		Windows:   h.windows,
		Escalator: NewEscalator(h.capturer, h.clock, logger, ""),
		Clock:     h.clock,
		Logger:    logger,
	})
	return h
}
