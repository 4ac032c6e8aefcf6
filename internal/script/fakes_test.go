package script

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mj1618/screen-pilot/internal/engine"
)

type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
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

// desktop is a fake screen: visible markers at fixed positions, a focused
// window title and a display rotation. Clicking a marker listed in hideOnClick
// removes it from the screen.
type desktop struct {
	visible     map[engine.MarkerID]engine.Position
	hideOnClick map[engine.MarkerID]bool
	title       string
	rotation    engine.Query[int]

	acts     []engine.MarkerID
	keys     [][]string
	keyErr   error
	opened   []string
	openErr  error
	captures []string
}

func newDesktop() *desktop {
	return &desktop{
		visible:     make(map[engine.MarkerID]engine.Position),
		hideOnClick: make(map[engine.MarkerID]bool),
		rotation:    engine.Value(0),
	}
}

func (d *desktop) Locate(_ context.Context, m engine.MarkerID) (engine.Position, bool, error) {
	pos, ok := d.visible[m]
	return pos, ok, nil
}

func (d *desktop) Act(_ context.Context, pos engine.Position, _ engine.ActionKind) error {
	for m, p := range d.visible {
		if p == pos {
			d.acts = append(d.acts, m)
			if d.hideOnClick[m] {
				delete(d.visible, m)
			}
			return nil
		}
	}
	return errors.New("clicked on nothing")
}

func (d *desktop) ActiveWindowTitle(context.Context) engine.Query[string] {
	if d.title == "" {
		return engine.Absent[string]()
	}
	return engine.Value(d.title)
}

func (d *desktop) Orientation(context.Context) engine.Query[int] { return d.rotation }

func (d *desktop) CaptureFullScreen(_ context.Context, path, _ string) error {
	d.captures = append(d.captures, path)
	return nil
}

func (d *desktop) KeyCombo(keys []string) error {
	d.keys = append(d.keys, keys)
	return d.keyErr
}

func (d *desktop) Open(target string) error {
	d.opened = append(d.opened, target)
	return d.openErr
}

func newRunner(d *desktop) (*Runner, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(engine.Deps{
		Locator:     d,
		Actor:       d,
		Windows:     d,
		Orientation: d,
		Escalator:   engine.NewEscalator(d, clock, logger, ""),
		Clock:       clock,
		Logger:      logger,
	})
	return &Runner{Engine: eng, Keys: d, Launcher: d, Clock: clock, Logger: logger}, clock
}

func intPtr(v int) *int { return &v }
