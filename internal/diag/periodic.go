package diag

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/mj1618/screen-pilot/internal/engine"
)

// Periodic saves a screenshot every Interval until the context is done or
// Count captures have been taken (Count <= 0 means no limit).
type Periodic struct {
	Screen   ScreenSource
	Dir      string
	Interval time.Duration
	Count    int
	Clock    engine.Clock
	Logger   *slog.Logger
}

// Path returns the file name used for a capture taken at t.
func (p *Periodic) Path(t time.Time) string {
	return filepath.Join(p.Dir, "screenshot_"+t.Format(engine.ScreenshotTimeLayout)+".png")
}

// Run captures until cancelled. It returns the paths written. Cancellation is
// the normal way to stop an unbounded loop and is not reported as an error.
// A failed capture is logged and the loop continues.
func (p *Periodic) Run(ctx context.Context) ([]string, error) {
	clock := p.Clock
	if clock == nil {
		clock = engine.SystemClock{}
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := p.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}

	var saved []string
	for taken := 0; p.Count <= 0 || taken < p.Count; taken++ {
		if taken > 0 {
			if err := clock.Sleep(ctx, interval); err != nil {
				return saved, ignoreCancel(err)
			}
		}
		if err := ctx.Err(); err != nil {
			return saved, ignoreCancel(err)
		}

		path := p.Path(clock.Now())
		start := time.Now()
		data, err := p.Screen.CaptureScreen()
		if err == nil {
			err = writeFile(path, data)
		}
		if err != nil {
			logger.Error("screenshot failed", "path", path, "error", err)
			continue
		}
		saved = append(saved, path)
		logger.Info("screenshot saved",
			"path", path,
			"took_ms", float64(time.Since(start).Microseconds())/1000,
		)
	}
	return saved, nil
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
