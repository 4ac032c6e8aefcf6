package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// ScreenshotTimeLayout formats the timestamp in diagnostic file names.
const ScreenshotTimeLayout = "20060102_150405"

// Escalation records an unrecoverable failure. It is carried by the Escalated
// outcome variants and propagated to the top-level driver, which exits non-zero.
type Escalation struct {
	Reason     string
	Screenshot string
	CaptureErr error
	At         time.Time
}

func (e *Escalation) Error() string {
	if e.Screenshot != "" && e.CaptureErr == nil {
		return fmt.Sprintf("%s (diagnostic screenshot: %s)", e.Reason, e.Screenshot)
	}
	return e.Reason
}

// IsEscalation reports whether err is, or wraps, an *Escalation.
func IsEscalation(err error) bool {
	var esc *Escalation
	return errors.As(err, &esc)
}

// Escalator is the single point of unrecoverable-failure handling: it saves a
// timestamped diagnostic screenshot and logs the reason.
type Escalator struct {
	capture Capturer
	clock   Clock
	logger  *slog.Logger
	dir     string
}

// NewEscalator creates an Escalator writing screenshots into dir ("" = working directory).
func NewEscalator(capture Capturer, clock Clock, logger *slog.Logger, dir string) *Escalator {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Escalator{capture: capture, clock: clock, logger: logger, dir: dir}
}

// ScreenshotPath returns the diagnostic file name for a failure at t.
func (e *Escalator) ScreenshotPath(t time.Time) string {
	name := "debug_screenshot_failure_" + t.Format(ScreenshotTimeLayout) + ".png"
	if e.dir == "" {
		return name
	}
	return filepath.Join(e.dir, name)
}

// Escalate captures diagnostics for reason. Capture failures are logged and
// recorded on the returned Escalation but never prevent it.
func (e *Escalator) Escalate(ctx context.Context, reason string, attrs ...any) *Escalation {
	now := e.clock.Now()
	esc := &Escalation{Reason: reason, At: now}
	e.logger.Error("run terminated", append([]any{"reason", reason}, attrs...)...)

	if e.capture == nil {
		esc.CaptureErr = fmt.Errorf("no screen capture available")
		e.logger.Error("could not save debug screenshot", "error", esc.CaptureErr)
		return esc
	}

	path := e.ScreenshotPath(now)
	start := time.Now()
	// Capture even when the run context is already cancelled.
	if err := e.capture.CaptureFullScreen(context.WithoutCancel(ctx), path, reason); err != nil {
		esc.CaptureErr = err
		e.logger.Error("could not save debug screenshot", "path", path, "error", err)
		return esc
	}
	esc.Screenshot = path
	e.logger.Info("saved debug screenshot",
		"path", path,
		"took_ms", float64(time.Since(start).Microseconds())/1000,
	)
	return esc
}
