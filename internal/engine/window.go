package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Default window wait settings.
const (
	DefaultWindowMaxWait  = 30 * time.Second
	DefaultWindowInterval = time.Second
)

// WindowWait describes a wait for the focused window's title to contain Substring.
type WindowWait struct {
	Substring string
	MaxWait   time.Duration
	Interval  time.Duration
	// OnTimeout escalates by default; FailReturn yields WindowTimedOut.
	OnTimeout FailurePolicy
}

// WaitForWindow polls the window oracle until the focused window's title
// contains w.Substring (case-sensitive) or w.MaxWait elapses. A failed oracle
// query counts as "no window" for that poll. The returned error is non-nil
// only when ctx is cancelled; the outcome is then WindowCancelled and nothing
// is escalated.
func (e *Engine) WaitForWindow(ctx context.Context, w WindowWait) (WindowWaitOutcome, error) {
	maxWait := w.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultWindowMaxWait
	}
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultWindowInterval
	}
	log := e.logger.With("window", w.Substring)
	log.Info("waiting for window", "max_wait", maxWait.String())

	var out WindowWaitOutcome
	start := e.clock.Now()
	for {
		out.Polls++
		q := e.activeTitle(ctx)
		if err := ctx.Err(); err != nil {
			out.Kind = WindowCancelled
			return out, err
		}
		switch q.Status {
		case QueryValue:
			if strings.Contains(q.Value, w.Substring) {
				log.Info("target window active", "title", q.Value, "polls", out.Polls)
				out.Kind = WindowActivated
				out.Title = q.Value
				return out, nil
			}
		case QueryFailed:
			log.Debug("active window query failed", "error", q.Err)
		}

		if e.clock.Now().Sub(start) >= maxWait {
			log.Error("timeout waiting for window", "max_wait", maxWait.String(), "polls", out.Polls)
			if w.OnTimeout == FailReturn {
				out.Kind = WindowTimedOut
				return out, nil
			}
			out.Kind = WindowEscalated
			out.Escalation = e.escalator.Escalate(ctx,
				fmt.Sprintf("timeout waiting for window %q after %s", w.Substring, maxWait),
				"window", w.Substring)
			return out, nil
		}

		log.Info("still waiting for window", "retry_in", interval.String())
		if err := e.clock.Sleep(ctx, interval); err != nil {
			out.Kind = WindowCancelled
			return out, err
		}
	}
}

func (e *Engine) activeTitle(ctx context.Context) Query[string] {
	if e.windows == nil {
		return Failed[string](fmt.Errorf("no window oracle configured"))
	}
	return e.windows.ActiveWindowTitle(ctx)
}
