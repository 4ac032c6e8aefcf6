package script

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mj1618/screen-pilot/internal/engine"
)

// KeyPresser sends key presses and combinations.
type KeyPresser interface {
	KeyCombo(keys []string) error
}

// Launcher opens URIs, files and applications.
type Launcher interface {
	Open(target string) error
}

// StepStatus is the result of one script step.
type StepStatus string

const (
	StatusOK        StepStatus = "ok"
	StatusSkipped   StepStatus = "skipped"
	StatusExhausted StepStatus = "exhausted"
	StatusTimedOut  StepStatus = "timed_out"
	StatusEscalated StepStatus = "escalated"
	StatusCancelled StepStatus = "cancelled"
)

// StepReport is the output for a single step.
type StepReport struct {
	Step        int        `yaml:"step"               json:"step"`
	Kind        Kind       `yaml:"kind"               json:"kind"`
	Description string     `yaml:"description"        json:"description"`
	Status      StepStatus `yaml:"status"             json:"status"`
	Position    string     `yaml:"position,omitempty" json:"position,omitempty"`
	Window      string     `yaml:"window,omitempty"   json:"window,omitempty"`
	Error       string     `yaml:"error,omitempty"    json:"error,omitempty"`
	Elapsed     string     `yaml:"elapsed,omitempty"  json:"elapsed,omitempty"`
}

// Report is the output of a script run.
type Report struct {
	Name       string       `yaml:"name"                 json:"name"`
	OK         bool         `yaml:"ok"                   json:"ok"`
	Steps      int          `yaml:"steps"                json:"steps"`
	Completed  int          `yaml:"completed"            json:"completed"`
	Error      string       `yaml:"error,omitempty"      json:"error,omitempty"`
	Screenshot string       `yaml:"screenshot,omitempty" json:"screenshot,omitempty"`
	Results    []StepReport `yaml:"results"              json:"results"`
}

// Runner executes scripts step by step against an Engine.
type Runner struct {
	Engine   *engine.Engine
	Keys     KeyPresser
	Launcher Launcher
	Clock    engine.Clock
	Logger   *slog.Logger
}

// Run executes s in order. It stops at the first escalation and returns it as
// the error (an *engine.Escalation), or at cancellation with ctx.Err().
// Steps marked no_escalate that exhaust their budget are recorded and the run
// continues. The report is always returned.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	clock := r.Clock
	if clock == nil {
		clock = engine.SystemClock{}
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("script", s.Name)
	for _, w := range s.Warnings {
		logger.Warn(w)
	}

	report := &Report{Name: s.Name, Steps: len(s.Steps), Results: make([]StepReport, 0, len(s.Steps))}
	logger.Info("script started", "steps", len(s.Steps))

	for i, st := range s.Steps {
		res := StepReport{Step: i + 1, Kind: st.Kind, Description: st.Describe()}
		log := logger.With("step", i+1, "kind", string(st.Kind))

		if err := ctx.Err(); err != nil {
			res.Status = StatusCancelled
			report.Results = append(report.Results, res)
			report.Error = err.Error()
			return report, err
		}

		if r.skip(ctx, st, log) {
			res.Status = StatusSkipped
			report.Results = append(report.Results, res)
			report.Completed++
			continue
		}

		log.Info("running step", "description", res.Description)
		start := time.Now()
		esc, err := r.runStep(ctx, st, &res, clock, log)
		res.Elapsed = time.Since(start).Round(time.Millisecond).String()
		switch {
		case esc != nil:
			res.Status = StatusEscalated
			res.Error = esc.Reason
			report.Results = append(report.Results, res)
			report.Error = esc.Error()
			report.Screenshot = esc.Screenshot
			return report, esc
		case err != nil:
			res.Status = StatusCancelled
			report.Results = append(report.Results, res)
			report.Error = err.Error()
			return report, err
		}
		report.Results = append(report.Results, res)
		report.Completed++
	}

	report.OK = true
	logger.Info("script completed", "steps", len(s.Steps))
	return report, nil
}

// skip reports whether the step's orientation guard is already satisfied.
// An orientation that cannot be read never skips.
func (r *Runner) skip(ctx context.Context, st Step, log *slog.Logger) bool {
	if st.UnlessOrientation == nil {
		return false
	}
	q := r.Engine.Orientation(ctx)
	if !q.Ok() {
		log.Warn("display orientation unknown, running step", "orientation", q.String())
		return false
	}
	if q.Value == *st.UnlessOrientation {
		log.Info("display already at orientation, skipping step", "orientation", q.Value)
		return true
	}
	log.Info("display orientation differs, running step", "orientation", q.Value, "want", *st.UnlessOrientation)
	return false
}

func (r *Runner) runStep(ctx context.Context, st Step, res *StepReport, clock engine.Clock, log *slog.Logger) (*engine.Escalation, error) {
	switch st.Kind {
	case KindFind:
		out, err := r.Engine.Execute(ctx, st.Find)
		if err != nil {
			return nil, err
		}
		switch out.Kind {
		case engine.StepFound:
			res.Status = StatusOK
			res.Position = out.Position.String()
		case engine.StepExhausted:
			res.Status = StatusExhausted
		}
		return out.Escalation, nil

	case KindWaitWindow:
		out, err := r.Engine.WaitForWindow(ctx, st.Window)
		if err != nil {
			return nil, err
		}
		switch out.Kind {
		case engine.WindowActivated:
			res.Status = StatusOK
			res.Window = out.Title
		case engine.WindowTimedOut:
			res.Status = StatusTimedOut
		}
		return out.Escalation, nil

	case KindSleep:
		if err := clock.Sleep(ctx, st.Duration); err != nil {
			return nil, err
		}

	case KindPress:
		for n := 0; n < st.Repeat; n++ {
			if esc := r.press(ctx, st.Keys, log); esc != nil {
				return esc, nil
			}
			if st.Duration > 0 {
				if err := clock.Sleep(ctx, st.Duration); err != nil {
					return nil, err
				}
			}
		}

	case KindHotkey:
		if esc := r.press(ctx, st.Keys, log); esc != nil {
			return esc, nil
		}

	case KindOpen:
		if r.Launcher == nil {
			return r.Engine.Escalator().Escalate(ctx, "launching is not available on this platform", "target", st.Target), nil
		}
		log.Info("opening", "target", st.Target)
		if err := r.Launcher.Open(st.Target); err != nil {
			return r.Engine.Escalator().Escalate(ctx, fmt.Sprintf("failed to open %s: %v", st.Target, err)), nil
		}

	default:
		return nil, fmt.Errorf("unknown step kind %q", st.Kind)
	}
	res.Status = StatusOK
	return nil, nil
}

func (r *Runner) press(ctx context.Context, keys []string, log *slog.Logger) *engine.Escalation {
	combo := strings.Join(keys, "+")
	if r.Keys == nil {
		return r.Engine.Escalator().Escalate(ctx, "keyboard input is not available on this platform", "keys", combo)
	}
	log.Info("pressing keys", "keys", combo)
	if err := r.Keys.KeyCombo(keys); err != nil {
		return r.Engine.Escalator().Escalate(ctx, fmt.Sprintf("key press failed: %s: %v", combo, err))
	}
	return nil
}
