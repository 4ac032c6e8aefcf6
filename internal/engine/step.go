package engine

import (
	"context"
	"fmt"
)

// Step describes one find-and-act invocation.
type Step struct {
	Marker MarkerID
	Action ActionKind
	// Budget bounds the locate loop.
	Budget RetryBudget
	// DisappearBudget bounds re-attempts while confirming disappearance.
	// nil means the same as Budget.
	DisappearBudget *RetryBudget
	// ConfirmDisappearance re-polls after the action until the marker is gone,
	// re-applying the action at the marker's latest position while it persists.
	ConfirmDisappearance bool
	// OnExhausted controls a locate loop that runs out of budget.
	// Disappearance failures always escalate.
	OnExhausted FailurePolicy
}

// Execute locates step.Marker, performs step.Action on it and optionally
// confirms the marker disappeared. The returned error is non-nil only when ctx
// is cancelled; the outcome is then StepCancelled and nothing is acted on or
// escalated. Every other failure is reported in the outcome.
func (e *Engine) Execute(ctx context.Context, step Step) (StepOutcome, error) {
	log := e.logger.With("marker", string(step.Marker), "action", step.Action.String())
	var out StepOutcome

	attempt := 0
	var first Position
	for {
		pos, found := e.locate(ctx, step.Marker, &out)
		if err := ctx.Err(); err != nil {
			return cancelled(out, err)
		}
		if found {
			first = pos
			log.Info("found marker", "position", pos.String(), "attempt", attempt+1)
			break
		}
		attempt++
		if step.Budget.Reached(attempt) {
			log.Error("marker not found, max retries reached", "attempt", step.Budget.Progress(attempt))
			if step.OnExhausted == FailReturn {
				out.Kind = StepExhausted
				return out, nil
			}
			return e.escalate(ctx, out, fmt.Sprintf("marker never appeared: %s", step.Marker),
				"attempts", attempt), nil
		}
		log.Info("marker not found on screen, retrying",
			"attempt", step.Budget.Progress(attempt),
			"delay", e.poll.String(),
		)
		if err := e.clock.Sleep(ctx, e.poll); err != nil {
			return cancelled(out, err)
		}
	}
	out.Position = first

	if step.Action == ActionNone {
		log.Info("no action for marker", "position", first.String())
		if step.ConfirmDisappearance {
			log.Warn("disappearance check skipped: no action was performed to make the marker disappear")
		}
		out.Kind = StepFound
		return out, nil
	}

	if res, err := e.act(ctx, step, first, &out); res != nil {
		return *res, err
	}

	if !step.ConfirmDisappearance {
		out.Kind = StepFound
		return out, nil
	}
	return e.confirmDisappearance(ctx, step, out)
}

func (e *Engine) confirmDisappearance(ctx context.Context, step Step, out StepOutcome) (StepOutcome, error) {
	budget := step.Budget
	if step.DisappearBudget != nil {
		budget = *step.DisappearBudget
	}
	log := e.logger.With("marker", string(step.Marker), "action", step.Action.String())
	log.Info("waiting for marker to disappear", "max_reattempts", budget.String())

	reattempts := 0
	for {
		if err := e.clock.Sleep(ctx, e.poll); err != nil {
			return cancelled(out, err)
		}
		pos, found := e.locate(ctx, step.Marker, &out)
		if err := ctx.Err(); err != nil {
			return cancelled(out, err)
		}
		if !found {
			log.Info("marker disappeared", "total_actions", out.Actions)
			out.Kind = StepFound
			return out, nil
		}
		if budget.Reached(reattempts) {
			log.Error("marker did not disappear, max retries reached", "reattempts", reattempts)
			return e.escalate(ctx, out,
				fmt.Sprintf("marker failed to disappear after %d re-attempts of the action: %s", reattempts, step.Marker),
				"reattempts", reattempts), nil
		}
		log.Info("marker still visible, re-attempting action",
			"position", pos.String(),
			"reattempt", budget.Progress(reattempts+1),
		)
		if res, err := e.act(ctx, step, pos, &out); res != nil {
			return *res, err
		}
		reattempts++
	}
}

// locate asks the locator once. Locator errors count as "not found" for this tick.
func (e *Engine) locate(ctx context.Context, marker MarkerID, out *StepOutcome) (Position, bool) {
	out.Locates++
	pos, found, err := e.locator.Locate(ctx, marker)
	if err != nil {
		e.logger.Warn("locate failed", "marker", string(marker), "error", err)
		return Position{}, false
	}
	return pos, found
}

// act performs the step's action at pos. A non-nil outcome ends the step: an
// action failure escalates, and a cancelled ctx returns StepCancelled with
// ctx.Err().
func (e *Engine) act(ctx context.Context, step Step, pos Position, out *StepOutcome) (*StepOutcome, error) {
	if err := ctx.Err(); err != nil {
		res, _ := cancelled(*out, err)
		return &res, err
	}
	out.Actions++
	if err := e.actor.Act(ctx, pos, step.Action); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			res, _ := cancelled(*out, ctxErr)
			return &res, ctxErr
		}
		res := e.escalate(ctx, *out,
			fmt.Sprintf("action %s failed on marker %s: %v", step.Action, step.Marker, err),
			"position", pos.String())
		return &res, nil
	}
	e.logger.Info("performed action", "marker", string(step.Marker), "action", step.Action.String(), "position", pos.String())
	return nil, nil
}

func cancelled(out StepOutcome, err error) (StepOutcome, error) {
	out.Kind = StepCancelled
	return out, err
}

func (e *Engine) escalate(ctx context.Context, out StepOutcome, reason string, attrs ...any) StepOutcome {
	out.Kind = StepEscalated
	out.Escalation = e.escalator.Escalate(ctx, reason, attrs...)
	return out
}
