package engine

// StepKind is the terminal state of a RetryingActionStep. The zero value
// means no terminal state was reached.
type StepKind int

const (
	StepUnset StepKind = iota
	StepFound
	StepExhausted
	StepEscalated
	StepCancelled
)

func (k StepKind) String() string {
	switch k {
	case StepFound:
		return "found"
	case StepExhausted:
		return "exhausted"
	case StepEscalated:
		return "escalated"
	case StepCancelled:
		return "cancelled"
	default:
		return "unset"
	}
}

// StepOutcome is the result of Engine.Execute.
type StepOutcome struct {
	Kind StepKind
	// Position is the first location the marker was found at during this step.
	Position Position
	// Locates counts every locate call, including disappearance checks.
	Locates int
	// Actions counts pointer actions performed, including re-attempts.
	Actions    int
	Escalation *Escalation
}

// Err returns the escalation as an error, or nil.
func (o StepOutcome) Err() error {
	if o.Escalation == nil {
		return nil
	}
	return o.Escalation
}

// WindowKind is the terminal state of a WindowWaiter. The zero value means
// no terminal state was reached.
type WindowKind int

const (
	WindowUnset WindowKind = iota
	WindowActivated
	WindowTimedOut
	WindowEscalated
	WindowCancelled
)

func (k WindowKind) String() string {
	switch k {
	case WindowActivated:
		return "activated"
	case WindowTimedOut:
		return "timed_out"
	case WindowEscalated:
		return "escalated"
	case WindowCancelled:
		return "cancelled"
	default:
		return "unset"
	}
}

// WindowWaitOutcome is the result of Engine.WaitForWindow.
type WindowWaitOutcome struct {
	Kind       WindowKind
	Title      string
	Polls      int
	Escalation *Escalation
}

// Err returns the escalation as an error, or nil.
func (o WindowWaitOutcome) Err() error {
	if o.Escalation == nil {
		return nil
	}
	return o.Escalation
}

// FailurePolicy selects what happens when a wait or retry budget runs out.
// The zero value escalates.
type FailurePolicy int

const (
	FailEscalate FailurePolicy = iota
	FailReturn
)
