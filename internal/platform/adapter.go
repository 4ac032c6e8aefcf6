package platform

import (
	"context"
	"fmt"

	"github.com/mj1618/screen-pilot/internal/engine"
)

// Actor performs engine actions through an Inputter.
type Actor struct {
	Inputter Inputter
}

// Act clicks at pos with the button matching kind. ActionNone is a no-op.
func (a Actor) Act(_ context.Context, pos engine.Position, kind engine.ActionKind) error {
	var button MouseButton
	switch kind {
	case engine.ActionClick:
		button = MouseLeft
	case engine.ActionRightClick:
		button = MouseRight
	default:
		return nil
	}
	if a.Inputter == nil {
		return fmt.Errorf("input not available on this platform")
	}
	return a.Inputter.Click(pos.X, pos.Y, button, 1)
}

// WindowOracle reports the focused window title through a WindowManager.
type WindowOracle struct {
	WindowManager WindowManager
}

func (o WindowOracle) ActiveWindowTitle(context.Context) engine.Query[string] {
	if o.WindowManager == nil {
		return engine.Failed[string](fmt.Errorf("window manager not available on this platform"))
	}
	title, ok, err := o.WindowManager.FocusedWindowTitle()
	switch {
	case err != nil:
		return engine.Failed[string](err)
	case !ok:
		return engine.Absent[string]()
	default:
		return engine.Value(title)
	}
}

// OrientationOracle reports display rotation through a Display.
type OrientationOracle struct {
	Display Display
}

func (o OrientationOracle) Orientation(context.Context) engine.Query[int] {
	if o.Display == nil {
		return engine.Failed[int](fmt.Errorf("display not available on this platform"))
	}
	deg, err := o.Display.Rotation()
	if err != nil {
		return engine.Failed[int](err)
	}
	return engine.Value(deg)
}
