package engine

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MarkerID identifies a visual marker, typically the path to a template image.
type MarkerID string

// Position is a screen coordinate in points.
type Position struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ActionKind is the pointer action performed on a located marker.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionClick
	ActionRightClick
)

func (a ActionKind) String() string {
	switch a {
	case ActionClick:
		return "click"
	case ActionRightClick:
		return "right_click"
	default:
		return "none"
	}
}

// ParseActionKind converts a flag or script value to an ActionKind.
// An empty value is a click. Unrecognized values map to ActionNone with
// known=false so the caller can warn.
func ParseActionKind(s string) (kind ActionKind, known bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "click", "left", "left_click", "":
		return ActionClick, true
	case "right_click", "right-click", "rightclick", "right":
		return ActionRightClick, true
	case "none", "locate":
		return ActionNone, true
	default:
		return ActionNone, false
	}
}

// Locator finds a marker on screen. found=false means the marker is not present.
// Implementations must not have side effects.
type Locator interface {
	Locate(ctx context.Context, marker MarkerID) (pos Position, found bool, err error)
}

// Actor performs a pointer action at a position. It must complete before returning.
type Actor interface {
	Act(ctx context.Context, pos Position, kind ActionKind) error
}

// WindowOracle reports the title of the focused window.
type WindowOracle interface {
	ActiveWindowTitle(ctx context.Context) Query[string]
}

// OrientationOracle reports the rotation of the primary display in degrees.
type OrientationOracle interface {
	Orientation(ctx context.Context) Query[int]
}

// Capturer saves a full-screen image to path. annotation may be drawn onto the image.
type Capturer interface {
	CaptureFullScreen(ctx context.Context, path string, annotation string) error
}

// Clock abstracts time for the polling loops.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
