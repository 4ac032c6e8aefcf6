// Package script loads and runs linear automation scripts: ordered lists of
// find, wait_window, sleep, press, hotkey and open steps.
//
// A script file is YAML or TOML. Each step is a single-key map naming the
// step kind, with its parameters as the value:
//
//	name: tablet-mode
//	steps:
//	  - wait_window: { title: ThinkbookEinkPlus }
//	  - sleep: { duration: 4s }
//	  - find: { marker: markers/switch-to-tablet.png, retries: inf }
//	  - find: { marker: markers/lenovo-logo.png, action: right_click, unless_orientation: 90 }
//	  - find: { marker: markers/windows-logo.png, wait_gone: true }
//	  - open: { target: "ms-settings:easeofaccess-highcontrast" }
//	  - press: { key: down, repeat: 5, pause: 100ms }
//	  - hotkey: { keys: alt+f4 }
package script

import (
	"fmt"
	"time"

	"github.com/mj1618/screen-pilot/internal/engine"
)

// Kind names a step type.
type Kind string

const (
	KindFind       Kind = "find"
	KindWaitWindow Kind = "wait_window"
	KindSleep      Kind = "sleep"
	KindPress      Kind = "press"
	KindHotkey     Kind = "hotkey"
	KindOpen       Kind = "open"
)

// Script is a named, ordered list of steps.
type Script struct {
	Name  string
	Steps []Step
	// Warnings collects non-fatal problems found while parsing, such as
	// unknown action kinds that were downgraded to "none".
	Warnings []string
}

// Step is one script instruction. Only the fields for Kind are set.
type Step struct {
	Kind Kind

	// Find is set for KindFind.
	Find engine.Step
	// Window is set for KindWaitWindow.
	Window engine.WindowWait

	// Duration is the sleep length (KindSleep) or the pause after each key
	// press (KindPress).
	Duration time.Duration
	// Keys is the key (KindPress) or combination (KindHotkey).
	Keys []string
	// Repeat is how many times a press step presses its key.
	Repeat int
	// Target is the URI, file or application to open.
	Target string

	// UnlessOrientation skips the step when the display already reports this
	// rotation in degrees.
	UnlessOrientation *int
}

// Describe returns a short human-readable summary of the step.
func (s Step) Describe() string {
	switch s.Kind {
	case KindFind:
		d := fmt.Sprintf("%s %s (retries %s)", s.Find.Action, s.Find.Marker, s.Find.Budget)
		if s.Find.ConfirmDisappearance {
			d += ", wait gone"
		}
		return d
	case KindWaitWindow:
		return fmt.Sprintf("wait for window %q", s.Window.Substring)
	case KindSleep:
		return "sleep " + s.Duration.String()
	case KindPress:
		if s.Repeat > 1 {
			return fmt.Sprintf("press %s x%d", s.Keys[0], s.Repeat)
		}
		return "press " + s.Keys[0]
	case KindHotkey:
		return fmt.Sprintf("hotkey %v", s.Keys)
	case KindOpen:
		return "open " + s.Target
	}
	return string(s.Kind)
}

// Markers returns every marker the script refers to, in order.
func (s *Script) Markers() []engine.MarkerID {
	var out []engine.MarkerID
	seen := make(map[engine.MarkerID]bool)
	for _, st := range s.Steps {
		if st.Kind == KindFind && !seen[st.Find.Marker] {
			seen[st.Find.Marker] = true
			out = append(out, st.Find.Marker)
		}
	}
	return out
}
