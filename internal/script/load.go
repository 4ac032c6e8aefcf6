package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a script file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultPressPause is the pause after each key press when a step sets none.
const DefaultPressPause = 100 * time.Millisecond

// Defaults fill in parameters a step leaves unset.
type Defaults struct {
	Retries        engine.RetryBudget
	WindowMaxWait  time.Duration
	WindowInterval time.Duration
}

// FormatFor picks the encoding from a file extension. Anything other than
// .toml is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Load reads and parses the script at path. Relative marker paths are
// resolved against the script's directory.
func Load(path string, d Defaults) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	s, err := Parse(data, FormatFor(path), filepath.Dir(path), d)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

type rawScript struct {
	Name  string                              `yaml:"name"  toml:"name"`
	Steps []map[string]map[string]interface{} `yaml:"steps" toml:"steps"`
}

// Parse decodes a script. baseDir anchors relative marker paths ("" leaves
// them as written).
func Parse(data []byte, format Format, baseDir string, d Defaults) (*Script, error) {
	var raw rawScript
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse TOML script: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML script: %w", err)
		}
	}
	if len(raw.Steps) == 0 {
		return nil, fmt.Errorf("script has no steps")
	}

	s := &Script{Name: raw.Name}
	for i, rawStep := range raw.Steps {
		stepNum := i + 1
		if len(rawStep) != 1 {
			return nil, fmt.Errorf("step %d: expected exactly one step kind, got %d", stepNum, len(rawStep))
		}
		for kind, params := range rawStep {
			if params == nil {
				params = map[string]interface{}{}
			}
			step, warn, err := parseStep(Kind(kind), params, baseDir, d)
			if err != nil {
				return nil, fmt.Errorf("step %d (%s): %w", stepNum, kind, err)
			}
			if warn != "" {
				s.Warnings = append(s.Warnings, fmt.Sprintf("step %d (%s): %s", stepNum, kind, warn))
			}
			s.Steps = append(s.Steps, step)
		}
	}
	return s, nil
}

func parseStep(kind Kind, params map[string]interface{}, baseDir string, d Defaults) (Step, string, error) {
	step := Step{Kind: kind}
	var warn string

	if _, ok := params["unless_orientation"]; ok {
		deg, err := intParam(params, "unless_orientation", 0)
		if err != nil {
			return step, "", err
		}
		step.UnlessOrientation = &deg
	}

	switch kind {
	case KindFind:
		marker := stringParam(params, "marker", "")
		if marker == "" {
			return step, "", fmt.Errorf("marker is required")
		}
		if baseDir != "" && !filepath.IsAbs(marker) {
			marker = filepath.Join(baseDir, marker)
		}
		actionName := stringParam(params, "action", "click")
		action, known := engine.ParseActionKind(actionName)
		if !known {
			warn = fmt.Sprintf("unknown action %q, treating as none", actionName)
		}
		budget, err := budgetParam(params, "retries", d.Retries)
		if err != nil {
			return step, "", err
		}
		step.Find = engine.Step{
			Marker:               engine.MarkerID(marker),
			Action:               action,
			Budget:               budget,
			ConfirmDisappearance: boolParam(params, "wait_gone", false),
		}
		if _, ok := params["disappear_retries"]; ok {
			db, err := budgetParam(params, "disappear_retries", budget)
			if err != nil {
				return step, "", err
			}
			step.Find.DisappearBudget = &db
		}
		if boolParam(params, "no_escalate", false) {
			step.Find.OnExhausted = engine.FailReturn
		}

	case KindWaitWindow:
		title := stringParam(params, "title", "")
		if title == "" {
			return step, "", fmt.Errorf("title is required")
		}
		timeout, err := durationParam(params, "timeout", d.WindowMaxWait)
		if err != nil {
			return step, "", err
		}
		interval, err := durationParam(params, "interval", d.WindowInterval)
		if err != nil {
			return step, "", err
		}
		step.Window = engine.WindowWait{Substring: title, MaxWait: timeout, Interval: interval}
		if boolParam(params, "no_escalate", false) {
			step.Window.OnTimeout = engine.FailReturn
		}

	case KindSleep:
		dur, err := durationParam(params, "duration", 0)
		if err != nil {
			return step, "", err
		}
		if dur <= 0 {
			return step, "", fmt.Errorf("duration must be positive")
		}
		step.Duration = dur

	case KindPress:
		key := strings.ToLower(strings.TrimSpace(stringParam(params, "key", "")))
		if key == "" {
			return step, "", fmt.Errorf("key is required")
		}
		repeat, err := intParam(params, "repeat", 1)
		if err != nil {
			return step, "", err
		}
		if repeat < 1 {
			return step, "", fmt.Errorf("repeat must be at least 1")
		}
		pause, err := durationParam(params, "pause", DefaultPressPause)
		if err != nil {
			return step, "", err
		}
		step.Keys = []string{key}
		step.Repeat = repeat
		step.Duration = pause

	case KindHotkey:
		keys, err := keysParam(params, "keys")
		if err != nil {
			return step, "", err
		}
		step.Keys = keys

	case KindOpen:
		target := stringParam(params, "target", "")
		if target == "" {
			return step, "", fmt.Errorf("target is required")
		}
		step.Target = target

	default:
		return step, "", fmt.Errorf("unknown step kind (expected find, wait_window, sleep, press, hotkey or open)")
	}
	return step, warn, nil
}
