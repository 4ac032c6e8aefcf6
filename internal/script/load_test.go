package script

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = Defaults{
	Retries:        engine.Finite(3),
	WindowMaxWait:  30 * time.Second,
	WindowInterval: time.Second,
}

const tabletYAML = `
name: tablet-mode
steps:
  - wait_window: { title: ThinkbookEinkPlus }
  - sleep: { duration: 4s }
  - find: { marker: markers/switch-to-tablet.png, retries: inf }
  - find: { marker: markers/lenovo-logo.png, action: right_click, unless_orientation: 90 }
  - find: { marker: markers/windows-logo.png, wait_gone: true, disappear_retries: 5 }
  - open: { target: "ms-settings:easeofaccess-highcontrast" }
  - wait_window: { title: Settings, timeout: 10, interval: 0.5, no_escalate: true }
  - press: { key: Down, repeat: 5, pause: 100ms }
  - hotkey: { keys: alt+f4 }
`

func TestParse_YAML(t *testing.T) {
	s, err := Parse([]byte(tabletYAML), FormatYAML, "/scripts", testDefaults)
	require.NoError(t, err)
	assert.Equal(t, "tablet-mode", s.Name)
	require.Len(t, s.Steps, 9)
	assert.Empty(t, s.Warnings)

	assert.Equal(t, KindWaitWindow, s.Steps[0].Kind)
	assert.Equal(t, "ThinkbookEinkPlus", s.Steps[0].Window.Substring)
	assert.Equal(t, 30*time.Second, s.Steps[0].Window.MaxWait)
	assert.Equal(t, engine.FailEscalate, s.Steps[0].Window.OnTimeout)

	assert.Equal(t, 4*time.Second, s.Steps[1].Duration)

	find := s.Steps[2].Find
	assert.Equal(t, engine.MarkerID(filepath.Join("/scripts", "markers/switch-to-tablet.png")), find.Marker)
	assert.Equal(t, engine.ActionClick, find.Action)
	assert.True(t, find.Budget.IsUnbounded())
	assert.Nil(t, s.Steps[2].UnlessOrientation)

	assert.Equal(t, engine.ActionRightClick, s.Steps[3].Find.Action)
	assert.Equal(t, 3, s.Steps[3].Find.Budget.Limit())
	require.NotNil(t, s.Steps[3].UnlessOrientation)
	assert.Equal(t, 90, *s.Steps[3].UnlessOrientation)

	assert.True(t, s.Steps[4].Find.ConfirmDisappearance)
	require.NotNil(t, s.Steps[4].Find.DisappearBudget)
	assert.Equal(t, 5, s.Steps[4].Find.DisappearBudget.Limit())

	assert.Equal(t, "ms-settings:easeofaccess-highcontrast", s.Steps[5].Target)

	assert.Equal(t, 10*time.Second, s.Steps[6].Window.MaxWait)
	assert.Equal(t, 500*time.Millisecond, s.Steps[6].Window.Interval)
	assert.Equal(t, engine.FailReturn, s.Steps[6].Window.OnTimeout)

	assert.Equal(t, []string{"down"}, s.Steps[7].Keys)
	assert.Equal(t, 5, s.Steps[7].Repeat)
	assert.Equal(t, 100*time.Millisecond, s.Steps[7].Duration)

	assert.Equal(t, []string{"alt", "f4"}, s.Steps[8].Keys)
}

const rotateTOML = `
name = "rotate"

[[steps]]
find = { marker = "lenovo-logo.png", action = "right_click", retries = 5, unless_orientation = 90 }

[[steps]]
sleep = { duration = 1 }

[[steps]]
find = { marker = "rotate.png", retries = inf, no_escalate = true }

[[steps]]
hotkey = { keys = ["alt", "F4"] }
`

func TestParse_TOML(t *testing.T) {
	s, err := Parse([]byte(rotateTOML), FormatTOML, "", testDefaults)
	require.NoError(t, err)
	assert.Equal(t, "rotate", s.Name)
	require.Len(t, s.Steps, 4)

	assert.Equal(t, engine.MarkerID("lenovo-logo.png"), s.Steps[0].Find.Marker)
	assert.Equal(t, engine.ActionRightClick, s.Steps[0].Find.Action)
	assert.Equal(t, 5, s.Steps[0].Find.Budget.Limit())
	require.NotNil(t, s.Steps[0].UnlessOrientation)
	assert.Equal(t, 90, *s.Steps[0].UnlessOrientation)

	assert.Equal(t, time.Second, s.Steps[1].Duration)

	assert.True(t, s.Steps[2].Find.Budget.IsUnbounded())
	assert.Equal(t, engine.FailReturn, s.Steps[2].Find.OnExhausted)

	assert.Equal(t, []string{"alt", "f4"}, s.Steps[3].Keys)
}

func TestParse_UnknownActionWarns(t *testing.T) {
	s, err := Parse([]byte(`steps: [ { find: { marker: a.png, action: double_click } } ]`), FormatYAML, "", testDefaults)
	require.NoError(t, err)
	assert.Equal(t, engine.ActionNone, s.Steps[0].Find.Action)
	require.Len(t, s.Warnings, 1)
	assert.Contains(t, s.Warnings[0], "double_click")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"no steps", `name: empty`, "no steps"},
		{"two kinds in one step", `steps: [ { sleep: { duration: 1 }, open: { target: x } } ]`, "exactly one"},
		{"unknown kind", `steps: [ { scroll: { dy: 3 } } ]`, "unknown step kind"},
		{"find without marker", `steps: [ { find: { action: click } } ]`, "marker is required"},
		{"bad retries", `steps: [ { find: { marker: a.png, retries: 0 } } ]`, "retries"},
		{"wait without title", `steps: [ { wait_window: { timeout: 3 } } ]`, "title is required"},
		{"bad timeout", `steps: [ { wait_window: { title: x, timeout: soon } } ]`, "invalid duration"},
		{"sleep without duration", `steps: [ { sleep: {} } ]`, "duration must be positive"},
		{"press without key", `steps: [ { press: { repeat: 2 } } ]`, "key is required"},
		{"press zero repeat", `steps: [ { press: { key: tab, repeat: 0 } } ]`, "repeat"},
		{"hotkey without keys", `steps: [ { hotkey: {} } ]`, "keys is required"},
		{"open without target", `steps: [ { open: {} } ]`, "target is required"},
		{"bad orientation", `steps: [ { open: { target: x, unless_orientation: left } } ]`, "unless_orientation"},
		{"not yaml", `steps: [`, "failed to parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatYAML, "", testDefaults)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_NameFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "close-settings.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[steps]]
hotkey = { keys = "alt+f4" }
`), 0644))

	s, err := Load(path, testDefaults)
	require.NoError(t, err)
	assert.Equal(t, "close-settings", s.Name)
	assert.Equal(t, []string{"alt", "f4"}, s.Steps[0].Keys)
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), testDefaults)
	assert.Error(t, err)
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, FormatTOML, FormatFor("a/b.TOML"))
	assert.Equal(t, FormatYAML, FormatFor("a/b.yml"))
	assert.Equal(t, FormatYAML, FormatFor("script"))
}

func TestMarkers_Deduplicated(t *testing.T) {
	s, err := Parse([]byte(`
steps:
  - find: { marker: a.png }
  - sleep: { duration: 1 }
  - find: { marker: b.png }
  - find: { marker: a.png }
`), FormatYAML, "", testDefaults)
	require.NoError(t, err)
	assert.Equal(t, []engine.MarkerID{"a.png", "b.png"}, s.Markers())
}

func TestLoad_BundledScripts(t *testing.T) {
	tablet, err := Load(filepath.Join("..", "..", "scripts", "tablet-mode.yaml"), testDefaults)
	require.NoError(t, err)
	assert.Equal(t, "tablet-mode", tablet.Name)
	assert.Empty(t, tablet.Warnings)
	require.Len(t, tablet.Steps, 16)
	assert.True(t, tablet.Steps[2].Find.Budget.IsUnbounded())
	assert.Equal(t, time.Duration(0), tablet.Steps[13].Duration)
	assert.Equal(t, 30*time.Second, tablet.Steps[14].Window.MaxWait)

	rotate, err := Load(filepath.Join("..", "..", "scripts", "rotate.toml"), testDefaults)
	require.NoError(t, err)
	require.Len(t, rotate.Steps, 3)
	for _, st := range rotate.Steps {
		require.NotNil(t, st.UnlessOrientation)
		assert.Equal(t, 90, *st.UnlessOrientation)
	}
	assert.Equal(t, 5, rotate.Steps[2].Find.Budget.Limit())
}
