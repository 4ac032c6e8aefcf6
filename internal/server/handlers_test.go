package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/mj1618/screen-pilot/internal/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	return nil
}

// fakeDesktop implements every oracle and sink the engine consumes.
type fakeDesktop struct {
	visible  map[engine.MarkerID]engine.Position
	title    string
	rotation engine.Query[int]
	clicks   []engine.Position
	captures []string
	keys     [][]string
	png      []byte
	preload  error
}

func (d *fakeDesktop) Locate(_ context.Context, m engine.MarkerID) (engine.Position, bool, error) {
	p, ok := d.visible[m]
	return p, ok, nil
}

func (d *fakeDesktop) Act(_ context.Context, p engine.Position, _ engine.ActionKind) error {
	d.clicks = append(d.clicks, p)
	return nil
}

func (d *fakeDesktop) ActiveWindowTitle(context.Context) engine.Query[string] {
	if d.title == "" {
		return engine.Absent[string]()
	}
	return engine.Value(d.title)
}

func (d *fakeDesktop) Orientation(context.Context) engine.Query[int] { return d.rotation }

func (d *fakeDesktop) CaptureFullScreen(_ context.Context, path, _ string) error {
	d.captures = append(d.captures, path)
	return nil
}

func (d *fakeDesktop) CaptureScreen() ([]byte, error) {
	if d.png == nil {
		return nil, errors.New("no screen")
	}
	return d.png, nil
}

func (d *fakeDesktop) KeyCombo(keys []string) error {
	d.keys = append(d.keys, keys)
	return nil
}

func (d *fakeDesktop) Preload(...engine.MarkerID) error { return d.preload }

func newTestServer(d *fakeDesktop) *Server {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(engine.Deps{
		Locator:     d,
		Actor:       d,
		Windows:     d,
		Orientation: d,
		Escalator:   engine.NewEscalator(d, clock, logger, ""),
		Clock:       clock,
		Logger:      logger,
	})
	return New(Deps{
		Engine:  eng,
		Runner:  &script.Runner{Engine: eng, Keys: d, Clock: clock, Logger: logger},
		Markers: d,
		Screen:  d,
		Defaults: script.Defaults{
			Retries:        engine.Finite(3),
			WindowMaxWait:  5 * time.Second,
			WindowInterval: time.Second,
		},
		Logger: logger,
	}, "test")
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "first content should be text")
	return tc.Text
}

func TestHandleFind_Found(t *testing.T) {
	d := &fakeDesktop{visible: map[engine.MarkerID]engine.Position{"logo.png": {X: 7, Y: 9}}}
	s := newTestServer(d)

	res, err := s.handleFind(context.Background(), call("find", map[string]any{"marker": "logo.png", "action": "right_click"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	out := text(t, res)
	assert.Contains(t, out, "outcome: found")
	assert.Contains(t, out, "(7,9)")
	assert.Contains(t, out, "action: right_click")
	assert.Equal(t, []engine.Position{{X: 7, Y: 9}}, d.clicks)
}

func TestHandleFind_EscalationIsToolError(t *testing.T) {
	d := &fakeDesktop{visible: map[engine.MarkerID]engine.Position{}}
	s := newTestServer(d)

	res, err := s.handleFind(context.Background(), call("find", map[string]any{"marker": "gone.png", "retries": float64(2)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	out := text(t, res)
	assert.Contains(t, out, "marker never appeared: gone.png")
	assert.Contains(t, out, "screenshot: debug_screenshot_failure_")
	assert.Len(t, d.captures, 1)

	// The server keeps serving after an escalation.
	d.visible["gone.png"] = engine.Position{X: 1, Y: 1}
	res, err = s.handleFind(context.Background(), call("find", map[string]any{"marker": "gone.png"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
}

func TestHandleFind_NoEscalate(t *testing.T) {
	d := &fakeDesktop{visible: map[engine.MarkerID]engine.Position{}}
	s := newTestServer(d)

	res, err := s.handleFind(context.Background(), call("find", map[string]any{"marker": "x.png", "retries": "1", "no_escalate": true}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "outcome: exhausted")
	assert.Empty(t, d.captures)
}

func TestHandleFind_BadArguments(t *testing.T) {
	d := &fakeDesktop{}
	s := newTestServer(d)

	res, _ := s.handleFind(context.Background(), call("find", map[string]any{}))
	assert.True(t, res.IsError)

	res, _ = s.handleFind(context.Background(), call("find", map[string]any{"marker": "a.png", "retries": "0"}))
	assert.True(t, res.IsError)

	d.preload = errors.New("opening marker a.png: no such file")
	res, _ = s.handleFind(context.Background(), call("find", map[string]any{"marker": "a.png"}))
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "no such file")
}

func TestHandleWaitWindow(t *testing.T) {
	d := &fakeDesktop{title: "Settings - Display"}
	s := newTestServer(d)

	res, err := s.handleWaitWindow(context.Background(), call("wait_window", map[string]any{"title": "Settings"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "Settings - Display")

	d.title = ""
	res, err = s.handleWaitWindow(context.Background(), call("wait_window", map[string]any{"title": "Settings", "timeout": float64(2)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "timeout waiting for window")
	assert.Contains(t, text(t, res), "after 2s")
}

func TestHandleOrientation(t *testing.T) {
	d := &fakeDesktop{rotation: engine.Value(270)}
	s := newTestServer(d)

	res, _ := s.handleOrientation(context.Background(), call("orientation", nil))
	assert.Equal(t, "rotation: 270", text(t, res))

	d.rotation = engine.Failed[int](errors.New("no display"))
	res, _ = s.handleOrientation(context.Background(), call("orientation", nil))
	assert.True(t, res.IsError)
}

func TestHandleScreenshot(t *testing.T) {
	d := &fakeDesktop{png: []byte{0x89, 'P', 'N', 'G'}}
	s := newTestServer(d)

	res, err := s.handleScreenshot(context.Background(), call("screenshot", nil))
	require.NoError(t, err)
	require.Len(t, res.Content, 2)
	img, ok := res.Content[1].(mcp.ImageContent)
	require.True(t, ok)
	assert.Equal(t, "image/png", img.MIMEType)
	assert.Equal(t, "iVBORw==", img.Data)

	d.png = nil
	res, _ = s.handleScreenshot(context.Background(), call("screenshot", nil))
	assert.True(t, res.IsError)
}

func TestHandleRunScript(t *testing.T) {
	d := &fakeDesktop{visible: map[engine.MarkerID]engine.Position{"a.png": {X: 2, Y: 3}}}
	s := newTestServer(d)

	inline := `
steps:
  - find: { marker: a.png }
  - hotkey: { keys: alt+f4 }
`
	res, err := s.handleRunScript(context.Background(), call("run_script", map[string]any{"script": inline}))
	require.NoError(t, err)
	assert.False(t, res.IsError, text(t, res))
	out := text(t, res)
	assert.Contains(t, out, "name: inline")
	assert.Contains(t, out, "ok: true")
	assert.Equal(t, [][]string{{"alt", "f4"}}, d.keys)

	path := filepath.Join(t.TempDir(), "fail.yaml")
	require.NoError(t, os.WriteFile(path, []byte("steps:\n  - find: { marker: missing.png, retries: 1 }\n"), 0644))
	res, err = s.handleRunScript(context.Background(), call("run_script", map[string]any{"path": path}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.True(t, strings.Contains(text(t, res), "marker never appeared"))
}

func TestHandleRunScript_BadArguments(t *testing.T) {
	s := newTestServer(&fakeDesktop{})

	res, _ := s.handleRunScript(context.Background(), call("run_script", map[string]any{}))
	assert.True(t, res.IsError)

	res, _ = s.handleRunScript(context.Background(), call("run_script", map[string]any{"path": "a", "script": "b"}))
	assert.True(t, res.IsError)

	res, _ = s.handleRunScript(context.Background(), call("run_script", map[string]any{"script": "steps: []"}))
	assert.True(t, res.IsError)
}

func TestServe_UnknownTransport(t *testing.T) {
	s := newTestServer(&fakeDesktop{})
	assert.Error(t, s.Serve("carrier-pigeon", 0))
}
