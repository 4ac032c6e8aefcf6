package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/mj1618/screen-pilot/internal/output"
	"github.com/mj1618/screen-pilot/internal/script"
)

// StepResult is the tool output for find and wait_window.
type StepResult struct {
	OK         bool   `yaml:"ok"                   json:"ok"`
	Action     string `yaml:"action"               json:"action"`
	Outcome    string `yaml:"outcome"              json:"outcome"`
	Marker     string `yaml:"marker,omitempty"     json:"marker,omitempty"`
	Position   string `yaml:"position,omitempty"   json:"position,omitempty"`
	Window     string `yaml:"window,omitempty"     json:"window,omitempty"`
	Error      string `yaml:"error,omitempty"      json:"error,omitempty"`
	Screenshot string `yaml:"screenshot,omitempty" json:"screenshot,omitempty"`
}

// toolResult renders v as text, as an error result when failed is set.
func toolResult(v interface{}, failed bool) *mcp.CallToolResult {
	if failed {
		return mcp.NewToolResultError(output.Text(v))
	}
	return mcp.NewToolResultText(output.Text(v))
}

func (s *Server) handleFind(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	marker, err := request.RequireString("marker")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	action, known := engine.ParseActionKind(request.GetString("action", "click"))
	if !known {
		s.deps.Logger.Warn("unknown action, treating as none", "action", request.GetString("action", ""))
	}
	step := engine.Step{
		Marker:               engine.MarkerID(marker),
		Action:               action,
		Budget:               s.deps.Defaults.Retries,
		ConfirmDisappearance: request.GetBool("wait_gone", false),
	}
	if v, ok := request.GetArguments()["retries"]; ok {
		b, err := engine.ParseRetryBudget(fmt.Sprintf("%v", v))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		step.Budget = b
	}
	if request.GetBool("no_escalate", false) {
		step.OnExhausted = engine.FailReturn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deps.Markers != nil {
		if err := s.deps.Markers.Preload(step.Marker); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	out, err := s.deps.Engine.Execute(ctx, step)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := StepResult{
		OK:      out.Kind == engine.StepFound,
		Action:  action.String(),
		Outcome: out.Kind.String(),
		Marker:  marker,
	}
	if out.Kind == engine.StepFound {
		result.Position = out.Position.String()
	}
	if out.Escalation != nil {
		result.Error = out.Escalation.Reason
		result.Screenshot = out.Escalation.Screenshot
	}
	return toolResult(result, out.Kind == engine.StepEscalated), nil
}

func (s *Server) handleWaitWindow(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	w := engine.WindowWait{
		Substring: title,
		MaxWait:   seconds(request.GetFloat("timeout", 0), s.deps.Defaults.WindowMaxWait),
		Interval:  seconds(request.GetFloat("interval", 0), s.deps.Defaults.WindowInterval),
	}
	if request.GetBool("no_escalate", false) {
		w.OnTimeout = engine.FailReturn
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.deps.Engine.WaitForWindow(ctx, w)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result := StepResult{
		OK:      out.Kind == engine.WindowActivated,
		Action:  "wait_window",
		Outcome: out.Kind.String(),
		Window:  out.Title,
	}
	if out.Escalation != nil {
		result.Error = out.Escalation.Reason
		result.Screenshot = out.Escalation.Screenshot
	}
	return toolResult(result, out.Kind == engine.WindowEscalated), nil
}

func (s *Server) handleOrientation(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.deps.Engine.Orientation(ctx)
	switch q.Status {
	case engine.QueryValue:
		return mcp.NewToolResultText(fmt.Sprintf("rotation: %d", q.Value)), nil
	case engine.QueryAbsent:
		return mcp.NewToolResultText("rotation: unknown"), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("orientation query failed: %v", q.Err)), nil
	}
}

func (s *Server) handleScreenshot(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deps.Screen == nil {
		return mcp.NewToolResultError("screenshot not supported on this platform"), nil
	}
	data, err := s.deps.Screen.CaptureScreen()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultImage("screen capture", base64.StdEncoding.EncodeToString(data), "image/png"), nil
}

func (s *Server) handleRunScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	inline := request.GetString("script", "")

	var sc *script.Script
	var err error
	switch {
	case path != "" && inline != "":
		return mcp.NewToolResultError("specify either path or script, not both"), nil
	case path != "":
		sc, err = script.Load(path, s.deps.Defaults)
	case inline != "":
		sc, err = script.Parse([]byte(inline), script.FormatYAML, "", s.deps.Defaults)
	default:
		return mcp.NewToolResultError("specify path or script"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if sc.Name == "" {
		sc.Name = "inline"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deps.Markers != nil {
		if err := s.deps.Markers.Preload(sc.Markers()...); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	report, err := s.deps.Runner.Run(ctx, sc)
	return toolResult(report, err != nil), nil
}

// seconds converts a tool argument in seconds, falling back to def when unset.
func seconds(v float64, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return time.Duration(v * float64(time.Second))
}
