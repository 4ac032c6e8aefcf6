package server

import "github.com/mark3labs/mcp-go/mcp"

func (s *Server) registerTools() {
	// find
	s.mcp.AddTool(
		mcp.NewTool("find",
			mcp.WithDescription("Poll the screen for a marker image, then click or right-click its center. Escalates with a diagnostic screenshot when the marker never appears or never disappears."),
			mcp.WithString("marker", mcp.Description("Path of the marker image file"), mcp.Required()),
			mcp.WithString("action", mcp.Description("click, right_click or none (default: click)")),
			mcp.WithString("retries", mcp.Description("Locate attempts before giving up, or \"inf\"")),
			mcp.WithBoolean("wait_gone", mcp.Description("Confirm the marker disappears after the action")),
			mcp.WithBoolean("no_escalate", mcp.Description("Report an exhausted budget instead of escalating")),
		),
		s.handleFind,
	)

	// wait_window
	s.mcp.AddTool(
		mcp.NewTool("wait_window",
			mcp.WithDescription("Wait until the focused window's title contains a substring (case-sensitive)"),
			mcp.WithString("title", mcp.Description("Title substring"), mcp.Required()),
			mcp.WithNumber("timeout", mcp.Description("Max seconds to wait (default: 30)")),
			mcp.WithNumber("interval", mcp.Description("Polling interval in seconds (default: 1)")),
			mcp.WithBoolean("no_escalate", mcp.Description("Report a timeout instead of escalating")),
		),
		s.handleWaitWindow,
	)

	// orientation
	s.mcp.AddTool(
		mcp.NewTool("orientation",
			mcp.WithDescription("Read the main display's rotation in degrees"),
		),
		s.handleOrientation,
	)

	// screenshot
	s.mcp.AddTool(
		mcp.NewTool("screenshot",
			mcp.WithDescription("Capture the entire screen as PNG"),
		),
		s.handleScreenshot,
	)

	// run_script
	s.mcp.AddTool(
		mcp.NewTool("run_script",
			mcp.WithDescription("Run a script of find, wait_window, sleep, press, hotkey and open steps. Pass a file path or an inline YAML script."),
			mcp.WithString("path", mcp.Description("Path of a YAML or TOML script file")),
			mcp.WithString("script", mcp.Description("Inline YAML script")),
		),
		s.handleRunScript,
	)
}
