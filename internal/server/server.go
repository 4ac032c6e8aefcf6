// Package server exposes the engine as Model Context Protocol tools.
//
// Calls are serialized: one desktop session has one pointer and one
// keyboard, so a tool call runs only after the previous one has finished.
// An escalation ends the tool call with an error result naming the reason and
// the diagnostic screenshot; the server keeps running.
package server

import (
	"fmt"
	"log/slog"
	"sync"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/mj1618/screen-pilot/internal/script"
)

// ScreenSource captures the screen as PNG bytes.
type ScreenSource interface {
	CaptureScreen() ([]byte, error)
}

// MarkerLoader validates marker files before a step or script runs.
type MarkerLoader interface {
	Preload(markers ...engine.MarkerID) error
}

// Deps are the collaborators the tools use.
type Deps struct {
	Engine   *engine.Engine
	Runner   *script.Runner
	Markers  MarkerLoader
	Screen   ScreenSource
	Defaults script.Defaults
	Logger   *slog.Logger
}

// Server wraps the MCP server with the engine and a call mutex.
type Server struct {
	deps Deps
	mu   sync.Mutex
	mcp  *mcpserver.MCPServer
}

// New creates a Server with all tools registered.
func New(d Deps, version string) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	s := &Server{deps: d}
	s.mcp = mcpserver.NewMCPServer("screen-pilot", version)
	s.registerTools()
	return s
}

// Serve starts the server on transport ("stdio" or "streamable-http").
func (s *Server) Serve(transport string, port int) error {
	s.deps.Logger.Info("mcp server starting", "transport", transport, "port", port)
	switch transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", transport)
	}
}
