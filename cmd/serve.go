package cmd

import (
	"fmt"

	"github.com/mj1618/screen-pilot/internal/server"
	"github.com/mj1618/screen-pilot/internal/version"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing screen-pilot tools",
	Long: `Start a Model Context Protocol (MCP) server exposing find, wait_window,
orientation, screenshot and run_script as tools. Tool calls are serialized.
An escalation fails the tool call with the reason and diagnostic screenshot
path; the server keeps running.

Supported transports:
  stdio             Standard I/O (default, for local MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  screen-pilot serve
  screen-pilot serve --transport streamable-http --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "", "Transport: stdio, streamable-http (default: serve.transport)")
	serveCmd.Flags().Int("port", 0, "HTTP port for streamable-http transport (default: serve.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	if transport == "" {
		transport = s.cfg.Serve.Transport
	}
	if port == 0 {
		port = s.cfg.Serve.Port
	}
	if transport == "stdio" && s.cfg.Logging.Output == "stdout" {
		return fmt.Errorf("logging.output must not be stdout with the stdio transport")
	}

	srv := server.New(server.Deps{
		Engine:   s.engine,
		Runner:   s.runner(),
		Markers:  s.locator,
		Screen:   s.provider.Screenshotter,
		Defaults: scriptDefaults(s.cfg),
		Logger:   s.logger.Logger,
	}, version.Version)
	return srv.Serve(transport, port)
}
