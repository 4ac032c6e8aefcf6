package cmd

import (
	"fmt"

	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/mj1618/screen-pilot/internal/output"
	"github.com/spf13/cobra"
)

// OpenResult is the output of the open command.
type OpenResult struct {
	OK         bool   `yaml:"ok"                   json:"ok"`
	Action     string `yaml:"action"               json:"action"`
	Target     string `yaml:"target"               json:"target"`
	Window     string `yaml:"window,omitempty"     json:"window,omitempty"`
	Error      string `yaml:"error,omitempty"      json:"error,omitempty"`
	Screenshot string `yaml:"screenshot,omitempty" json:"screenshot,omitempty"`
}

var openCmd = &cobra.Command{
	Use:   "open TARGET",
	Short: "Open a URI, file, or application",
	Long: `Open TARGET with the system handler, such as a settings URI, a URL or a file.
With --wait-window, then wait until the focused window's title contains the
given substring, escalating on timeout like wait-window.

Examples:
  screen-pilot open "ms-settings:easeofaccess-highcontrast" --wait-window Settings
  screen-pilot open https://example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().String("wait-window", "", "Wait for a window whose title contains this substring")
	addWaitFlags(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if s.provider.Launcher == nil {
		return fmt.Errorf("open not supported on this platform")
	}
	target := args[0]
	waitFor, _ := cmd.Flags().GetString("wait-window")

	s.logger.Info("opening", "target", target)
	if err := s.provider.Launcher.Open(target); err != nil {
		return err
	}
	result := OpenResult{OK: true, Action: "open", Target: target}
	if waitFor == "" {
		return output.Print(result)
	}

	out, err := s.engine.WaitForWindow(cmd.Context(), windowWaitFromFlags(cmd, waitFor, s.cfg))
	if err != nil {
		return err
	}
	result.OK = out.Kind == engine.WindowActivated
	result.Window = out.Title
	if out.Escalation != nil {
		result.Error = out.Escalation.Reason
		result.Screenshot = out.Escalation.Screenshot
	}
	if err := output.Print(result); err != nil {
		return err
	}
	return out.Err()
}
