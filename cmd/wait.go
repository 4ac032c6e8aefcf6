package cmd

import (
	"time"

	"github.com/mj1618/screen-pilot/internal/config"
	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/mj1618/screen-pilot/internal/output"
	"github.com/spf13/cobra"
)

// WaitResult is the output of the wait-window command.
type WaitResult struct {
	OK         bool   `yaml:"ok"                   json:"ok"`
	Action     string `yaml:"action"               json:"action"`
	Window     string `yaml:"window"               json:"window"`
	Outcome    string `yaml:"outcome"              json:"outcome"`
	Title      string `yaml:"title,omitempty"      json:"title,omitempty"`
	Polls      int    `yaml:"polls"                json:"polls"`
	Elapsed    string `yaml:"elapsed"              json:"elapsed"`
	Error      string `yaml:"error,omitempty"      json:"error,omitempty"`
	Screenshot string `yaml:"screenshot,omitempty" json:"screenshot,omitempty"`
}

var waitCmd = &cobra.Command{
	Use:   "wait-window SUBSTRING",
	Short: "Wait until the focused window's title contains a substring",
	Long: `Poll the focused window until its title contains SUBSTRING (case-sensitive).
On timeout a diagnostic screenshot is saved and the command exits with status 1,
unless --no-escalate is set.

Examples:
  screen-pilot wait-window ThinkbookEinkPlus
  screen-pilot wait-window Settings --timeout 10s --interval 500ms`,
	Args: cobra.ExactArgs(1),
	RunE: runWait,
}

func init() {
	rootCmd.AddCommand(waitCmd)
	addWaitFlags(waitCmd)
}

func addWaitFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("timeout", 0, "Max time to wait (default: window.max_wait)")
	cmd.Flags().Duration("interval", 0, "Polling interval (default: window.interval)")
	cmd.Flags().Bool("no-escalate", false, "Report a timeout instead of failing")
}

func runWait(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	w := windowWaitFromFlags(cmd, args[0], s.cfg)

	start := time.Now()
	out, err := s.engine.WaitForWindow(cmd.Context(), w)
	if err != nil {
		return err
	}
	if perr := output.Print(waitResult(w, out, time.Since(start))); perr != nil {
		return perr
	}
	return out.Err()
}

func windowWaitFromFlags(cmd *cobra.Command, substring string, cfg *config.Config) engine.WindowWait {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	interval, _ := cmd.Flags().GetDuration("interval")
	noEscalate, _ := cmd.Flags().GetBool("no-escalate")

	w := engine.WindowWait{
		Substring: substring,
		MaxWait:   cfg.Window.MaxWait,
		Interval:  cfg.Window.Interval,
	}
	if timeout > 0 {
		w.MaxWait = timeout
	}
	if interval > 0 {
		w.Interval = interval
	}
	if noEscalate {
		w.OnTimeout = engine.FailReturn
	}
	return w
}

func waitResult(w engine.WindowWait, out engine.WindowWaitOutcome, elapsed time.Duration) WaitResult {
	r := WaitResult{
		OK:      out.Kind == engine.WindowActivated,
		Action:  "wait-window",
		Window:  w.Substring,
		Outcome: out.Kind.String(),
		Title:   out.Title,
		Polls:   out.Polls,
		Elapsed: elapsed.Round(time.Millisecond).String(),
	}
	if out.Escalation != nil {
		r.Error = out.Escalation.Reason
		r.Screenshot = out.Escalation.Screenshot
	}
	return r
}
