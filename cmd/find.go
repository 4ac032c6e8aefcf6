package cmd

import (
	"fmt"

	"github.com/mj1618/screen-pilot/internal/config"
	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/mj1618/screen-pilot/internal/output"
	"github.com/spf13/cobra"
)

// FindResult is the output of the find command.
type FindResult struct {
	OK         bool   `yaml:"ok"                   json:"ok"`
	Action     string `yaml:"action"               json:"action"`
	Marker     string `yaml:"marker"               json:"marker"`
	Outcome    string `yaml:"outcome"              json:"outcome"`
	Position   string `yaml:"position,omitempty"   json:"position,omitempty"`
	Locates    int    `yaml:"locates"              json:"locates"`
	Actions    int    `yaml:"actions"              json:"actions"`
	Error      string `yaml:"error,omitempty"      json:"error,omitempty"`
	Screenshot string `yaml:"screenshot,omitempty" json:"screenshot,omitempty"`
}

var findCmd = &cobra.Command{
	Use:   "find MARKER",
	Short: "Find a marker image on screen and act on it",
	Long: `Poll the screen for MARKER (an image file) until it appears, then click or
right-click its center. With --wait-gone the marker must disappear afterwards;
while it persists the action is re-applied at its latest position.

When the retry budget runs out a diagnostic screenshot is saved and the command
exits with status 1, unless --no-escalate is set.

Examples:
  screen-pilot find markers/switch-to-tablet.png --retries inf
  screen-pilot find markers/lenovo-logo.png --action right_click
  screen-pilot find markers/windows-logo.png --wait-gone`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	addFindFlags(findCmd)
}

func addFindFlags(cmd *cobra.Command) {
	cmd.Flags().String("action", "click", "Action on the marker: click, right_click, none")
	cmd.Flags().String("retries", "", "Locate attempts before giving up, or \"inf\" (default: engine.retries)")
	cmd.Flags().String("disappear-retries", "", "Re-attempts while waiting for the marker to disappear (default: --retries)")
	cmd.Flags().Bool("wait-gone", false, "Confirm the marker disappears after the action")
	cmd.Flags().Bool("no-escalate", false, "Report an exhausted budget instead of failing")
}

func runFind(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	step, known, err := stepFromFlags(cmd, args[0], s.cfg)
	if err != nil {
		return err
	}
	if !known {
		a, _ := cmd.Flags().GetString("action")
		s.logger.Warn("unknown action, treating as none", "action", a)
	}
	if err := s.locator.Preload(step.Marker); err != nil {
		return err
	}

	out, err := s.engine.Execute(cmd.Context(), step)
	if err != nil {
		return err
	}
	if perr := output.Print(findResult(step, out)); perr != nil {
		return perr
	}
	return out.Err()
}

// stepFromFlags builds a Step for marker from the find flags. knownAction is
// false when --action was not recognized and fell back to none.
func stepFromFlags(cmd *cobra.Command, marker string, cfg *config.Config) (step engine.Step, knownAction bool, err error) {
	actionName, _ := cmd.Flags().GetString("action")
	retries, _ := cmd.Flags().GetString("retries")
	disappear, _ := cmd.Flags().GetString("disappear-retries")
	waitGone, _ := cmd.Flags().GetBool("wait-gone")
	noEscalate, _ := cmd.Flags().GetBool("no-escalate")

	action, knownAction := engine.ParseActionKind(actionName)
	step = engine.Step{
		Marker:               engine.MarkerID(marker),
		Action:               action,
		Budget:               cfg.Engine.Retries,
		ConfirmDisappearance: waitGone,
	}
	if retries != "" {
		b, err := engine.ParseRetryBudget(retries)
		if err != nil {
			return step, knownAction, fmt.Errorf("--retries: %w", err)
		}
		step.Budget = b
	}
	if disappear != "" {
		b, err := engine.ParseRetryBudget(disappear)
		if err != nil {
			return step, knownAction, fmt.Errorf("--disappear-retries: %w", err)
		}
		step.DisappearBudget = &b
	}
	if noEscalate {
		step.OnExhausted = engine.FailReturn
	}
	return step, knownAction, nil
}

func findResult(step engine.Step, out engine.StepOutcome) FindResult {
	r := FindResult{
		OK:      out.Kind == engine.StepFound,
		Action:  step.Action.String(),
		Marker:  string(step.Marker),
		Outcome: out.Kind.String(),
		Locates: out.Locates,
		Actions: out.Actions,
	}
	if out.Kind == engine.StepFound {
		r.Position = out.Position.String()
	}
	if out.Escalation != nil {
		r.Error = out.Escalation.Reason
		r.Screenshot = out.Escalation.Screenshot
	}
	return r
}
