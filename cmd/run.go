package cmd

import (
	"github.com/mj1618/screen-pilot/internal/output"
	"github.com/mj1618/screen-pilot/internal/script"
	"github.com/spf13/cobra"
)

// PlanResult is the output of run --dry-run.
type PlanResult struct {
	Name     string     `yaml:"name"               json:"name"`
	Steps    []PlanStep `yaml:"steps"              json:"steps"`
	Warnings []string   `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// PlanStep describes one step of a parsed script.
type PlanStep struct {
	Step              int    `yaml:"step"                         json:"step"`
	Kind              string `yaml:"kind"                         json:"kind"`
	Description       string `yaml:"description"                  json:"description"`
	UnlessOrientation *int   `yaml:"unless_orientation,omitempty" json:"unless_orientation,omitempty"`
}

var runCmd = &cobra.Command{
	Use:   "run SCRIPT",
	Short: "Run a script of find, wait and key steps",
	Long: `Run the steps in SCRIPT (YAML, or TOML for .toml files) in order. The run
stops at the first step that escalates; a diagnostic screenshot is saved and the
command exits with status 1.

Step kinds: find, wait_window, sleep, press, hotkey, open. Any step may carry
unless_orientation: <degrees> to skip it when the display already has that rotation.

Example:
  screen-pilot run scripts/tablet-mode.yaml
  screen-pilot run scripts/rotate.toml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("dry-run", false, "Parse the script and print its steps without running them")
}

func runRun(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if dryRun {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sc, err := script.Load(args[0], scriptDefaults(cfg))
		if err != nil {
			return err
		}
		return output.Print(planResult(sc))
	}

	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	sc, err := script.Load(args[0], scriptDefaults(s.cfg))
	if err != nil {
		return err
	}
	if err := s.locator.Preload(sc.Markers()...); err != nil {
		return err
	}

	report, runErr := s.runner().Run(cmd.Context(), sc)
	if err := output.Print(report); err != nil {
		return err
	}
	return runErr
}

func planResult(sc *script.Script) PlanResult {
	plan := PlanResult{Name: sc.Name, Warnings: sc.Warnings}
	for i, st := range sc.Steps {
		plan.Steps = append(plan.Steps, PlanStep{
			Step:              i + 1,
			Kind:              string(st.Kind),
			Description:       st.Describe(),
			UnlessOrientation: st.UnlessOrientation,
		})
	}
	return plan
}
