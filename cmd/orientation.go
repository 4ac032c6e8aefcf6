package cmd

import (
	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/mj1618/screen-pilot/internal/output"
	"github.com/mj1618/screen-pilot/internal/platform"
	"github.com/spf13/cobra"
)

// OrientationResult is the output of the orientation command.
type OrientationResult struct {
	OK       bool   `yaml:"ok"                 json:"ok"`
	Status   string `yaml:"status"             json:"status"`
	Rotation *int   `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Window   string `yaml:"window,omitempty"   json:"window,omitempty"`
	Error    string `yaml:"error,omitempty"    json:"error,omitempty"`
}

var orientationCmd = &cobra.Command{
	Use:   "orientation",
	Short: "Print the display rotation and the focused window",
	Long:  "Query the main display's rotation in degrees and the focused window's title, as used by orientation guards and log context.",
	RunE:  runOrientation,
}

func init() {
	rootCmd.AddCommand(orientationCmd)
}

func runOrientation(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	rot := platform.OrientationOracle{Display: provider.Display}.Orientation(ctx)
	win := platform.WindowOracle{WindowManager: provider.WindowManager}.ActiveWindowTitle(ctx)
	return output.Print(orientationResult(rot, win))
}

func orientationResult(rot engine.Query[int], win engine.Query[string]) OrientationResult {
	r := OrientationResult{OK: rot.Ok(), Status: rot.Status.String()}
	if rot.Ok() {
		deg := rot.Value
		r.Rotation = &deg
	} else if rot.Err != nil {
		r.Error = rot.Err.Error()
	}
	if win.Ok() {
		r.Window = win.Value
	}
	return r
}
