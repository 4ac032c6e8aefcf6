package cmd

import (
	"fmt"

	"github.com/mj1618/screen-pilot/internal/output"
	"github.com/mj1618/screen-pilot/internal/platform"
	"github.com/spf13/cobra"
)

// ClickResult is the output of the click command.
type ClickResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
	X      int    `yaml:"x"      json:"x"`
	Y      int    `yaml:"y"      json:"y"`
	Button string `yaml:"button,omitempty" json:"button,omitempty"`
	Count  int    `yaml:"count,omitempty"  json:"count,omitempty"`
}

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click at screen coordinates",
	Long:  "Click at absolute screen coordinates in points, for example a position printed by find --action none.",
	RunE:  runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	clickCmd.Flags().Int("x", 0, "Click at absolute X screen coordinate")
	clickCmd.Flags().Int("y", 0, "Click at absolute Y screen coordinate")
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
	clickCmd.Flags().Bool("double", false, "Double-click")
	clickCmd.Flags().Bool("hover", false, "Move the pointer there without clicking")
	_ = clickCmd.MarkFlagRequired("x")
	_ = clickCmd.MarkFlagRequired("y")
}

func runClick(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.Inputter == nil {
		return fmt.Errorf("input simulation not available on this platform")
	}

	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")
	buttonStr, _ := cmd.Flags().GetString("button")
	double, _ := cmd.Flags().GetBool("double")
	hover, _ := cmd.Flags().GetBool("hover")

	if hover {
		if err := provider.Inputter.MoveMouse(x, y); err != nil {
			return err
		}
		return output.Print(ClickResult{OK: true, Action: "hover", X: x, Y: y})
	}

	button, err := platform.ParseMouseButton(buttonStr)
	if err != nil {
		return err
	}
	count := 1
	if double {
		count = 2
	}
	if err := provider.Inputter.Click(x, y, button, count); err != nil {
		return err
	}
	return output.Print(ClickResult{OK: true, Action: "click", X: x, Y: y, Button: buttonStr, Count: count})
}
