package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/screen-pilot/internal/output"
	"github.com/mj1618/screen-pilot/internal/platform"
	"github.com/spf13/cobra"
)

// KeyResult is the output of the key command.
type KeyResult struct {
	OK     bool   `yaml:"ok"     json:"ok"`
	Action string `yaml:"action" json:"action"`
	Key    string `yaml:"key"    json:"key"`
	Repeat int    `yaml:"repeat" json:"repeat"`
}

var keyCmd = &cobra.Command{
	Use:   "key COMBO",
	Short: "Press a key or key combination",
	Long: `Press a key or a combination such as "alt+f4" or "cmd+shift+t".

Examples:
  screen-pilot key tab
  screen-pilot key down --repeat 5 --pause 100ms
  screen-pilot key alt+f4`,
	Args: cobra.ExactArgs(1),
	RunE: runKey,
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.Flags().Int("repeat", 1, "Number of times to press the combination")
	keyCmd.Flags().Duration("pause", 100*time.Millisecond, "Pause after each press")
}

func runKey(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.Inputter == nil {
		return fmt.Errorf("input simulation not available on this platform")
	}

	repeat, _ := cmd.Flags().GetInt("repeat")
	pause, _ := cmd.Flags().GetDuration("pause")
	if repeat < 1 {
		return fmt.Errorf("--repeat must be at least 1")
	}
	keys, err := platform.ParseKeyCombo(args[0])
	if err != nil {
		return err
	}

	for i := 0; i < repeat; i++ {
		if err := provider.Inputter.KeyCombo(keys); err != nil {
			return err
		}
		if pause > 0 {
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(pause):
			}
		}
	}
	return output.Print(KeyResult{OK: true, Action: "key", Key: strings.Join(keys, "+"), Repeat: repeat})
}
