package cmd

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/mj1618/screen-pilot/internal/diag"
	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/mj1618/screen-pilot/internal/logging"
	"github.com/mj1618/screen-pilot/internal/output"
	"github.com/mj1618/screen-pilot/internal/platform"
	"github.com/mj1618/screen-pilot/internal/version"
	"github.com/spf13/cobra"
)

// ScreenshotResult is the output of a periodic capture.
type ScreenshotResult struct {
	OK    bool     `yaml:"ok"    json:"ok"`
	Saved []string `yaml:"saved" json:"saved"`
}

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the screen once or periodically",
	Long: `Capture the full screen. Without --every the PNG is written to --output or to
stdout as base64. With --every, screenshots are saved into --dir as
screenshot_<timestamp>.png until interrupted or --count captures are taken.

Examples:
  screen-pilot screenshot --output screen.png
  screen-pilot screenshot --every 5s --dir captures`,
	RunE: runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	screenshotCmd.Flags().Duration("every", 0, "Capture repeatedly at this interval")
	screenshotCmd.Flags().Int("count", 0, "Stop after this many periodic captures (0 = until interrupted)")
	screenshotCmd.Flags().String("dir", ".", "Directory for periodic captures")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}
	if provider.Screenshotter == nil {
		return fmt.Errorf("screenshot not supported on this platform")
	}

	out, _ := cmd.Flags().GetString("output")
	every, _ := cmd.Flags().GetDuration("every")
	count, _ := cmd.Flags().GetInt("count")
	dir, _ := cmd.Flags().GetString("dir")

	if every > 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p := &diag.Periodic{
			Screen:   provider.Screenshotter,
			Dir:      dir,
			Interval: every,
			Count:    count,
			Clock:    engine.SystemClock{},
			Logger:   logging.New(cfg.Logging, version.Version).With("command", cmd.Name()).Logger,
		}
		saved, err := p.Run(cmd.Context())
		if err != nil {
			return err
		}
		return output.Print(ScreenshotResult{OK: true, Saved: saved})
	}

	start := time.Now()
	data, err := provider.Screenshotter.CaptureScreen()
	if err != nil {
		return err
	}

	if out != "" {
		if err := os.WriteFile(out, data, 0644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %s in %s\n", out, time.Since(start).Round(time.Millisecond))
		return nil
	}

	// Default: write to stdout as base64 for easy agent consumption
	encoder := base64.NewEncoder(base64.StdEncoding, os.Stdout)
	if _, err := encoder.Write(data); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	fmt.Println() // newline after base64
	return nil
}
