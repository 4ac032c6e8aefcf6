//go:build darwin && cgo

package darwin

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <CoreGraphics/CoreGraphics.h>

static int cg_check_screen_recording() {
    return CGPreflightScreenCaptureAccess() ? 1 : 0;
}
*/
import "C"
import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// CheckScreenRecordingPermission checks if the process has macOS screen recording permission.
func CheckScreenRecordingPermission() error {
	if C.cg_check_screen_recording() == 0 {
		return fmt.Errorf(
			"screen recording permission required\n\n" +
				"Grant permission at: System Settings > Privacy & Security > Screen Recording\n" +
				"Add your terminal app (e.g. Terminal.app, iTerm2, or the IDE running this command).\n" +
				"Then restart the terminal and try again.")
	}
	return nil
}

// DarwinScreenshotter implements platform.Screenshotter using screencapture(1).
type DarwinScreenshotter struct{}

// NewScreenshotter creates a new macOS screenshotter.
func NewScreenshotter() *DarwinScreenshotter {
	return &DarwinScreenshotter{}
}

// CaptureScreen captures the main display as PNG bytes.
func (s *DarwinScreenshotter) CaptureScreen() ([]byte, error) {
	if err := CheckScreenRecordingPermission(); err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "screen-pilot-*")
	if err != nil {
		return nil, fmt.Errorf("creating capture dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "screen.png")
	// -x: no sound, -m: main display only
	out, err := exec.Command("screencapture", "-x", "-m", "-t", "png", path).CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("screencapture failed: %w: %s", err, out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading capture: %w", err)
	}
	return data, nil
}
