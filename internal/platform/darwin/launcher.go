//go:build darwin

package darwin

import (
	"fmt"
	"os/exec"
)

// DarwinLauncher implements platform.Launcher with open(1).
type DarwinLauncher struct{}

// NewLauncher creates a new macOS launcher.
func NewLauncher() *DarwinLauncher {
	return &DarwinLauncher{}
}

// Open opens a URL, settings URI, file or application bundle.
func (l *DarwinLauncher) Open(target string) error {
	if target == "" {
		return fmt.Errorf("nothing to open")
	}
	out, err := exec.Command("open", target).CombinedOutput()
	if err != nil {
		return fmt.Errorf("open %q failed: %w: %s", target, err, out)
	}
	return nil
}
