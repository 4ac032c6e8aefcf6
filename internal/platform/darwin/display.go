//go:build darwin && cgo

package darwin

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <CoreGraphics/CoreGraphics.h>

static double cg_main_display_rotation(int *ok) {
    CGDirectDisplayID display = CGMainDisplayID();
    if (display == kCGNullDirectDisplay) {
        *ok = 0;
        return 0;
    }
    *ok = 1;
    return CGDisplayRotation(display);
}
*/
import "C"
import (
	"fmt"
	"math"
)

// DarwinDisplay implements platform.Display for the main display.
type DarwinDisplay struct{}

// NewDisplay creates a new macOS display oracle.
func NewDisplay() *DarwinDisplay {
	return &DarwinDisplay{}
}

// Rotation returns the main display rotation normalized to 0, 90, 180 or 270.
func (d *DarwinDisplay) Rotation() (int, error) {
	var ok C.int
	deg := float64(C.cg_main_display_rotation(&ok))
	if ok == 0 {
		return 0, fmt.Errorf("no main display")
	}
	return normalizeRotation(deg), nil
}

func normalizeRotation(deg float64) int {
	r := int(math.Round(deg)) % 360
	if r < 0 {
		r += 360
	}
	return r
}
