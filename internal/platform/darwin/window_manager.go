//go:build darwin && cgo

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit -framework ApplicationServices -framework CoreFoundation -framework Foundation
#import <AppKit/AppKit.h>
#include <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>

// Copy the focused window title of the frontmost application into *out.
// Returns 0 on success (caller frees *out), 1 when no window has focus,
// -1 when the accessibility query fails.
static int ax_focused_window_title(char **out) {
    *out = NULL;
    pid_t pid;
    @autoreleasepool {
        NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
        if (app == nil) return 1;
        pid = [app processIdentifier];
    }

    AXUIElementRef appRef = AXUIElementCreateApplication(pid);
    if (appRef == NULL) return -1;

    CFTypeRef window = NULL;
    AXError err = AXUIElementCopyAttributeValue(appRef, kAXFocusedWindowAttribute, &window);
    CFRelease(appRef);
    if (err == kAXErrorNoValue || (err == kAXErrorSuccess && window == NULL)) return 1;
    if (err != kAXErrorSuccess) return -1;

    CFTypeRef title = NULL;
    err = AXUIElementCopyAttributeValue((AXUIElementRef)window, kAXTitleAttribute, &title);
    CFRelease(window);
    if (err == kAXErrorNoValue || (err == kAXErrorSuccess && title == NULL)) {
        *out = strdup("");
        return 0;
    }
    if (err != kAXErrorSuccess) return -1;
    if (CFGetTypeID(title) != CFStringGetTypeID()) {
        CFRelease(title);
        return -1;
    }

    CFIndex length = CFStringGetLength((CFStringRef)title);
    CFIndex size = CFStringGetMaximumSizeForEncoding(length, kCFStringEncodingUTF8) + 1;
    char *buf = malloc(size);
    if (buf == NULL || !CFStringGetCString((CFStringRef)title, buf, size, kCFStringEncodingUTF8)) {
        free(buf);
        CFRelease(title);
        return -1;
    }
    CFRelease(title);
    *out = buf;
    return 0;
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// DarwinWindowManager implements platform.WindowManager via the Accessibility API.
type DarwinWindowManager struct{}

// NewWindowManager creates a new macOS window manager.
func NewWindowManager() *DarwinWindowManager {
	return &DarwinWindowManager{}
}

// FocusedWindowTitle returns the title of the frontmost application's focused window.
func (wm *DarwinWindowManager) FocusedWindowTitle() (string, bool, error) {
	if err := CheckAccessibilityPermission(); err != nil {
		return "", false, err
	}

	var cTitle *C.char
	switch C.ax_focused_window_title(&cTitle) {
	case 0:
		defer C.free(unsafe.Pointer(cTitle))
		return C.GoString(cTitle), true, nil
	case 1:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("failed to query focused window")
	}
}
