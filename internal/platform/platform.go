package platform

// Inputter simulates mouse and keyboard input.
type Inputter interface {
	Click(x, y int, button MouseButton, count int) error
	MoveMouse(x, y int) error
	KeyCombo(keys []string) error
}

// WindowManager reports window focus.
type WindowManager interface {
	// FocusedWindowTitle returns the title of the focused window.
	// ok=false with a nil error means no window has focus.
	FocusedWindowTitle() (title string, ok bool, err error)
}

// Screenshotter captures screenshots.
type Screenshotter interface {
	// CaptureScreen captures the entire main display as PNG bytes at full resolution.
	CaptureScreen() ([]byte, error)
}

// Display reports display geometry.
type Display interface {
	// Rotation returns the rotation of the main display in degrees (0, 90, 180, 270).
	Rotation() (int, error)
}

// Launcher opens URIs, files and applications.
type Launcher interface {
	Open(target string) error
}
