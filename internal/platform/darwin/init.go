//go:build darwin && cgo

package darwin

import "github.com/mj1618/screen-pilot/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Inputter:      NewInputter(),
			WindowManager: NewWindowManager(),
			Screenshotter: NewScreenshotter(),
			Display:       NewDisplay(),
			Launcher:      NewLauncher(),
		}, nil
	}
	platform.RequestPermissionsFunc = func() {
		_ = CheckAccessibilityPermission()
		_ = CheckScreenRecordingPermission()
	}
}
