package diag

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// ScreenSource captures the screen as encoded image bytes.
type ScreenSource interface {
	CaptureScreen() ([]byte, error)
}

// Capturer implements engine.Capturer on top of a ScreenSource.
type Capturer struct {
	screen   ScreenSource
	annotate bool
}

// NewCapturer creates a Capturer. When annotate is set the escalation reason
// is drawn onto the saved image.
func NewCapturer(screen ScreenSource, annotate bool) *Capturer {
	return &Capturer{screen: screen, annotate: annotate}
}

// CaptureFullScreen saves the current screen to path as PNG.
func (c *Capturer) CaptureFullScreen(ctx context.Context, path, annotation string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := c.screen.CaptureScreen()
	if err != nil {
		return fmt.Errorf("capturing screen: %w", err)
	}

	if c.annotate && annotation != "" {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("decoding screen capture: %w", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, Annotate(img, annotation)); err != nil {
			return fmt.Errorf("encoding annotated capture: %w", err)
		}
		data = buf.Bytes()
	}

	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
