// Package vision locates marker images on screen by template matching.
package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"sync"

	"github.com/mj1618/screen-pilot/internal/engine"
	"github.com/nfnt/resize"
)

// ScreenSource captures the screen as encoded image bytes.
type ScreenSource interface {
	CaptureScreen() ([]byte, error)
}

// Options tune template matching.
type Options struct {
	// Confidence is the minimum similarity in (0, 1] for a match.
	Confidence float64
	// Scale downsamples screen and template before matching, in (0, 1].
	Scale float64
	// PixelRatio converts captured pixels to screen points (2 on Retina displays).
	PixelRatio float64
}

// TemplateLocator implements engine.Locator. Marker IDs are image file paths.
type TemplateLocator struct {
	screen ScreenSource
	opts   Options

	mu        sync.Mutex
	templates map[engine.MarkerID]grayImage
}

// NewTemplateLocator creates a locator matching templates against screen captures.
func NewTemplateLocator(screen ScreenSource, opts Options) *TemplateLocator {
	if opts.Confidence <= 0 || opts.Confidence > 1 {
		opts.Confidence = 0.8
	}
	if opts.Scale <= 0 || opts.Scale > 1 {
		opts.Scale = 1
	}
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = 1
	}
	return &TemplateLocator{
		screen:    screen,
		opts:      opts,
		templates: make(map[engine.MarkerID]grayImage),
	}
}

// Locate captures the screen and returns the center of the best match for marker.
func (l *TemplateLocator) Locate(ctx context.Context, marker engine.MarkerID) (engine.Position, bool, error) {
	if err := ctx.Err(); err != nil {
		return engine.Position{}, false, err
	}
	tmpl, err := l.template(marker)
	if err != nil {
		return engine.Position{}, false, err
	}

	data, err := l.screen.CaptureScreen()
	if err != nil {
		return engine.Position{}, false, fmt.Errorf("capturing screen: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return engine.Position{}, false, fmt.Errorf("decoding screen capture: %w", err)
	}
	screen := toGray(downscale(img, l.opts.Scale))

	m, ok := bestMatch(screen, tmpl, l.opts.Confidence)
	if !ok {
		return engine.Position{}, false, nil
	}
	cx := (float64(m.x) + float64(tmpl.w)/2) / l.opts.Scale / l.opts.PixelRatio
	cy := (float64(m.y) + float64(tmpl.h)/2) / l.opts.Scale / l.opts.PixelRatio
	return engine.Position{X: int(math.Round(cx)), Y: int(math.Round(cy))}, true, nil
}

// Preload decodes marker templates up front so a missing file fails before a run starts.
func (l *TemplateLocator) Preload(markers ...engine.MarkerID) error {
	for _, m := range markers {
		if _, err := l.template(m); err != nil {
			return err
		}
	}
	return nil
}

func (l *TemplateLocator) template(marker engine.MarkerID) (grayImage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t, ok := l.templates[marker]; ok {
		return t, nil
	}

	f, err := os.Open(string(marker))
	if err != nil {
		return grayImage{}, fmt.Errorf("opening marker %s: %w", marker, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return grayImage{}, fmt.Errorf("decoding marker %s: %w", marker, err)
	}
	t := toGray(downscale(img, l.opts.Scale))
	if t.w == 0 || t.h == 0 {
		return grayImage{}, fmt.Errorf("marker %s is empty", marker)
	}
	l.templates[marker] = t
	return t, nil
}

// grayImage is a dense 8-bit luminance buffer.
type grayImage struct {
	w, h int
	pix  []uint8
}

func toGray(img image.Image) grayImage {
	b := img.Bounds()
	g := grayImage{w: b.Dx(), h: b.Dy(), pix: make([]uint8, b.Dx()*b.Dy())}
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			g.pix[y*g.w+x] = c.Y
		}
	}
	return g
}

func downscale(img image.Image, scale float64) image.Image {
	if scale >= 1 {
		return img
	}
	w := uint(math.Round(float64(img.Bounds().Dx()) * scale))
	h := uint(math.Round(float64(img.Bounds().Dy()) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return resize.Resize(w, h, img, resize.Bilinear)
}

type match struct {
	x, y  int
	score float64
}

// bestMatch slides tmpl over screen and returns the window with the lowest
// sum of absolute differences, provided its similarity reaches confidence.
// Windows are abandoned as soon as their running sum cannot beat the best.
func bestMatch(screen, tmpl grayImage, confidence float64) (match, bool) {
	if tmpl.w > screen.w || tmpl.h > screen.h {
		return match{}, false
	}
	n := float64(tmpl.w * tmpl.h)
	limit := int64((1 - confidence) * 255 * n)
	best := limit + 1
	bx, by := -1, -1

	for y := 0; y <= screen.h-tmpl.h; y++ {
		for x := 0; x <= screen.w-tmpl.w; x++ {
			var sum int64
			for ty := 0; ty < tmpl.h && sum < best; ty++ {
				row := screen.pix[(y+ty)*screen.w+x:]
				trow := tmpl.pix[ty*tmpl.w:]
				for tx := 0; tx < tmpl.w; tx++ {
					d := int64(row[tx]) - int64(trow[tx])
					if d < 0 {
						d = -d
					}
					sum += d
				}
			}
			if sum < best {
				best, bx, by = sum, x, y
			}
		}
	}
	if bx < 0 {
		return match{}, false
	}
	return match{x: bx, y: by, score: 1 - float64(best)/(255*n)}, true
}
