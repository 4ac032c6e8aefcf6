package diag

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeScreen struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeScreen) CaptureScreen() ([]byte, error) {
	f.calls++
	return f.data, f.err
}

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func (c *stepClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	return nil
}

func greyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCaptureFullScreen_Raw(t *testing.T) {
	data := greyPNG(t, 50, 40)
	c := NewCapturer(&fakeScreen{data: data}, false)
	path := filepath.Join(t.TempDir(), "nested", "debug.png")

	if err := c.CaptureFullScreen(context.Background(), path, "marker never appeared"); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Error("unannotated capture should be written unchanged")
	}
}

func TestCaptureFullScreen_Annotated(t *testing.T) {
	c := NewCapturer(&fakeScreen{data: greyPNG(t, 200, 60)}, true)
	path := filepath.Join(t.TempDir(), "debug.png")

	if err := c.CaptureFullScreen(context.Background(), path, "marker never appeared: logo.png"); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 60 {
		t.Errorf("bounds = %v, want 200x60", img.Bounds())
	}
	r, _, _, _ := img.At(1, 1).RGBA()
	if r>>8 <= 40 {
		t.Error("expected banner tint at the top of the image")
	}
	r, g, b, _ := img.At(100, 55).RGBA()
	if r>>8 != 40 || g>>8 != 40 || b>>8 != 40 {
		t.Error("pixels below the banner should be untouched")
	}
}

func TestCaptureFullScreen_Errors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	c := NewCapturer(&fakeScreen{err: errors.New("no permission")}, false)
	if err := c.CaptureFullScreen(ctx, filepath.Join(dir, "a.png"), ""); err == nil {
		t.Error("expected capture error")
	}

	c = NewCapturer(&fakeScreen{data: []byte("garbage")}, true)
	if err := c.CaptureFullScreen(ctx, filepath.Join(dir, "b.png"), "reason"); err == nil {
		t.Error("expected decode error")
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	screen := &fakeScreen{data: greyPNG(t, 4, 4)}
	c = NewCapturer(screen, false)
	if err := c.CaptureFullScreen(cancelled, filepath.Join(dir, "c.png"), ""); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if screen.calls != 0 {
		t.Error("screen should not be captured after cancellation")
	}
}

func TestAnnotate_Truncates(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 30))
	out := Annotate(img, strings.Repeat("x", 100))
	if out.Bounds() != img.Bounds() {
		t.Errorf("bounds changed: %v", out.Bounds())
	}

	tiny := image.NewRGBA(image.Rect(0, 0, 5, 5))
	if got := Annotate(tiny, "reason"); got.Bounds() != tiny.Bounds() {
		t.Errorf("bounds changed: %v", got.Bounds())
	}
}

func TestPeriodic_CountAndNames(t *testing.T) {
	dir := t.TempDir()
	clock := &stepClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	p := &Periodic{
		Screen:   &fakeScreen{data: greyPNG(t, 4, 4)},
		Dir:      dir,
		Interval: 5 * time.Second,
		Count:    3,
		Clock:    clock,
		Logger:   quietLogger(),
	}

	saved, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "screenshot_20260314_090000.png"),
		filepath.Join(dir, "screenshot_20260314_090005.png"),
		filepath.Join(dir, "screenshot_20260314_090010.png"),
	}
	if len(saved) != len(want) {
		t.Fatalf("saved %d files, want %d", len(saved), len(want))
	}
	for i := range want {
		if saved[i] != want[i] {
			t.Errorf("saved[%d] = %s, want %s", i, saved[i], want[i])
		}
		if _, err := os.Stat(want[i]); err != nil {
			t.Errorf("missing %s: %v", want[i], err)
		}
	}
}

func TestPeriodic_FailuresContinue(t *testing.T) {
	screen := &fakeScreen{err: errors.New("denied")}
	p := &Periodic{
		Screen: screen,
		Dir:    t.TempDir(),
		Count:  2,
		Clock:  &stepClock{now: time.Now()},
		Logger: quietLogger(),
	}
	saved, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(saved) != 0 {
		t.Errorf("saved = %v, want none", saved)
	}
	if screen.calls != 2 {
		t.Errorf("calls = %d, want 2", screen.calls)
	}
}

func TestPeriodic_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	screen := &fakeScreen{data: greyPNG(t, 4, 4)}
	p := &Periodic{Screen: screen, Dir: t.TempDir(), Clock: &stepClock{}, Logger: quietLogger()}

	saved, err := p.Run(ctx)
	if err != nil {
		t.Errorf("cancellation should not be an error, got %v", err)
	}
	if len(saved) != 0 || screen.calls != 0 {
		t.Errorf("saved=%v calls=%d, want nothing captured", saved, screen.calls)
	}
}
