package diag

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// basicfont.Face7x13 glyph metrics.
const (
	glyphWidth  = 7
	glyphHeight = 13
	bannerPad   = 6
)

// Annotate returns a copy of img with text drawn in a banner across the top.
// Text wider than the image is truncated with an ellipsis.
func Annotate(img image.Image, text string) *image.RGBA {
	rgba := toRGBA(img)
	if text == "" {
		return rgba
	}
	b := rgba.Bounds()

	maxChars := (b.Dx() - 2*bannerPad) / glyphWidth
	if maxChars <= 0 {
		return rgba
	}
	if len(text) > maxChars {
		if maxChars > 3 {
			text = text[:maxChars-3] + "..."
		} else {
			text = text[:maxChars]
		}
	}

	banner := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+glyphHeight+2*bannerPad)
	draw.Draw(rgba, banner.Intersect(b), image.NewUniform(color.RGBA{R: 180, A: 220}), image.Point{}, draw.Over)

	drawTextWithOutline(rgba, text, b.Min.X+bannerPad, b.Min.Y+bannerPad+glyphHeight-2,
		color.RGBA{R: 255, G: 255, B: 255, A: 255}, color.RGBA{A: 200})
	return rgba
}

func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

// drawTextWithOutline draws text with its baseline starting at (x, y).
func drawTextWithOutline(img *image.RGBA, text string, x, y int, textColor, outlineColor color.Color) {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(outlineColor),
				Face: basicfont.Face7x13,
				Dot:  fixed.P(x+dx, y+dy),
			}
			d.DrawString(text)
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
