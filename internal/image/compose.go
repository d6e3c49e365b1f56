package imagepkg

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var ErrInvalidStyle = errors.New("invalid card style")

// Style fixes the geometry and colours of a greeting card.
type Style struct {
	Width  int
	Height int
	// AnchorX and AnchorY are the pixel centre of the text block.
	AnchorX float64
	AnchorY float64
	// MaxWidthRatio is the widest a line may be, as a fraction of Width.
	MaxWidthRatio float64
	LineHeight    float64

	TextColor     color.NRGBA
	ShadowColor   color.NRGBA
	ShadowBlur    float64
	ShadowOffsetX int
	ShadowOffsetY int
}

// DefaultStyle is a 1080x1080 card with white text centred on the canvas.
func DefaultStyle() Style {
	return Style{
		Width:         1080,
		Height:        1080,
		AnchorX:       540,
		AnchorY:       540,
		MaxWidthRatio: 0.8,
		LineHeight:    80,
		TextColor:     color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		ShadowColor:   color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xb3},
		ShadowBlur:    6,
		ShadowOffsetX: 3,
		ShadowOffsetY: 3,
	}
}

// MaxWidth is the line width limit in pixels.
func (s Style) MaxWidth() float64 {
	return float64(s.Width) * s.MaxWidthRatio
}

// ComposeGreeting draws bg stretched over a fresh canvas and writes text on
// it, wrapped and centred on the style's anchor, over a soft drop shadow.
func ComposeGreeting(bg image.Image, face font.Face, text string, style Style) (*image.NRGBA, error) {
	if style.Width <= 0 || style.Height <= 0 {
		return nil, ErrInvalidStyle
	}
	if bg == nil || face == nil {
		return nil, errors.New("compose: missing background or face")
	}

	canvas := imaging.New(style.Width, style.Height, color.NRGBA{A: 0xff})
	stretched := imaging.Resize(bg, style.Width, style.Height, imaging.Lanczos)
	canvas = imaging.Paste(canvas, stretched, image.Pt(0, 0))

	lines := Layout(text, style.MaxWidth(), style.LineHeight, FaceMeasurer(face))
	if len(lines) == 0 {
		return canvas, nil
	}

	if style.ShadowColor.A > 0 {
		shadow := image.NewNRGBA(canvas.Bounds())
		drawLines(shadow, face, lines, style, style.ShadowColor, style.ShadowOffsetX, style.ShadowOffsetY)
		var blurred image.Image = shadow
		if style.ShadowBlur > 0 {
			blurred = imaging.Blur(shadow, style.ShadowBlur)
		}
		canvas = imaging.Overlay(canvas, blurred, image.Pt(0, 0), 1.0)
	}

	drawLines(canvas, face, lines, style, style.TextColor, 0, 0)
	return canvas, nil
}

// drawLines draws each line centred horizontally on the anchor and
// vertically on its own centre.
func drawLines(dst *image.NRGBA, face font.Face, lines []LayoutLine, style Style, c color.NRGBA, dx, dy int) {
	m := face.Metrics()
	// Moves a baseline so the glyphs' ascent-descent box is centred.
	middle := float64(m.Ascent-m.Descent) / 64 / 2

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	for _, line := range lines {
		x := style.AnchorX - line.Width/2 + float64(dx)
		y := style.AnchorY + line.Y + middle + float64(dy)
		d.Dot = fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}
		d.DrawString(line.Text)
	}
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
