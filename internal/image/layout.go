package imagepkg

import (
	"strings"

	"golang.org/x/image/font"
)

// LayoutLine is one wrapped line of text.
type LayoutLine struct {
	Text  string
	Width float64
	// Y is the offset of the line's vertical centre from the anchor.
	Y float64
}

// MeasureFunc returns the rendered width of s in pixels.
type MeasureFunc func(s string) float64

// FaceMeasurer measures strings with face.
func FaceMeasurer(face font.Face) MeasureFunc {
	return func(s string) float64 {
		return float64(font.MeasureString(face, s)) / 64
	}
}

// WrapText splits text on single spaces and greedily packs the words into
// lines no wider than maxWidth. A word is never split; a word wider than
// maxWidth alone gets a line of its own and overflows.
func WrapText(text string, maxWidth float64, measure MeasureFunc) []LayoutLine {
	var lines []LayoutLine
	line := ""
	for _, word := range strings.Split(text, " ") {
		if word == "" {
			continue
		}
		if line == "" {
			line = word
			continue
		}
		candidate := line + " " + word
		if measure(candidate) > maxWidth {
			lines = append(lines, LayoutLine{Text: line, Width: measure(line)})
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, LayoutLine{Text: line, Width: measure(line)})
	}
	return lines
}

// Layout wraps text and centres the block of lines vertically on the anchor:
// line i sits at -(k-1)*lineHeight/2 + i*lineHeight for k lines.
func Layout(text string, maxWidth, lineHeight float64, measure MeasureFunc) []LayoutLine {
	lines := WrapText(text, maxWidth, measure)
	offset := -float64(len(lines)-1) * lineHeight / 2
	for i := range lines {
		lines[i].Y = offset + float64(i)*lineHeight
	}
	return lines
}
