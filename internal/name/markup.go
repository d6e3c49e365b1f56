package name

import (
	"strings"

	"golang.org/x/net/html"
)

// droppedElements have their whole content removed, not just their tags.
var droppedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"iframe":   true,
	"frame":    true,
	"frameset": true,
	"object":   true,
	"embed":    true,
	"applet":   true,
	"noscript": true,
	"noembed":  true,
	"noframes": true,
	"template": true,
	"svg":      true,
	"math":     true,
	"xmp":      true,
}

// stripMarkup keeps only the text content of s, as if it were sanitized
// with no allowed elements. Entities in text are decoded.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	b.Grow(len(s))

	depth := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader can produce.
			return b.String()
		case html.TextToken:
			if depth == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken:
			tag, _ := z.TagName()
			if droppedElements[string(tag)] {
				depth++
			}
		case html.EndTagToken:
			tag, _ := z.TagName()
			if droppedElements[string(tag)] && depth > 0 {
				depth--
			}
		}
	}
}
