// Package name turns untrusted user input into a display-safe greeting name
// and derives the slug forms used for share links and file names.
package name

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultMinLen = 2
	DefaultMaxLen = 36
)

// ErrInvalidInput is returned when a raw name cannot become a clean name.
var ErrInvalidInput = errors.New("invalid name")

// ErrMissingName is returned for empty input. It matches ErrInvalidInput.
var ErrMissingName = fmt.Errorf("%w: no name provided", ErrInvalidInput)

// denylist holds the punctuation replaced by a space. Angle brackets are not
// part of it but are always removed after markup stripping.
const denylist = `*+~.()'"!:@`

var (
	plusRun     = regexp.MustCompile(`\++`)
	pctSpaceRun = regexp.MustCompile(`(?:%20)+`)
	dashRun     = regexp.MustCompile(`-+`)
)

// Normalizer applies Normalize with fixed length bounds.
type Normalizer struct {
	MinLen int
	MaxLen int
}

// NewNormalizer returns a Normalizer, falling back to the default bounds for
// non-positive values.
func NewNormalizer(minLen, maxLen int) Normalizer {
	if minLen <= 0 {
		minLen = DefaultMinLen
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return Normalizer{MinLen: minLen, MaxLen: maxLen}
}

// Normalize cleans raw and reports a rejection as an error wrapping
// ErrInvalidInput.
func (n Normalizer) Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrMissingName
	}
	clean, ok := Normalize(raw, n.MinLen, n.MaxLen)
	if !ok {
		return "", fmt.Errorf("%w: must be between %d and %d characters", ErrInvalidInput, n.MinLen, n.MaxLen)
	}
	return clean, nil
}

// RejectionMessage is the user-facing text for a rejected name.
func (n Normalizer) RejectionMessage() string {
	return RejectionMessage(n.MinLen, n.MaxLen)
}

// RejectionMessage is the user-facing text for a name outside [minLen, maxLen].
func RejectionMessage(minLen, maxLen int) string {
	return fmt.Sprintf("Invalid name provided. Please ensure it is between %d to %d characters.", minLen, maxLen)
}

// Normalize converts raw into a clean name. The second result is false when
// the input is empty or the cleaned name falls outside [minLen, maxLen]
// grapheme clusters.
//
// The steps run in a fixed order: markup is stripped and the text
// NFC-normalized until neither changes it, the text is trimmed, denylisted punctuation becomes a space, runs of "+", "%20"
// and "-" collapse to a space, and whitespace is collapsed and trimmed.
func Normalize(raw string, minLen, maxLen int) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	s, ok := settleMarkup(strings.ToValidUTF8(raw, ""))
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	s = strings.Map(replaceDenied, s)

	s = plusRun.ReplaceAllString(s, " ")
	s = pctSpaceRun.ReplaceAllString(s, " ")
	s = dashRun.ReplaceAllString(s, " ")
	s = strings.Join(strings.Fields(s), " ")

	n := Length(s)
	if n == 0 || n < minLen || n > maxLen {
		return "", false
	}
	return s, true
}

// maxMarkupPasses bounds settleMarkup. Input that still changes after this
// many passes is rejected.
const maxMarkupPasses = 16

// settleMarkup strips markup and NFC-normalizes s until the result is stable.
// Removing a tag can join text into a new entity ("&</b>lt" becomes "&lt"),
// so a single pass is not enough for a clean name to stay clean. The later
// steps only replace characters with spaces, which never forms markup.
func settleMarkup(s string) (string, bool) {
	s = norm.NFC.String(s)
	for i := 0; i < maxMarkupPasses; i++ {
		next := norm.NFC.String(stripMarkup(s))
		if next == s {
			return s, true
		}
		s = next
	}
	return "", false
}

// Length counts user-perceived characters (grapheme clusters), so a flag
// emoji or a letter with combining marks counts as one.
func Length(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

func replaceDenied(r rune) rune {
	switch {
	case strings.ContainsRune(denylist, r), r == '<', r == '>':
		return ' '
	case unicode.IsControl(r):
		return ' '
	}
	return r
}
