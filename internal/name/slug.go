package name

import (
	"strings"
	"unicode"
)

// DefaultName stands in for a share link that carries no name at all.
const DefaultName = "Friend Name"

// linkPunctuation is ignored when deciding whether a link names anyone.
const linkPunctuation = `$%*_+~.()'"!-:@`

// HasSlugContent reports whether raw keeps anything once link punctuation and
// whitespace are removed. A link whose name is only punctuation names nobody.
func HasSlugContent(raw string) bool {
	for _, r := range raw {
		if !unicode.IsSpace(r) && !strings.ContainsRune(linkPunctuation, r) {
			return true
		}
	}
	return false
}

// Slug converts a clean name into the value used for the share link's
// name query parameter: denylisted punctuation is dropped and whitespace runs
// become a single "-". Case is preserved.
func Slug(clean string) string {
	s := strings.Map(func(r rune) rune {
		if strings.ContainsRune(denylist, r) {
			return ' '
		}
		return r
	}, clean)
	return strings.Join(strings.Fields(s), "-")
}

// FileName is the suggested download name for a rendered card: the
// lower-cased slug restricted to letters, digits, "-" and "_".
func FileName(clean string) string {
	var b strings.Builder
	lastWasDash := false
	for _, r := range strings.ToLower(Slug(clean)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash && b.Len() > 0 {
				b.WriteByte('-')
				lastWasDash = true
			}
		}
	}

	base := strings.Trim(b.String(), "-")
	if base == "" {
		base = "greeting"
	}
	return base + ".png"
}
