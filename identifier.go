package draftweaver

import (
	"strings"
	"unicode"
)

// MaxIdentifierLength caps identifiers, in runes.
const MaxIdentifierLength = 128

// DefaultIdentifier is returned when sanitizing leaves nothing.
const DefaultIdentifier = "article"

// SanitizeIdentifier turns arbitrary text into a "d" tag identifier:
// lowercase letter and digit runs (any script) joined by single hyphens,
// at most MaxIdentifierLength runes, never empty.
func SanitizeIdentifier(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(text))

	runes := 0
	pendingHyphen := false
	for _, r := range text {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			pendingHyphen = true
			continue
		}
		if pendingHyphen && b.Len() > 0 {
			if runes+1 >= MaxIdentifierLength {
				break
			}
			b.WriteByte('-')
			runes++
		}
		pendingHyphen = false
		if runes >= MaxIdentifierLength {
			break
		}
		b.WriteRune(r)
		runes++
	}

	if b.Len() == 0 {
		return DefaultIdentifier
	}
	return b.String()
}

// DeriveIdentifier sanitizes the title, or the canonical URL when the title
// is blank.
func DeriveIdentifier(title, canonicalURL string) string {
	if strings.TrimSpace(title) != "" {
		return SanitizeIdentifier(title)
	}
	return SanitizeIdentifier(canonicalURL)
}
