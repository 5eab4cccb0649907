// validate/space.go
package validate

import (
	"strings"
	"unicode"
)

// IsSpace reports whether r is whitespace for the purposes of this package.
// It accepts everything unicode.IsSpace does plus the Unicode separator
// categories and the information separators U+001C..U+001F.
func IsSpace(r rune) bool {
	if r >= 0x1c && r <= 0x1f {
		return true
	}
	return unicode.IsSpace(r) || unicode.In(r, unicode.Z)
}

// TrimSpace removes leading and trailing whitespace as defined by IsSpace.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, IsSpace)
}
