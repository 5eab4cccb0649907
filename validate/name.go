// validate/name.go
package validate

import "unicode/utf8"

// Name length bounds, inclusive, counted in runes after trimming.
const (
	NameMinLen = 2
	NameMaxLen = 50
)

// Name reports whether name has a reasonable length once surrounding
// whitespace is removed. Empty and whitespace-only names are invalid.
func Name(name string) bool {
	n := utf8.RuneCountInString(TrimSpace(name))
	return n >= NameMinLen && n <= NameMaxLen
}

// NameLength returns the rune count of the trimmed name.
func NameLength(name string) int {
	return utf8.RuneCountInString(TrimSpace(name))
}
