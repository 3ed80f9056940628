package identity

import (
	"strings"
	"unicode/utf8"
)

// MaxUsernameLength bounds usernames in runes.
const MaxUsernameLength = 150

// NormalizeUsername trims surrounding whitespace. Usernames stay case-sensitive.
func NormalizeUsername(s string) string {
	return strings.TrimSpace(s)
}

// ValidUsername reports whether a normalized username is storable.
func ValidUsername(s string) bool {
	n := utf8.RuneCountInString(s)
	return n > 0 && n <= MaxUsernameLength
}
