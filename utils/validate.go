package utils

import "strings"

// IsPresent reports whether a free-text identifier is usable: non-empty
// after trimming whitespace. Every upstream lookup is gated on it so that
// blank input never turns into a network call.
func IsPresent(s string) bool {
	return strings.TrimSpace(s) != ""
}
