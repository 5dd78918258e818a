// Package eol canonicalizes line endings.
package eol

import "strings"

// LF is the canonical line terminator.
const LF = "\n"

// Normalize returns s with every CRLF and lone CR replaced by LF. Everything else is left alone, so Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", LF)
	return strings.ReplaceAll(s, "\r", LF)
}
