package util

import (
	"os"
	"regexp"
)

var winEnvPattern = regexp.MustCompile(`%([A-Za-z0-9_]+)%`)

// ExpandEnvUniversal expands both Unix-style ($VAR, ${VAR}) and Windows-style
// (%VAR%) environment variables in s. Unset Windows-style variables expand to
// an empty string, matching os.ExpandEnv's behavior for Unix-style ones.
func ExpandEnvUniversal(s string) string {
	expanded := os.ExpandEnv(s)
	return winEnvPattern.ReplaceAllStringFunc(expanded, func(match string) string {
		varName := match[1 : len(match)-1]
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return ""
	})
}

// Snippet returns a short prefix of a byte slice, useful for logging.
// Truncation is rune-aware so multi-byte characters are never cut in half.
func Snippet(b []byte) string {
	const maxLen = 200
	s := string(b)
	if len(s) > maxLen {
		runes := []rune(s)
		if len(runes) > maxLen {
			return string(runes[:maxLen]) + "..."
		}
	}
	return s
}
