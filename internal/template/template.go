package template

import (
	"regexp"
	"strings"

	"github.com/sanket-telunagi/pyautos/internal/logging"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Substitute replaces every {{name}} placeholder in s with the value of that
// name in vars, or an empty string when absent. The replacement is a single
// literal pass: substituted values are not re-scanned, so a value containing
// a placeholder token survives verbatim. There is no escaping mechanism; a
// literal double-brace pair in data is treated as a placeholder.
func Substitute(s string, vars map[string]string) string {
	if s == "" || !strings.Contains(s, "{{") {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		if val, ok := vars[name]; ok {
			return val
		}
		logging.Logf(logging.Debug, "Placeholder '%s' has no value in the environment store, substituting empty string", name)
		return ""
	})
}

// SubstituteMap applies Substitute to each value of m and returns a new map.
// Keys are passed through untouched. A nil map yields an empty map.
func SubstituteMap(m map[string]string, vars map[string]string) map[string]string {
	resolved := make(map[string]string, len(m))
	for k, v := range m {
		resolved[k] = Substitute(v, vars)
	}
	return resolved
}
