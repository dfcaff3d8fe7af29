package util

import (
	"regexp"
	"strings"
)

var (
	nonAlphaNum = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
	nonEnvChar  = regexp.MustCompile(`[^A-Z0-9_]`)
)

// SanitizeID converts a string into a valid D2 identifier.
// D2 identifiers must be alphanumeric with hyphens/underscores.
func SanitizeID(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = nonAlphaNum.ReplaceAllString(s, "")
	if s == "" {
		return "unknown"
	}
	return s
}

// ProjectName normalizes a name for `docker compose -p`, which accepts
// lowercase letters, digits, dashes and underscores only.
func ProjectName(s string) string {
	s = SanitizeID(s)
	return strings.TrimLeft(s, "-_")
}

// EnvKey turns a capability or directory role into an environment variable
// fragment, e.g. "vector-db" -> "VECTOR_DB".
func EnvKey(s string) string {
	s = strings.ToUpper(s)
	s = strings.NewReplacer("-", "_", ".", "_", " ", "_", "/", "_").Replace(s)
	return nonEnvChar.ReplaceAllString(s, "")
}

// Quote wraps a string in double quotes for D2 labels.
func Quote(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
