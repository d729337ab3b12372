package utils

import (
	"regexp"
	"strings"
)

// EscapeSQLWildcards escapes LIKE/ILIKE wildcard characters in user input.
func EscapeSQLWildcards(input string) string {
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// SanitizeSearchQuery prepares a search string for safe ILIKE usage and
// wraps it with % for partial matching.
func SanitizeSearchQuery(input string) string {
	input = strings.TrimSpace(input)
	if len(input) > 100 {
		input = input[:100]
	}
	input = EscapeSQLWildcards(input)
	return "%" + input + "%"
}

var ruleFileNameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidRuleFileName reports whether fileName is safe to commit under
// .cursor/rules/: an .mdc file with no path separators or traversal.
func ValidRuleFileName(fileName string) bool {
	if !strings.HasSuffix(fileName, ".mdc") {
		return false
	}
	if strings.Contains(fileName, "..") {
		return false
	}
	return ruleFileNameRe.MatchString(fileName)
}

// ValidateUsername checks that a username is 3-30 chars of [a-zA-Z0-9_-].
func ValidateUsername(username string) bool {
	re := regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)
	return re.MatchString(username)
}

// TruncateString safely truncates a string to max length.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
