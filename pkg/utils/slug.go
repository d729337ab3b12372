package utils

import (
	"regexp"
	"strings"
)

var slugStripRe = regexp.MustCompile(`[^a-z0-9 ]+`)

// GenerateSlug creates a URL-friendly slug from a title, matching the
// registry naming convention (lowercase, spaces to hyphens).
func GenerateSlug(input string) string {
	slug := strings.ToLower(input)
	slug = slugStripRe.ReplaceAllString(slug, "")
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}
