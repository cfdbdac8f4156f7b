package exporter

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a filesystem-safe name from a page title: lowercased,
// runs of non-alphanumeric characters collapsed to single hyphens,
// leading and trailing hyphens stripped.
func Slug(title string) string {
	slug := strings.ToLower(title)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
