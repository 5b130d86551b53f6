package content

import (
	"regexp"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the URL identifier of a post from its title: lowercase,
// every run of characters outside [a-z0-9] becomes one hyphen, and a leading
// or trailing hyphen is dropped. Distinct titles may produce the same slug.
func Slugify(title string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.TrimPrefix(slug, "-")
	return strings.TrimSuffix(slug, "-")
}
