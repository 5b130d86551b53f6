package validation

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidSlug reports whether s has the shape produced by content.Slugify.
// Requests for anything else cannot match a post.
func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

// NormalizePageID accepts a page id with or without hyphens (as it appears
// in Notion URLs) and returns the canonical hyphenated form.
func NormalizePageID(id string) (string, error) {
	if id == "" {
		return "", ValidationError{Field: "id", Message: "id is required"}
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", ValidationError{Field: "id", Message: "invalid page id format", Value: id}
	}
	return parsed.String(), nil
}
