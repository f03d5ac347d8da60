package task

import (
	"regexp"
	"strings"
)

const maxSlugLength = 60

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slug converts a task name to its derived id: lowercase with
// non-alphanumeric runs collapsed to single hyphens. Names differing only
// by case or punctuation collapse to the same id; the conflict check at
// create/rename time catches the collision.
func Slug(name string) string {
	slug := strings.ToLower(name)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > maxSlugLength {
		truncated := slug[:maxSlugLength]
		// Only trim to the last hyphen if we cut mid-word.
		if slug[maxSlugLength] != '-' {
			if idx := strings.LastIndex(truncated, "-"); idx > 0 {
				truncated = truncated[:idx]
			}
		}
		slug = strings.TrimRight(truncated, "-")
	}

	return slug
}

// Filename returns the task file name for an id.
func Filename(id string) string {
	return id + ".md"
}
