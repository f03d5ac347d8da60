package task

import (
	"strings"
	"testing"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple name", "My Task", "my-task"},
		{"punctuation collapses", "Fix: the bug!!", "fix-the-bug"},
		{"case insensitive", "MY TASK", "my-task"},
		{"mixed runs", "a  -  b___c", "a-b-c"},
		{"leading and trailing junk", "  !!task!!  ", "task"},
		{"digits survive", "release 2.0", "release-2-0"},
		{"empty name", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.input); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugCollisions(t *testing.T) {
	// Names differing only by case or punctuation derive the same id.
	if Slug("My Task") != Slug("my... task!") {
		t.Error("case/punctuation variants should collapse to one id")
	}
}

func TestSlugTruncatesAtWordBoundary(t *testing.T) {
	name := strings.Repeat("word ", 30)
	slug := Slug(name)

	if len(slug) > maxSlugLength {
		t.Errorf("slug length = %d, want <= %d", len(slug), maxSlugLength)
	}
	if strings.HasSuffix(slug, "-") {
		t.Errorf("slug %q has a trailing hyphen", slug)
	}
	if strings.HasSuffix(slug, "wor") {
		t.Errorf("slug %q was cut mid-word", slug)
	}
}

func TestSlugDeterministic(t *testing.T) {
	if Slug("Some Task Name") != Slug("Some Task Name") {
		t.Error("same name must derive the same id")
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("my-task"); got != "my-task.md" {
		t.Errorf("Filename = %q", got)
	}
}
