package task

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kanmd/kanmd/internal/clierr"
)

func TestDecodeFullDocument(t *testing.T) {
	text := `---
created: 2024-01-02T03:04:05Z
due: 2024-02-01
progress: 0.5
assigned: alice
tags:
  - Small
  - urgent
---

# Fix the parser

The parser chokes on empty sections.

## Details

Repro steps attached.

## Sub-tasks

- [x] write failing test
- [ ] fix the bug

## Relations

- [blocks release-task](release-task.md)
- [other-task](other-task.md)

## Comments

- author: bob
  date: 2024-01-03T10:00:00.000Z
  Looks related to the sectionizer.
`

	task, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if task.Name != "Fix the parser" {
		t.Errorf("Name = %q", task.Name)
	}
	if task.ID() != "fix-the-parser" {
		t.Errorf("ID = %q", task.ID())
	}
	if !strings.Contains(task.Description, "The parser chokes") ||
		!strings.Contains(task.Description, "## Details") {
		t.Errorf("Description = %q", task.Description)
	}

	if task.Metadata.Created == nil || !task.Metadata.Created.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("Created = %v", task.Metadata.Created)
	}
	if task.Metadata.Due == nil {
		t.Error("Due not set")
	}
	if task.Metadata.Progress == nil || *task.Metadata.Progress != 0.5 {
		t.Errorf("Progress = %v", task.Metadata.Progress)
	}
	if task.Metadata.Assigned != "alice" {
		t.Errorf("Assigned = %q", task.Metadata.Assigned)
	}
	if !reflect.DeepEqual(task.Metadata.Tags, []string{"Small", "urgent"}) {
		t.Errorf("Tags = %v", task.Metadata.Tags)
	}

	wantSubTasks := []SubTask{
		{Text: "write failing test", Completed: true},
		{Text: "fix the bug", Completed: false},
	}
	if !reflect.DeepEqual(task.SubTasks, wantSubTasks) {
		t.Errorf("SubTasks = %v", task.SubTasks)
	}

	wantRelations := []Relation{
		{Task: "release-task", Type: "blocks"},
		{Task: "other-task", Type: ""},
	}
	if !reflect.DeepEqual(task.Relations, wantRelations) {
		t.Errorf("Relations = %v", task.Relations)
	}

	if len(task.Comments) != 1 {
		t.Fatalf("Comments = %v", task.Comments)
	}
	c := task.Comments[0]
	if c.Author != "bob" || c.Text != "Looks related to the sectionizer." {
		t.Errorf("Comment = %+v", c)
	}
	if !c.Date.Equal(time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("Comment date = %v", c.Date)
	}
}

func TestDecodeMetadataSectionWins(t *testing.T) {
	text := `---
assigned: alice
progress: 0.2
---

# Task

## Metadata

` + "```yaml" + `
assigned: bob
` + "```" + `
`

	task, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if task.Metadata.Assigned != "bob" {
		t.Errorf("Assigned = %q, want %q (embedded section wins)", task.Metadata.Assigned, "bob")
	}
	if task.Metadata.Progress == nil || *task.Metadata.Progress != 0.2 {
		t.Errorf("Progress = %v, want 0.2 (non-colliding key survives)", task.Metadata.Progress)
	}
	if strings.Contains(task.Description, "Metadata") {
		t.Errorf("Metadata section leaked into description: %q", task.Description)
	}
}

func TestDecodeMetadataOnlyInSection(t *testing.T) {
	text := "# Task\n\n## Metadata\n\ntags:\n  - Large\n"

	task, err := Decode(text)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(task.Metadata.Tags, []string{"Large"}) {
		t.Errorf("Tags = %v", task.Metadata.Tags)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
		wantErr  error
	}{
		{
			name:    "no name heading",
			input:   "just text, no heading\n",
			wantErr: ErrMissingName,
		},
		{
			name:     "bad created date",
			input:    "---\ncreated: not a date\n---\n\n# Task\n",
			wantCode: clierr.InvalidDate,
		},
		{
			name:     "bad progress",
			input:    "---\nprogress: not a number\n---\n\n# Task\n",
			wantCode: clierr.InvalidNumber,
		},
		{
			name:     "NaN progress",
			input:    "---\nprogress: NaN\n---\n\n# Task\n",
			wantCode: clierr.InvalidNumber,
		},
		{
			name:     "yaml NaN progress",
			input:    "---\nprogress: .nan\n---\n\n# Task\n",
			wantCode: clierr.InvalidNumber,
		},
		{
			name:     "infinite progress",
			input:    "---\nprogress: .inf\n---\n\n# Task\n",
			wantCode: clierr.InvalidNumber,
		},
		{
			name:     "bad comment date",
			input:    "# Task\n\n## Comments\n\n- date: garbage\n  hello\n",
			wantCode: clierr.InvalidDate,
		},
		{
			name:     "non-string tags",
			input:    "---\ntags:\n  - 42\n---\n\n# Task\n",
			wantCode: clierr.SchemaValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if tt.wantCode != "" {
				var cliErr *clierr.Error
				if !errors.As(err, &cliErr) || cliErr.Code != tt.wantCode {
					t.Errorf("got %v, want code %s", err, tt.wantCode)
				}
			}
		})
	}
}

func TestDecodeSectionListErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "sub-tasks not a list",
			input: "# Task\n\n## Sub-tasks\n\nnot a list\n",
			want:  "sub-tasks must contain a list",
		},
		{
			name:  "relations not a list",
			input: "# Task\n\n## Relations\n\nnot a list\n",
			want:  "relations must contain a list",
		},
		{
			name:  "comments not a list",
			input: "# Task\n\n## Comments\n\nnot a list\n",
			want:  "comments must contain a list",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestDecodeProgressFromString(t *testing.T) {
	task, err := Decode("---\nprogress: \"0.75\"\n---\n\n# Task\n")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if task.Metadata.Progress == nil || *task.Metadata.Progress != 0.75 {
		t.Errorf("Progress = %v, want 0.75", task.Metadata.Progress)
	}
}

func TestDecodeUnknownKeysGoToCustom(t *testing.T) {
	task, err := Decode("---\nassigned: alice\nseverity: high\n---\n\n# Task\n")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := task.Metadata.Custom["severity"]; got != "high" {
		t.Errorf("Custom[severity] = %v", got)
	}
	if _, ok := task.Metadata.Custom["assigned"]; ok {
		t.Error("reserved key leaked into Custom")
	}
}

func TestEncodeMissingName(t *testing.T) {
	if _, err := Encode(Task{Name: "  "}); !errors.Is(err, ErrMissingName) {
		t.Errorf("got %v, want ErrMissingName", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	progress := 0.25
	original := Task{
		Name:        "Round Trip Task",
		Description: "Some description\n\n## Details\n\nmore detail",
		Metadata: Metadata{
			Created:  &created,
			Due:      &due,
			Progress: &progress,
			Assigned: "alice",
			Tags:     []string{"Medium", "infra"},
		},
		SubTasks: []SubTask{
			{Text: "first", Completed: true},
			{Text: "second", Completed: false},
		},
		Relations: []Relation{
			{Task: "other-task", Type: "blocks"},
		},
		Comments: []Comment{
			{Text: "a note", Author: "bob", Date: time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)},
		},
	}

	encoded, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if decoded.Name != original.Name {
		t.Errorf("Name = %q", decoded.Name)
	}
	if decoded.Description != original.Description {
		t.Errorf("Description = %q, want %q", decoded.Description, original.Description)
	}
	if decoded.Metadata.Created == nil || !decoded.Metadata.Created.Equal(created) {
		t.Errorf("Created = %v", decoded.Metadata.Created)
	}
	if decoded.Metadata.Due == nil || !decoded.Metadata.Due.Equal(due) {
		t.Errorf("Due = %v", decoded.Metadata.Due)
	}
	if decoded.Metadata.Progress == nil || *decoded.Metadata.Progress != progress {
		t.Errorf("Progress = %v", decoded.Metadata.Progress)
	}
	if decoded.Metadata.Assigned != "alice" {
		t.Errorf("Assigned = %q", decoded.Metadata.Assigned)
	}
	if !reflect.DeepEqual(decoded.Metadata.Tags, original.Metadata.Tags) {
		t.Errorf("Tags = %v", decoded.Metadata.Tags)
	}
	if !reflect.DeepEqual(decoded.SubTasks, original.SubTasks) {
		t.Errorf("SubTasks = %v", decoded.SubTasks)
	}
	if !reflect.DeepEqual(decoded.Relations, original.Relations) {
		t.Errorf("Relations = %v", decoded.Relations)
	}
	if len(decoded.Comments) != 1 || decoded.Comments[0].Text != "a note" ||
		decoded.Comments[0].Author != "bob" ||
		!decoded.Comments[0].Date.Equal(original.Comments[0].Date) {
		t.Errorf("Comments = %+v", decoded.Comments)
	}

	// A second encode must be byte-identical: re-saving is stable.
	again, err := Encode(decoded)
	if err != nil {
		t.Fatalf("Encode again: %v", err)
	}
	if again != encoded {
		t.Errorf("re-encode changed output:\n%s\nvs\n%s", encoded, again)
	}
}

func TestEncodeMinimalTask(t *testing.T) {
	encoded, err := Encode(Task{Name: "Bare Task"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if encoded != "# Bare Task\n" {
		t.Errorf("encoded = %q", encoded)
	}
}
