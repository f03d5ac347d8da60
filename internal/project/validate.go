package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kanmd/kanmd/internal/index"
	"github.com/kanmd/kanmd/internal/markdown"
	"github.com/kanmd/kanmd/internal/task"
)

// Issue is a single validation finding.
type Issue struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Validate checks the index and every task file, aggregating all findings
// into a list instead of failing on the first. This is the one operation
// that catches per-file errors and continues.
func (p *Project) Validate() ([]Issue, error) {
	var issues []Issue

	idx, err := p.loadIndexForValidation(&issues)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(p.TasksPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(p.TasksPath(), entry.Name())) //nolint:gosec // board path
		if err != nil {
			issues = append(issues, Issue{File: entry.Name(), Error: err.Error()})
			continue
		}

		t, err := task.Decode(string(data))
		if err != nil {
			issues = append(issues, Issue{File: entry.Name(), Error: err.Error()})
			continue
		}

		issues = append(issues, duplicateHeadingIssues(entry.Name(), string(data))...)

		// The filename stem must match the id derived from the name,
		// or loads and saves would disagree about identity.
		stem := strings.TrimSuffix(entry.Name(), ".md")
		if t.ID() != stem {
			issues = append(issues, Issue{
				File:  entry.Name(),
				Error: fmt.Sprintf("task name %q slugs to %q, not %q", t.Name, t.ID(), stem),
			})
		}
	}

	if idx != nil {
		issues = append(issues, p.validateTracking(idx)...)
	}

	return issues, nil
}

func (p *Project) loadIndexForValidation(issues *[]Issue) (*index.Index, error) {
	data, err := os.ReadFile(p.IndexPath()) //nolint:gosec // board path
	if err != nil {
		if os.IsNotExist(err) {
			*issues = append(*issues, Issue{File: IndexFile, Error: "index file missing"})
			return nil, nil
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}

	idx, err := index.Decode(string(data))
	if err != nil {
		*issues = append(*issues, Issue{File: IndexFile, Error: err.Error()})
		return nil, nil
	}
	*issues = append(*issues, duplicateHeadingIssues(IndexFile, string(data))...)
	return &idx, nil
}

// duplicateHeadingIssues warns about repeated heading titles. The decoder
// keeps only the last occurrence, so the earlier content is silently lost.
func duplicateHeadingIssues(file, data string) []Issue {
	_, body, err := markdown.ExtractFrontMatter(data)
	if err != nil {
		body = data
	}

	var issues []Issue
	for _, title := range markdown.DuplicateTitles(body) {
		issues = append(issues, Issue{
			File:  file,
			Error: fmt.Sprintf("heading %q appears more than once, earlier content is ignored", title),
		})
	}
	return issues
}

// validateTracking flags tracked ids with no backing file and ids tracked
// by more than one column: a task lives in exactly one column.
func (p *Project) validateTracking(idx *index.Index) []Issue {
	var issues []Issue

	seen := make(map[string]string)
	for _, col := range idx.Columns {
		for _, id := range col.Tasks {
			if prev, dup := seen[id]; dup {
				issues = append(issues, Issue{
					File:  IndexFile,
					Error: fmt.Sprintf("task %q tracked in both %q and %q", id, prev, col.Name),
				})
				continue
			}
			seen[id] = col.Name

			if !p.taskFileExists(id) {
				issues = append(issues, Issue{
					File:  IndexFile,
					Error: fmt.Sprintf("task %q has no file in %s/", id, TasksDir),
				})
			}
		}
	}

	return issues
}
