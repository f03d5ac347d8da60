package project

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/date"
	"github.com/kanmd/kanmd/internal/index"
	"github.com/kanmd/kanmd/internal/task"
)

// CreateTask writes a new task document and tracks it in the given
// column. Returns the derived task id. Creating a task whose name slugs
// to an existing id is a conflict, never a silent overwrite.
func (p *Project) CreateTask(t task.Task, column string) (string, error) {
	idx, err := p.LoadIndex()
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(t.Name) == "" {
		return "", clierr.New(clierr.DomainRule, "task name cannot be empty")
	}
	if idx.Column(column) == nil {
		return "", columnNotFound(column)
	}

	id := t.ID()
	if p.taskFileExists(id) || idx.ColumnOf(id) != "" {
		return "", clierr.Newf(clierr.Conflict, "task %q already exists", id).
			WithDetails(map[string]any{"id": id})
	}

	now := time.Now()
	if t.Metadata.Created == nil {
		t.Metadata.Created = &now
	}
	t.Metadata.Updated = &now
	p.stampColumnEntry(idx, &t, column)

	if err := p.validateCustomFields(idx, t); err != nil {
		return "", err
	}
	if err := p.SaveTask(t); err != nil {
		return "", err
	}

	idx.Track(id, column, -1)
	if err := p.SaveIndex(idx); err != nil {
		return "", err
	}

	p.journal("create", id, column)
	return id, nil
}

// UpdateTask replaces a task's content. A changed name renames the task
// first (new id, new file). A non-empty column moves the task there.
func (p *Project) UpdateTask(id string, t task.Task, column string) (string, error) {
	idx, err := p.LoadIndex()
	if err != nil {
		return "", err
	}
	if _, err := p.LoadTask(id); err != nil {
		return "", err
	}

	if t.Name != "" && t.ID() != id {
		if id, err = p.RenameTask(id, t.Name); err != nil {
			return "", err
		}
		idx, err = p.LoadIndex()
		if err != nil {
			return "", err
		}
	}

	if err := p.validateCustomFields(idx, t); err != nil {
		return "", err
	}

	now := time.Now()
	t.Metadata.Updated = &now

	if column != "" {
		if idx.Column(column) == nil {
			return "", columnNotFound(column)
		}
		if idx.ColumnOf(id) != column {
			p.stampColumnEntry(idx, &t, column)
			idx.Track(id, column, -1)
		}
	}

	if err := p.SaveTask(t); err != nil {
		return "", err
	}
	if err := p.SaveIndex(idx); err != nil {
		return "", err
	}

	p.journal("update", id, column)
	return id, nil
}

// RenameTask writes the task under its new id, removes the old file, and
// rewrites the index entry in place. The three steps are separate writes
// with no rollback: a crash mid-rename can leave the old file behind.
func (p *Project) RenameTask(id, newName string) (string, error) {
	idx, err := p.LoadIndex()
	if err != nil {
		return "", err
	}
	t, err := p.LoadTask(id)
	if err != nil {
		return "", err
	}

	newID := task.Slug(newName)
	if newID == "" {
		return "", clierr.New(clierr.DomainRule, "task name cannot be empty")
	}
	if newID == id {
		return id, nil
	}
	if p.taskFileExists(newID) || idx.ColumnOf(newID) != "" {
		return "", clierr.Newf(clierr.Conflict, "a task with id %q already exists", newID).
			WithDetails(map[string]any{"id": newID})
	}

	now := time.Now()
	t.Name = newName
	t.Metadata.Updated = &now

	if err := p.SaveTask(t); err != nil {
		return "", err
	}
	if err := os.Remove(p.taskPath(id)); err != nil {
		return "", fmt.Errorf("removing old task file: %w", err)
	}

	for ci := range idx.Columns {
		for ti, tracked := range idx.Columns[ci].Tasks {
			if tracked == id {
				idx.Columns[ci].Tasks[ti] = newID
			}
		}
	}
	if err := p.SaveIndex(idx); err != nil {
		return "", err
	}

	p.journal("rename", id, newID)
	return newID, nil
}

// MoveTask moves a task to a column at the given position (-1 appends).
// Entering a column linked to a date field stamps that field.
func (p *Project) MoveTask(id, column string, position int) error {
	idx, err := p.LoadIndex()
	if err != nil {
		return err
	}
	current := idx.ColumnOf(id)
	if current == "" {
		return clierr.Newf(clierr.TaskNotFound, "task %q is not in the index", id).
			WithDetails(map[string]any{"id": id})
	}
	if idx.Column(column) == nil {
		return columnNotFound(column)
	}

	if column != current {
		t, err := p.LoadTask(id)
		if err != nil {
			return err
		}
		now := time.Now()
		t.Metadata.Updated = &now
		p.stampColumnEntry(idx, &t, column)
		if err := p.SaveTask(t); err != nil {
			return err
		}
	}

	idx.Track(id, column, position)
	if err := p.SaveIndex(idx); err != nil {
		return err
	}

	p.journal("move", id, current+" -> "+column)
	return nil
}

// DeleteTask removes a task from the index and, when removeFile is set,
// deletes its document as well.
func (p *Project) DeleteTask(id string, removeFile bool) error {
	idx, err := p.LoadIndex()
	if err != nil {
		return err
	}
	if idx.ColumnOf(id) == "" && !p.taskFileExists(id) {
		return clierr.Newf(clierr.TaskNotFound, "task %q not found", id).
			WithDetails(map[string]any{"id": id})
	}

	idx.Untrack(id)
	if err := p.SaveIndex(idx); err != nil {
		return err
	}

	if removeFile && p.taskFileExists(id) {
		if err := os.Remove(p.taskPath(id)); err != nil {
			return fmt.Errorf("removing task file: %w", err)
		}
	}

	p.journal("delete", id, "")
	return nil
}

// AddComment appends a comment to a task, stamping its date.
func (p *Project) AddComment(id, text, author string) error {
	if strings.TrimSpace(text) == "" {
		return clierr.New(clierr.DomainRule, "comment text cannot be empty")
	}

	t, err := p.LoadTask(id)
	if err != nil {
		return err
	}

	now := time.Now()
	t.Comments = append(t.Comments, task.Comment{Text: text, Author: author, Date: now})
	t.Metadata.Updated = &now

	if err := p.SaveTask(t); err != nil {
		return err
	}

	p.journal("comment", id, author)
	return nil
}

// ArchiveTask moves a task document into the archive directory and
// removes it from the index.
func (p *Project) ArchiveTask(id string) error {
	idx, err := p.LoadIndex()
	if err != nil {
		return err
	}
	if !p.taskFileExists(id) {
		return clierr.Newf(clierr.TaskNotFound, "task %q not found", id).
			WithDetails(map[string]any{"id": id})
	}
	if _, err := os.Stat(p.archivedPath(id)); err == nil {
		return clierr.Newf(clierr.Conflict, "an archived task %q already exists", id)
	}

	if err := os.MkdirAll(p.ArchivePath(), dirMode); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}
	if err := os.Rename(p.taskPath(id), p.archivedPath(id)); err != nil {
		return fmt.Errorf("archiving task: %w", err)
	}

	idx.Untrack(id)
	if err := p.SaveIndex(idx); err != nil {
		return err
	}

	p.journal("archive", id, "")
	return nil
}

// RestoreTask moves an archived task back into the tasks directory and
// tracks it in the given column, defaulting to the first column.
func (p *Project) RestoreTask(id, column string) error {
	idx, err := p.LoadIndex()
	if err != nil {
		return err
	}
	if _, err := os.Stat(p.archivedPath(id)); err != nil {
		return clierr.Newf(clierr.TaskNotFound, "no archived task %q", id).
			WithDetails(map[string]any{"id": id})
	}
	if p.taskFileExists(id) || idx.ColumnOf(id) != "" {
		return clierr.Newf(clierr.Conflict, "task %q already exists on the board", id)
	}

	if column == "" {
		if len(idx.Columns) == 0 {
			return clierr.New(clierr.DomainRule, "board has no columns")
		}
		column = idx.Columns[0].Name
	}
	if idx.Column(column) == nil {
		return columnNotFound(column)
	}

	if err := os.Rename(p.archivedPath(id), p.taskPath(id)); err != nil {
		return fmt.Errorf("restoring task: %w", err)
	}

	t, err := p.LoadTask(id)
	if err != nil {
		return err
	}
	now := time.Now()
	t.Metadata.Updated = &now
	if err := p.SaveTask(t); err != nil {
		return err
	}

	idx.Track(id, column, -1)
	if err := p.SaveIndex(idx); err != nil {
		return err
	}

	p.journal("restore", id, column)
	return nil
}

// stampColumnEntry applies column-linked date stamping when a task enters
// a column: startedColumns and completedColumns stamp their built-in
// fields once (never overwriting), and custom date fields linked via a
// "<name>Columns" option follow their declared once/always policy.
func (p *Project) stampColumnEntry(idx *index.Index, t *task.Task, column string) {
	now := time.Now()

	if containsStr(idx.Options.StartedColumns(), column) && t.Metadata.Started == nil {
		t.Metadata.Started = &now
	}
	if containsStr(idx.Options.CompletedColumns(), column) && t.Metadata.Completed == nil {
		t.Metadata.Completed = &now
	}

	for _, field := range idx.Options.CustomFields() {
		if field.Type != "date" || field.UpdateDate == index.UpdateNone || field.UpdateDate == "" {
			continue
		}
		if !containsStr(idx.Options.LinkedColumns(field.Name), column) {
			continue
		}
		if field.UpdateDate == index.UpdateOnce {
			if _, set := t.Metadata.Custom[field.Name]; set {
				continue
			}
		}
		if t.Metadata.Custom == nil {
			t.Metadata.Custom = map[string]any{}
		}
		t.Metadata.Custom[field.Name] = now
	}
}

// validateCustomFields enforces the declared type of every custom field
// value present on the task.
func (p *Project) validateCustomFields(idx *index.Index, t task.Task) error {
	var violations []string
	for _, field := range idx.Options.CustomFields() {
		raw, ok := t.Metadata.Custom[field.Name]
		if !ok {
			continue
		}
		if !customValueMatchesType(raw, field.Type) {
			violations = append(violations,
				fmt.Sprintf("%s: expected %s, got %T", field.Name, field.Type, raw))
		}
	}
	if len(violations) > 0 {
		return clierr.Newf(clierr.SchemaValidation, "custom fields failed validation:\n  %s",
			strings.Join(violations, "\n  ")).
			WithDetails(map[string]any{"violations": violations})
	}
	return nil
}

func customValueMatchesType(v any, fieldType string) bool {
	switch fieldType {
	case "boolean":
		_, ok := v.(bool)
		return ok
	case "number":
		switch v.(type) {
		case int, float64:
			return true
		}
		return false
	case "date":
		switch val := v.(type) {
		case time.Time:
			return true
		case string:
			_, err := date.Parse(val)
			return err == nil
		}
		return false
	default:
		_, ok := v.(string)
		return ok
	}
}

func columnNotFound(column string) error {
	return clierr.Newf(clierr.ColumnNotFound, "column %q not found", column).
		WithDetails(map[string]any{"column": column})
}

func containsStr(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
