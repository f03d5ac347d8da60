// Package task models a single work item document and its markdown codec.
package task

import (
	"time"
)

// Task represents a work item parsed from a markdown file. The task id is
// never stored in the document; it is derived from the name via Slug.
type Task struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Metadata    Metadata   `json:"metadata"`
	SubTasks    []SubTask  `json:"subTasks,omitempty"`
	Relations   []Relation `json:"relations,omitempty"`
	Comments    []Comment  `json:"comments,omitempty"`
}

// Metadata holds the typed metadata fields plus any custom fields declared
// in the board options.
type Metadata struct {
	Created   *time.Time     `json:"created,omitempty"`
	Updated   *time.Time     `json:"updated,omitempty"`
	Started   *time.Time     `json:"started,omitempty"`
	Completed *time.Time     `json:"completed,omitempty"`
	Due       *time.Time     `json:"due,omitempty"`
	Progress  *float64       `json:"progress,omitempty"`
	Assigned  string         `json:"assigned,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	Custom    map[string]any `json:"custom,omitempty"`
}

// SubTask is a single checklist entry.
type SubTask struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Relation links this task to another, optionally typed ("blocks",
// "duplicates", ...). An empty type is a plain reference.
type Relation struct {
	Task string `json:"task"`
	Type string `json:"type,omitempty"`
}

// Comment is a single comment entry with optional author and date.
type Comment struct {
	Text   string    `json:"text"`
	Author string    `json:"author,omitempty"`
	Date   time.Time `json:"date"`
}

// ID returns the task's derived identifier: the slug of its name. Used as
// the filename stem and the index column entry.
func (t Task) ID() string {
	return Slug(t.Name)
}

// IsZero reports whether no metadata field is set.
func (m Metadata) IsZero() bool {
	return m.Created == nil && m.Updated == nil && m.Started == nil &&
		m.Completed == nil && m.Due == nil && m.Progress == nil &&
		m.Assigned == "" && len(m.Tags) == 0 && len(m.Custom) == 0
}

// DateField returns the named built-in date field, or nil.
func (m Metadata) DateField(name string) *time.Time {
	switch name {
	case "created":
		return m.Created
	case "updated":
		return m.Updated
	case "started":
		return m.Started
	case "completed":
		return m.Completed
	case "due":
		return m.Due
	default:
		return nil
	}
}

// SetDateField sets the named built-in date field. Unknown names are ignored.
func (m *Metadata) SetDateField(name string, t time.Time) {
	switch name {
	case "created":
		m.Created = &t
	case "updated":
		m.Updated = &t
	case "started":
		m.Started = &t
	case "completed":
		m.Completed = &t
	case "due":
		m.Due = &t
	}
}
