// Package index models the board's root document: name, description,
// validated options, and the ordered column → task-id lists.
package index

import (
	"time"

	"go.yaml.in/yaml/v3"
)

// Index is the board's root document.
type Index struct {
	Name        string
	Description string
	Options     Options
	Columns     []Column
}

// Column is an ordered list of task ids under a named board column.
type Column struct {
	Name  string
	Tasks []string
}

// Options is the open, schema-validated option bag from the index
// front-matter and/or the embedded Options section. Unknown keys are
// preserved so a load/save cycle never drops user content.
type Options map[string]any

// Sorter is a single sort rule: sort by Field, optionally transforming
// compared values through the Filter regex first.
type Sorter struct {
	Field  string `yaml:"field" json:"field"`
	Filter string `yaml:"filter,omitempty" json:"filter,omitempty"`
	Order  string `yaml:"order,omitempty" json:"order,omitempty"`
}

// Sort orders.
const (
	Ascending  = "ascending"
	Descending = "descending"
)

// Filters maps a field name to a scalar or list filter value. Semantics
// depend on the field's type; an empty set matches everything.
type Filters map[string]any

// Sprint is a named period used by status and burndown reporting.
type Sprint struct {
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Start       time.Time `yaml:"start" json:"start"`
}

// CustomField declares a user-defined metadata field with an enforced type
// and an optional column-linked date-stamping policy.
type CustomField struct {
	Name       string `yaml:"name" json:"name"`
	Type       string `yaml:"type" json:"type"`
	UpdateDate string `yaml:"updateDate,omitempty" json:"updateDate,omitempty"`
}

// Custom field update policies.
const (
	UpdateAlways = "always"
	UpdateOnce   = "once"
	UpdateNone   = "none"
)

// View is a saved board preset: filters plus column/lane arrangements.
type View struct {
	Name    string       `yaml:"name" json:"name"`
	Filters Filters      `yaml:"filters,omitempty" json:"filters,omitempty"`
	Columns []ViewColumn `yaml:"columns" json:"columns"`
	Lanes   []ViewLane   `yaml:"lanes,omitempty" json:"lanes,omitempty"`
}

// ViewColumn is one column of a view.
type ViewColumn struct {
	Name    string   `yaml:"name" json:"name"`
	Filters Filters  `yaml:"filters,omitempty" json:"filters,omitempty"`
	Sorters []Sorter `yaml:"sorters,omitempty" json:"sorters,omitempty"`
}

// ViewLane is one horizontal lane of a view.
type ViewLane struct {
	Name    string  `yaml:"name" json:"name"`
	Filters Filters `yaml:"filters,omitempty" json:"filters,omitempty"`
}

// Column returns the named column, or nil.
func (i *Index) Column(name string) *Column {
	for idx := range i.Columns {
		if i.Columns[idx].Name == name {
			return &i.Columns[idx]
		}
	}
	return nil
}

// ColumnNames returns column names in board order.
func (i *Index) ColumnNames() []string {
	names := make([]string, len(i.Columns))
	for idx, c := range i.Columns {
		names[idx] = c.Name
	}
	return names
}

// ColumnOf returns the name of the column tracking the given task id, or
// an empty string if the task is untracked.
func (i *Index) ColumnOf(taskID string) string {
	for _, c := range i.Columns {
		for _, id := range c.Tasks {
			if id == taskID {
				return c.Name
			}
		}
	}
	return ""
}

// TrackedIDs returns every task id tracked by any column, in board order.
// Duplicates are preserved; Validate flags them.
func (i *Index) TrackedIDs() []string {
	var ids []string
	for _, c := range i.Columns {
		ids = append(ids, c.Tasks...)
	}
	return ids
}

// Track adds a task id to a column at the given position (-1 appends).
// The id is removed from any other column first: a task lives in exactly
// one column at a time.
func (i *Index) Track(taskID, column string, position int) {
	i.Untrack(taskID)
	col := i.Column(column)
	if col == nil {
		return
	}
	if position < 0 || position >= len(col.Tasks) {
		col.Tasks = append(col.Tasks, taskID)
		return
	}
	col.Tasks = append(col.Tasks[:position], append([]string{taskID}, col.Tasks[position:]...)...)
}

// Untrack removes a task id from every column.
func (i *Index) Untrack(taskID string) {
	for idx := range i.Columns {
		tasks := i.Columns[idx].Tasks
		for j := 0; j < len(tasks); j++ {
			if tasks[j] == taskID {
				tasks = append(tasks[:j], tasks[j+1:]...)
				j--
			}
		}
		i.Columns[idx].Tasks = tasks
	}
}

// decodeOption re-decodes a raw option value into a typed destination via
// a YAML round-trip, so nested maps from front-matter parse the same way
// a typed document field would.
func decodeOption(v any, dst any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, dst)
}

func (o Options) stringList(key string) []string {
	v, ok := o[key]
	if !ok {
		return nil
	}
	var list []string
	if err := decodeOption(v, &list); err != nil {
		return nil
	}
	return list
}

// HiddenColumns returns columns excluded from board rendering.
func (o Options) HiddenColumns() []string { return o.stringList("hiddenColumns") }

// StartedColumns returns columns that stamp the started date on entry.
func (o Options) StartedColumns() []string { return o.stringList("startedColumns") }

// CompletedColumns returns columns that stamp the completed date on entry
// and mark their tasks complete.
func (o Options) CompletedColumns() []string { return o.stringList("completedColumns") }

// LinkedColumns returns the columns linked to a custom date field via its
// "<name>Columns" option, mirroring startedColumns/completedColumns.
func (o Options) LinkedColumns(fieldName string) []string {
	return o.stringList(fieldName + "Columns")
}

// Sprints returns the configured sprint list.
func (o Options) Sprints() []Sprint {
	v, ok := o["sprints"]
	if !ok {
		return nil
	}
	var sprints []Sprint
	if err := decodeOption(v, &sprints); err != nil {
		return nil
	}
	return sprints
}

// DefaultTaskWorkload returns the workload assigned to tasks with no
// recognized workload tags.
func (o Options) DefaultTaskWorkload() float64 {
	v, ok := o["defaultTaskWorkload"]
	if !ok {
		return DefaultTaskWorkload
	}
	var w float64
	if err := decodeOption(v, &w); err != nil {
		return DefaultTaskWorkload
	}
	return w
}

// TaskWorkloadTags returns the tag → workload weight map.
func (o Options) TaskWorkloadTags() map[string]float64 {
	v, ok := o["taskWorkloadTags"]
	if !ok {
		return DefaultTaskWorkloadTags
	}
	tags := map[string]float64{}
	if err := decodeOption(v, &tags); err != nil {
		return DefaultTaskWorkloadTags
	}
	return tags
}

// ColumnSorting returns the saved per-column sort rules.
func (o Options) ColumnSorting() map[string][]Sorter {
	v, ok := o["columnSorting"]
	if !ok {
		return nil
	}
	sorting := map[string][]Sorter{}
	if err := decodeOption(v, &sorting); err != nil {
		return nil
	}
	return sorting
}

// SetColumnSorting saves sort rules for a column into the option bag.
func (o Options) SetColumnSorting(column string, sorters []Sorter) {
	sorting := map[string]any{}
	if v, ok := o["columnSorting"]; ok {
		_ = decodeOption(v, &sorting)
	}
	plain := make([]map[string]any, 0, len(sorters))
	for _, s := range sorters {
		entry := map[string]any{"field": s.Field}
		if s.Filter != "" {
			entry["filter"] = s.Filter
		}
		if s.Order != "" {
			entry["order"] = s.Order
		}
		plain = append(plain, entry)
	}
	sorting[column] = plain
	o["columnSorting"] = sorting
}

// SetSprints replaces the sprint list in the option bag.
func (o Options) SetSprints(sprints []Sprint) {
	plain := make([]map[string]any, 0, len(sprints))
	for _, s := range sprints {
		entry := map[string]any{"name": s.Name, "start": s.Start}
		if s.Description != "" {
			entry["description"] = s.Description
		}
		plain = append(plain, entry)
	}
	o["sprints"] = plain
}

// TaskTemplate returns the board cell template.
func (o Options) TaskTemplate() string {
	if v, ok := o["taskTemplate"].(string); ok && v != "" {
		return v
	}
	return DefaultTaskTemplate
}

// DateFormat returns the display date format.
func (o Options) DateFormat() string {
	if v, ok := o["dateFormat"].(string); ok && v != "" {
		return v
	}
	return DefaultDateFormat
}

// CustomFields returns the declared custom field definitions.
func (o Options) CustomFields() []CustomField {
	v, ok := o["customFields"]
	if !ok {
		return nil
	}
	var fields []CustomField
	if err := decodeOption(v, &fields); err != nil {
		return nil
	}
	return fields
}

// CustomField returns the declaration for a named custom field, or nil.
func (o Options) CustomField(name string) *CustomField {
	for _, f := range o.CustomFields() {
		if f.Name == name {
			field := f
			return &field
		}
	}
	return nil
}

// Views returns the saved view presets.
func (o Options) Views() []View {
	v, ok := o["views"]
	if !ok {
		return nil
	}
	var views []View
	if err := decodeOption(v, &views); err != nil {
		return nil
	}
	return views
}
