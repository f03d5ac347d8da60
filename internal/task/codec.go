package task

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/date"
	"github.com/kanmd/kanmd/internal/markdown"
	"github.com/kanmd/kanmd/internal/schema"
	"go.yaml.in/yaml/v3"
)

// Reserved section titles in a task document.
const (
	sectionMetadata  = "Metadata"
	sectionSubTasks  = "Sub-tasks"
	sectionRelations = "Relations"
	sectionComments  = "Comments"
)

// ErrMissingName is returned when a task document has no name heading.
var ErrMissingName = errors.New("task document has no name heading")

var dateFields = []string{"created", "updated", "started", "completed", "due"}

// commentDateFormat is the ISO-8601 form used when writing comment dates.
const commentDateFormat = "2006-01-02T15:04:05.000Z07:00"

// metadataSchema validates the shape of merged task metadata before field
// coercion. Date fields arrive as strings (YAML timestamps are stringified
// by the JSON round-trip); progress may be a number or a numeric string.
// Custom fields pass through unchecked here and are enforced against the
// board's declared custom field types by the orchestration layer.
const metadataSchemaJSON = `{
	"type": "object",
	"properties": {
		"created":   {"type": "string"},
		"updated":   {"type": "string"},
		"started":   {"type": "string"},
		"completed": {"type": "string"},
		"due":       {"type": "string"},
		"progress":  {"type": ["number", "string"]},
		"assigned":  {"type": "string"},
		"tags":      {"type": "array", "items": {"type": "string"}}
	}
}`

var metadataSchema = schema.MustCompile("task-metadata.json", metadataSchemaJSON)

// Decode parses a task document. Metadata can live in front-matter, in a
// "## Metadata" section (which wins on key collisions), or both.
func Decode(text string) (Task, error) {
	attributes, body, err := markdown.ExtractFrontMatter(text)
	if err != nil {
		return Task{}, err
	}

	doc, err := markdown.Sectionize(body)
	if err != nil {
		return Task{}, err
	}

	var t Task
	if t.Name = firstHeading(doc); t.Name == "" {
		return Task{}, ErrMissingName
	}

	if sec, ok := doc.Get(sectionMetadata); ok {
		embedded := map[string]any{}
		if err := yaml.Unmarshal([]byte(markdown.StripFences(sec.Content)), &embedded); err != nil {
			return Task{}, fmt.Errorf("parsing metadata section: %w", err)
		}
		for k, v := range embedded {
			attributes[k] = v
		}
		doc.Delete(sectionMetadata)
	}

	if t.Metadata, err = metadataFromMap(attributes); err != nil {
		return Task{}, err
	}

	if sec, ok := doc.Get(sectionSubTasks); ok {
		items, err := markdown.ParseChecklist(sec.Content)
		if err != nil {
			return Task{}, fmt.Errorf("sub-tasks must contain a list: %w", err)
		}
		for _, item := range items {
			t.SubTasks = append(t.SubTasks, SubTask(item))
		}
		doc.Delete(sectionSubTasks)
	}

	if sec, ok := doc.Get(sectionRelations); ok {
		if t.Relations, err = parseRelations(sec.Content); err != nil {
			return Task{}, err
		}
		doc.Delete(sectionRelations)
	}

	if sec, ok := doc.Get(sectionComments); ok {
		if t.Comments, err = parseComments(sec.Content); err != nil {
			return Task{}, err
		}
		doc.Delete(sectionComments)
	}

	t.Description = assembleDescription(doc, t.Name)

	return t, nil
}

// Encode serializes a task to markdown. Section order is fixed:
// front-matter, name, description, sub-tasks, relations, comments.
func Encode(t Task) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", ErrMissingName
	}

	var blocks []string

	if !t.Metadata.IsZero() {
		fm, err := yaml.Marshal(metadataDoc(t.Metadata))
		if err != nil {
			return "", fmt.Errorf("marshaling metadata: %w", err)
		}
		blocks = append(blocks, "---\n"+strings.TrimRight(string(fm), "\n")+"\n---")
	}

	blocks = append(blocks, "# "+t.Name)

	if t.Description != "" {
		blocks = append(blocks, strings.TrimSpace(t.Description))
	}

	if len(t.SubTasks) > 0 {
		lines := make([]string, 0, len(t.SubTasks))
		for _, st := range t.SubTasks {
			box := " "
			if st.Completed {
				box = "x"
			}
			lines = append(lines, fmt.Sprintf("- [%s] %s", box, st.Text))
		}
		blocks = append(blocks, "## "+sectionSubTasks+"\n\n"+strings.Join(lines, "\n"))
	}

	if len(t.Relations) > 0 {
		lines := make([]string, 0, len(t.Relations))
		for _, r := range t.Relations {
			label := r.Task
			if r.Type != "" {
				label = r.Type + " " + r.Task
			}
			lines = append(lines, fmt.Sprintf("- [%s](%s.md)", label, r.Task))
		}
		blocks = append(blocks, "## "+sectionRelations+"\n\n"+strings.Join(lines, "\n"))
	}

	if len(t.Comments) > 0 {
		lines := make([]string, 0, len(t.Comments))
		for _, c := range t.Comments {
			lines = append(lines, encodeComment(c))
		}
		blocks = append(blocks, "## "+sectionComments+"\n\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(blocks, "\n\n") + "\n", nil
}

// firstHeading returns the first real section title, skipping the
// synthetic raw section.
func firstHeading(doc *markdown.Document) string {
	for _, title := range doc.Titles() {
		if title != markdown.RawKey {
			return title
		}
	}
	return ""
}

// assembleDescription rebuilds the free-form description from the raw
// content and all non-reserved sections in encounter order. Top-level
// headings are suppressed (the name heading is re-emitted by Encode);
// deeper headings are kept so sub-structure survives a round trip.
func assembleDescription(doc *markdown.Document, name string) string {
	var parts []string
	for _, title := range doc.Titles() {
		sec, _ := doc.Get(title)
		switch {
		case title == markdown.RawKey, sec.Level == 1, title == name:
			if sec.Content != "" {
				parts = append(parts, sec.Content)
			}
		default:
			part := markdown.HeadingMarker(sec.Level) + " " + title
			if sec.Content != "" {
				part += "\n\n" + sec.Content
			}
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n\n")
}

func parseRelations(content string) ([]Relation, error) {
	items, err := markdown.ParseList(content)
	if err != nil {
		return nil, fmt.Errorf("relations must contain a list: %w", err)
	}

	relations := make([]Relation, 0, len(items))
	for _, item := range items {
		text := item
		if link, ok := markdown.ParseLink(item); ok {
			text = link.Label
		}
		tokens := strings.Fields(text)
		if len(tokens) == 0 {
			continue
		}
		relations = append(relations, Relation{
			Task: tokens[len(tokens)-1],
			Type: strings.Join(tokens[:len(tokens)-1], " "),
		})
	}

	return relations, nil
}

// parseComments reads each list item as a comment: "author:" and "date:"
// prefixed lines populate those fields, all other lines form the text.
func parseComments(content string) ([]Comment, error) {
	items, err := markdown.ParseList(content)
	if err != nil {
		return nil, fmt.Errorf("comments must contain a list: %w", err)
	}

	comments := make([]Comment, 0, len(items))
	for _, item := range items {
		var c Comment
		var textLines []string
		for _, line := range strings.Split(item, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case strings.HasPrefix(trimmed, "author:"):
				c.Author = strings.TrimSpace(strings.TrimPrefix(trimmed, "author:"))
			case strings.HasPrefix(trimmed, "date:"):
				parsed, err := date.Parse(strings.TrimSpace(strings.TrimPrefix(trimmed, "date:")))
				if err != nil {
					return nil, clierr.Newf(clierr.InvalidDate, "unable to parse comment date")
				}
				c.Date = parsed
			default:
				if trimmed != "" {
					textLines = append(textLines, trimmed)
				}
			}
		}
		c.Text = strings.Join(textLines, "\n")
		comments = append(comments, c)
	}

	return comments, nil
}

func encodeComment(c Comment) string {
	var lines []string
	if c.Author != "" {
		lines = append(lines, "author: "+c.Author)
	}
	if !c.Date.IsZero() {
		lines = append(lines, "date: "+c.Date.UTC().Format(commentDateFormat))
	}
	lines = append(lines, strings.Split(c.Text, "\n")...)

	// First line carries the list marker, continuations are indented.
	return "- " + strings.Join(lines, "\n  ")
}

// metadataFromMap validates the merged metadata bag and coerces typed
// fields. Unknown keys are preserved in Custom.
func metadataFromMap(raw map[string]any) (Metadata, error) {
	if err := schema.Validate(metadataSchema, "task metadata", raw); err != nil {
		return Metadata{}, err
	}

	var m Metadata
	for _, field := range dateFields {
		v, ok := raw[field]
		if !ok {
			continue
		}
		parsed, err := coerceDate(v)
		if err != nil {
			return Metadata{}, clierr.Newf(clierr.InvalidDate, "unable to parse %s date", field)
		}
		m.SetDateField(field, parsed)
	}

	if v, ok := raw["progress"]; ok {
		p, err := coerceFloat(v)
		if err != nil {
			return Metadata{}, clierr.New(clierr.InvalidNumber, "unable to parse progress")
		}
		m.Progress = &p
	}

	if v, ok := raw["assigned"]; ok {
		m.Assigned, _ = v.(string)
	}

	if v, ok := raw["tags"]; ok {
		list, _ := v.([]any)
		for _, item := range list {
			if s, ok := item.(string); ok {
				m.Tags = append(m.Tags, s)
			}
		}
	}

	for k, v := range raw {
		if isReservedMetadataKey(k) {
			continue
		}
		if m.Custom == nil {
			m.Custom = map[string]any{}
		}
		m.Custom[k] = v
	}

	return m, nil
}

func isReservedMetadataKey(k string) bool {
	switch k {
	case "progress", "assigned", "tags":
		return true
	}
	for _, f := range dateFields {
		if k == f {
			return true
		}
	}
	return false
}

func coerceDate(v any) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val, nil
	case string:
		return date.Parse(val)
	default:
		return time.Time{}, fmt.Errorf("unexpected date value %v", v)
	}
}

func coerceFloat(v any) (float64, error) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case int:
		f = float64(val)
	case string:
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, err
		}
		f = parsed
	default:
		return 0, fmt.Errorf("unexpected number value %v", v)
	}
	// ParseFloat accepts "NaN" and "Inf", and YAML resolves .nan and .inf
	// to the corresponding floats. None of them is a usable progress value.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite number value %v", v)
	}
	return f, nil
}

// metadataDoc fixes the key order of serialized metadata.
type yamlMetadata struct {
	Created   *time.Time     `yaml:"created,omitempty"`
	Updated   *time.Time     `yaml:"updated,omitempty"`
	Started   *time.Time     `yaml:"started,omitempty"`
	Completed *time.Time     `yaml:"completed,omitempty"`
	Due       *time.Time     `yaml:"due,omitempty"`
	Progress  *float64       `yaml:"progress,omitempty"`
	Assigned  string         `yaml:"assigned,omitempty"`
	Tags      []string       `yaml:"tags,omitempty"`
	Custom    map[string]any `yaml:",inline"`
}

func metadataDoc(m Metadata) yamlMetadata {
	return yamlMetadata{
		Created:   m.Created,
		Updated:   m.Updated,
		Started:   m.Started,
		Completed: m.Completed,
		Due:       m.Due,
		Progress:  m.Progress,
		Assigned:  m.Assigned,
		Tags:      m.Tags,
		Custom:    m.Custom,
	}
}
