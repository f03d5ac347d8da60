package index

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kanmd/kanmd/internal/markdown"
	"github.com/kanmd/kanmd/internal/schema"
	"go.yaml.in/yaml/v3"
)

const sectionOptions = "Options"

// ErrMissingName is returned when an index document has no name heading.
var ErrMissingName = errors.New("index document has no name heading")

// optionsSchemaJSON validates the known option keys; unknown keys are
// allowed so the bag stays open. Date-valued fields arrive as strings
// after the JSON round-trip.
const optionsSchemaJSON = `{
	"type": "object",
	"properties": {
		"hiddenColumns":    {"type": "array", "items": {"type": "string"}},
		"startedColumns":   {"type": "array", "items": {"type": "string"}},
		"completedColumns": {"type": "array", "items": {"type": "string"}},
		"sprints": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name":        {"type": "string"},
					"description": {"type": "string"},
					"start":       {"type": "string"}
				},
				"required": ["name", "start"]
			}
		},
		"defaultTaskWorkload": {"type": "number"},
		"taskWorkloadTags": {
			"type": "object",
			"additionalProperties": {"type": "number"}
		},
		"columnSorting": {
			"type": "object",
			"additionalProperties": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"field":  {"type": "string"},
						"filter": {"type": "string"},
						"order":  {"enum": ["ascending", "descending"]}
					},
					"required": ["field"]
				}
			}
		},
		"taskTemplate": {"type": "string"},
		"dateFormat":   {"type": "string"},
		"customFields": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name":       {"type": "string"},
					"type":       {"enum": ["boolean", "string", "number", "date"]},
					"updateDate": {"enum": ["always", "once", "none"]}
				},
				"required": ["name", "type"]
			}
		},
		"views": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name":    {"type": "string"},
					"filters": {"type": "object"},
					"columns": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"name":    {"type": "string"},
								"filters": {"type": "object"},
								"sorters": {"type": "array"}
							},
							"required": ["name"]
						}
					},
					"lanes": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"name":    {"type": "string"},
								"filters": {"type": "object"}
							},
							"required": ["name"]
						}
					}
				},
				"required": ["name", "columns"]
			}
		}
	}
}`

var optionsSchema = schema.MustCompile("index-options.json", optionsSchemaJSON)

// Decode parses an index document. Options can live in front-matter, in an
// embedded "## Options" section, or both; the embedded section is assigned
// into the accumulated bag last and therefore wins on key collisions.
// This merge order is a compatibility constraint, not a choice to revisit.
func Decode(text string) (Index, error) {
	options, body, err := markdown.ExtractFrontMatter(text)
	if err != nil {
		return Index{}, err
	}

	doc, err := markdown.Sectionize(body)
	if err != nil {
		return Index{}, err
	}

	var idx Index
	for _, title := range doc.Titles() {
		if title != markdown.RawKey {
			idx.Name = title
			break
		}
	}
	if idx.Name == "" {
		return Index{}, ErrMissingName
	}

	if sec, ok := doc.Get(idx.Name); ok {
		idx.Description = sec.Content
	}

	if sec, ok := doc.Get(sectionOptions); ok {
		embedded := map[string]any{}
		if err := yaml.Unmarshal([]byte(markdown.StripFences(sec.Content)), &embedded); err != nil {
			return Index{}, fmt.Errorf("parsing options section: %w", err)
		}
		for k, v := range embedded {
			options[k] = v
		}
	}

	if err := schema.Validate(optionsSchema, "index options", options); err != nil {
		return Index{}, err
	}
	idx.Options = options

	for _, title := range doc.Titles() {
		if title == markdown.RawKey || title == idx.Name || title == sectionOptions {
			continue
		}
		sec, _ := doc.Get(title)
		column := Column{Name: title}
		if sec.Content != "" {
			items, err := markdown.ParseList(sec.Content)
			if err != nil {
				return Index{}, fmt.Errorf("column %q must contain a list", title)
			}
			for _, item := range items {
				column.Tasks = append(column.Tasks, markdown.LinkBasename(item))
			}
		}
		idx.Columns = append(idx.Columns, column)
	}

	return idx, nil
}

// EncodeOptions controls index serialization.
type EncodeOptions struct {
	// IgnoreOptions omits the front-matter options block.
	IgnoreOptions bool
}

// Encode serializes an index to markdown: front-matter options (unless
// ignored), the name heading, the description, then one section per
// column listing its tracked tasks.
func Encode(idx Index, opts EncodeOptions) (string, error) {
	if strings.TrimSpace(idx.Name) == "" {
		return "", ErrMissingName
	}
	if err := schema.Validate(optionsSchema, "index options", idx.Options); err != nil {
		return "", err
	}

	var blocks []string

	if len(idx.Options) > 0 && !opts.IgnoreOptions {
		fm, err := yaml.Marshal(map[string]any(idx.Options))
		if err != nil {
			return "", fmt.Errorf("marshaling options: %w", err)
		}
		blocks = append(blocks, "---\n"+strings.TrimRight(string(fm), "\n")+"\n---")
	}

	blocks = append(blocks, "# "+idx.Name)

	if desc := strings.TrimSpace(idx.Description); desc != "" {
		blocks = append(blocks, desc)
	}

	for _, col := range idx.Columns {
		block := "## " + col.Name
		if len(col.Tasks) > 0 {
			lines := make([]string, 0, len(col.Tasks))
			for _, id := range col.Tasks {
				lines = append(lines, fmt.Sprintf("- [%s](tasks/%s.md)", id, id))
			}
			block += "\n\n" + strings.Join(lines, "\n")
		}
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n\n") + "\n", nil
}
