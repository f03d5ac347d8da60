package markdown

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// ErrNotAList is returned when section content expected to be a markdown
// list contains something else. Callers wrap it with a section-specific
// message.
var ErrNotAList = errors.New("content is not a list")

var (
	itemRe      = regexp.MustCompile(`^[-*] (.*)$`)
	checkboxRe  = regexp.MustCompile(`^\[([ xX])\]\s*(.*)$`)
	linkRe      = regexp.MustCompile(`^\[(.*)\]\((.*)\)$`)
	inlineCodeR = regexp.MustCompile("^`+|`+$")
)

// ChecklistItem is a single checkbox entry.
type ChecklistItem struct {
	Text      string
	Completed bool
}

// Link is a parsed markdown link.
type Link struct {
	Label  string
	Target string
}

// ParseList parses section content as a flat markdown list. Each returned
// string is the item text with continuation lines joined by newlines.
// Continuation lines are any indented lines following a list item; their
// indentation is stripped.
func ParseList(content string) ([]string, error) {
	var items []string
	current := -1

	for _, line := range strings.Split(content, "\n") {
		if m := itemRe.FindStringSubmatch(line); m != nil {
			items = append(items, strings.TrimSpace(m[1]))
			current = len(items) - 1
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if current < 0 || !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			return nil, ErrNotAList
		}
		items[current] += "\n" + strings.TrimSpace(line)
	}

	return items, nil
}

// ParseChecklist parses section content as a checkbox list.
func ParseChecklist(content string) ([]ChecklistItem, error) {
	items, err := ParseList(content)
	if err != nil {
		return nil, err
	}

	result := make([]ChecklistItem, 0, len(items))
	for _, item := range items {
		m := checkboxRe.FindStringSubmatch(item)
		if m == nil {
			return nil, fmt.Errorf("%w: item %q has no checkbox", ErrNotAList, item)
		}
		result = append(result, ChecklistItem{
			Text:      m[2],
			Completed: m[1] != " ",
		})
	}

	return result, nil
}

// ParseLink parses a markdown link of the form [label](target). Returns
// false when the text is not a link.
func ParseLink(text string) (Link, bool) {
	m := linkRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return Link{}, false
	}
	return Link{Label: m[1], Target: m[2]}, true
}

// LinkBasename returns the basename of a link target without the .md
// extension. For plain (non-link) text the text itself is treated as the
// target, so bare task ids in lists still resolve.
func LinkBasename(item string) string {
	target := strings.TrimSpace(item)
	if link, ok := ParseLink(item); ok {
		target = link.Target
	}
	target = inlineCodeR.ReplaceAllString(target, "")
	return strings.TrimSuffix(path.Base(target), ".md")
}
