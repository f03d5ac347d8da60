// Package markdown parses the board's markdown dialect: optional YAML
// front-matter, heading-delimited sections, and list-based section bodies.
package markdown

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// RawKey is the synthetic section title for content appearing before the
// first heading.
const RawKey = "raw"

// Sentinel errors.
var (
	ErrEmptyInput    = errors.New("input is empty")
	ErrEmptyDocument = errors.New("document is empty")
)

var headingRe = regexp.MustCompile(`^(#{1,6}) (.*)$`)

// Section holds the heading level and the trimmed content of one section.
// The raw section has level 0.
type Section struct {
	Level   int
	Content string
}

// Document is an ordered collection of sections keyed by heading title.
// Duplicate heading titles overwrite the earlier section's content while
// keeping its original position. This mirrors the historical index/task
// format behavior and is relied on by existing boards.
type Document struct {
	titles   []string
	sections map[string]Section
}

// Titles returns section titles in document order.
func (d *Document) Titles() []string {
	return d.titles
}

// Get returns the section for a title.
func (d *Document) Get(title string) (Section, bool) {
	s, ok := d.sections[title]
	return s, ok
}

// Has reports whether a section with the given title exists.
func (d *Document) Has(title string) bool {
	_, ok := d.sections[title]
	return ok
}

// Delete removes a section and its position.
func (d *Document) Delete(title string) {
	if _, ok := d.sections[title]; !ok {
		return
	}
	delete(d.sections, title)
	for i, t := range d.titles {
		if t == title {
			d.titles = append(d.titles[:i], d.titles[i+1:]...)
			break
		}
	}
}

// Len returns the number of sections.
func (d *Document) Len() int {
	return len(d.titles)
}

func (d *Document) set(title string, s Section) {
	if _, ok := d.sections[title]; !ok {
		d.titles = append(d.titles, title)
	}
	d.sections[title] = s
}

// Sectionize splits markdown text into heading-titled sections. Content
// before the first heading is stored under RawKey with level 0. A heading
// with an empty title is a fatal parse error.
func Sectionize(text string) (*Document, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	doc := &Document{sections: make(map[string]Section)}

	title := RawKey
	level := 0
	var buf []string

	flush := func() {
		content := strings.TrimSpace(strings.Join(buf, "\n"))
		if title == RawKey && content == "" {
			return
		}
		doc.set(title, Section{Level: level, Content: content})
	}

	for _, line := range strings.Split(text, "\n") {
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			buf = append(buf, line)
			continue
		}
		next := strings.TrimSpace(m[2])
		if next == "" {
			return nil, fmt.Errorf("heading on line %q has no title", line)
		}
		flush()
		title = next
		level = len(m[1])
		buf = buf[:0]
	}
	flush()

	return doc, nil
}

// DuplicateTitles returns heading titles that occur more than once, in
// first-occurrence order. Sectionize silently keeps only the last content
// for a repeated title, so duplicates usually indicate a hand-editing
// mistake worth surfacing.
func DuplicateTitles(text string) []string {
	counts := make(map[string]int)
	var order []string
	for _, line := range strings.Split(text, "\n") {
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[2])
		if title == "" {
			continue
		}
		if counts[title] == 0 {
			order = append(order, title)
		}
		counts[title]++
	}
	var dups []string
	for _, title := range order {
		if counts[title] > 1 {
			dups = append(dups, title)
		}
	}
	return dups
}

// HeadingMarker returns the "#"-marker for a section level, e.g. "##" for 2.
func HeadingMarker(level int) string {
	return strings.Repeat("#", level)
}
