package markdown

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

const fenceDelim = "---"

// ExtractFrontMatter splits a leading YAML front-matter block from text.
// If no block is present the whole text is returned as the body with an
// empty attribute map. A block that parses to anything other than a YAML
// mapping is an error.
func ExtractFrontMatter(text string) (map[string]any, string, error) {
	if !strings.HasPrefix(text, fenceDelim+"\n") {
		return map[string]any{}, text, nil
	}

	rest := text[len(fenceDelim)+1:]

	// An empty block closes on the very next line, leaving no content for
	// the newline-prefixed fence search below to find.
	if rest == fenceDelim {
		return map[string]any{}, "", nil
	}
	if strings.HasPrefix(rest, fenceDelim+"\n") {
		return map[string]any{}, strings.TrimLeft(rest[len(fenceDelim)+1:], "\n"), nil
	}

	idx := strings.Index(rest, "\n"+fenceDelim+"\n")
	end := idx + len("\n"+fenceDelim+"\n")
	if idx < 0 {
		if !strings.HasSuffix(rest, "\n"+fenceDelim) {
			return nil, "", fmt.Errorf("unclosed front matter (missing closing %s)", fenceDelim)
		}
		idx = len(rest) - len("\n"+fenceDelim)
		end = len(rest)
	}

	attributes := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &attributes); err != nil {
		return nil, "", fmt.Errorf("parsing front matter: %w", err)
	}

	body := ""
	if end < len(rest) {
		body = strings.TrimLeft(rest[end:], "\n")
	}

	return attributes, body, nil
}

// StripFences removes an optional fenced-code wrapper (``` or ```yaml)
// around section content, so embedded YAML blocks can be written fenced
// or bare.
func StripFences(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) < 2 { //nolint:mnd // opening and closing fence
		return content
	}
	first := strings.TrimSpace(lines[0])
	last := strings.TrimSpace(lines[len(lines)-1])
	if strings.HasPrefix(first, "```") && last == "```" {
		return strings.Join(lines[1:len(lines)-1], "\n")
	}
	return content
}
