package board

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/index"
)

// collator performs locale-aware case-insensitive string comparison.
var collator = collate.New(language.Und, collate.IgnoreCase)

// Sort returns a stably sorted copy of tasks, walking the sorter list for
// each pair until one rule breaks the tie. Tasks equal under all sorters
// keep their relative input order; no sorters means the input order is
// returned unchanged.
func Sort(tasks []Hydrated, sorters []index.Sorter) ([]Hydrated, error) {
	sorted := make([]Hydrated, len(tasks))
	copy(sorted, tasks)
	if len(sorters) == 0 {
		return sorted, nil
	}

	regexes := make([]*regexp.Regexp, len(sorters))
	for i, s := range sorters {
		if s.Filter == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + s.Filter)
		if err != nil {
			return nil, clierr.Newf(clierr.DomainRule, "invalid sorter filter %q: %v", s.Filter, err)
		}
		regexes[i] = re
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return compare(sorted[i], sorted[j], sorters, regexes) < 0
	})

	return sorted, nil
}

func compare(a, b Hydrated, sorters []index.Sorter, regexes []*regexp.Regexp) int {
	for i, s := range sorters {
		av := fieldValue(a, s.Field)
		bv := fieldValue(b, s.Field)

		var cmp int
		switch {
		case regexes[i] != nil:
			cmp = collator.CompareString(extract(regexes[i], av.str), extract(regexes[i], bv.str))
		case av.numeric && bv.numeric:
			cmp = compareFloats(av.num, bv.num)
		default:
			cmp = collator.CompareString(av.str, bv.str)
		}

		if s.Order == index.Descending {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp
		}
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// extract transforms a compared value through the sorter's regex: named
// capture groups are concatenated; otherwise the first capturing group is
// used, falling back to the whole match. All matches contribute.
func extract(re *regexp.Regexp, s string) string {
	matches := re.FindAllStringSubmatch(s, -1)
	if matches == nil {
		return s
	}

	named := false
	for _, name := range re.SubexpNames()[1:] {
		if name != "" {
			named = true
			break
		}
	}

	var out strings.Builder
	for _, m := range matches {
		switch {
		case named:
			for gi, name := range re.SubexpNames() {
				if name != "" && gi < len(m) {
					out.WriteString(m[gi])
				}
			}
		case len(m) > 1:
			out.WriteString(m[1])
		default:
			out.WriteString(m[0])
		}
	}
	return out.String()
}

// sortValue is a field value prepared for comparison. Numeric fields carry
// both forms; missing values coerce to zero/empty.
type sortValue struct {
	str     string
	num     float64
	numeric bool
}

func numValue(n float64) sortValue {
	return sortValue{str: strconv.FormatFloat(n, 'f', -1, 64), num: n, numeric: true}
}

func strValue(s string) sortValue {
	return sortValue{str: s}
}

//nolint:cyclop // flat dispatch over the sortable field set
func fieldValue(h Hydrated, field string) sortValue {
	switch field {
	case "id":
		return strValue(h.ID)
	case "name":
		return strValue(h.Name)
	case "description":
		return strValue(h.Description)
	case "column":
		return strValue(h.Column)
	case "assigned":
		return strValue(h.Metadata.Assigned)
	case "sub-task":
		return strValue(h.SubTasksText)
	case "tag":
		return strValue(h.TagsText)
	case "relation":
		return strValue(h.RelationsText)
	case "comment":
		return strValue(h.CommentsText)
	case "created", "updated", "started", "completed", "due":
		if t := h.Metadata.DateField(field); t != nil {
			return numValue(float64(t.UnixMilli()))
		}
		return numValue(0)
	case "workload":
		return numValue(h.Workload)
	case "progress":
		return numValue(h.Progress)
	case "count-sub-tasks":
		return numValue(float64(h.CountSubTasks))
	case "count-tags":
		return numValue(float64(h.CountTags))
	case "count-relations":
		return numValue(float64(h.CountRelations))
	case "count-comments":
		return numValue(float64(h.CountComments))
	default:
		return customValue(h, field)
	}
}

func customValue(h Hydrated, field string) sortValue {
	raw, ok := h.Metadata.Custom[field]
	if !ok {
		return strValue("")
	}
	if t, err := toDate(raw); err == nil {
		if _, isStr := raw.(string); !isStr {
			return numValue(float64(t.UnixMilli()))
		}
	}
	if n, err := toFloat(raw); err == nil {
		return numValue(n)
	}
	switch v := raw.(type) {
	case string:
		return strValue(v)
	case bool:
		if v {
			return numValue(1)
		}
		return numValue(0)
	default:
		return strValue(fmt.Sprint(raw))
	}
}
