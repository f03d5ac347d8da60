package board

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/date"
	"github.com/kanmd/kanmd/internal/index"
)

// Filter returns the tasks matching every active filter (AND logic). An
// empty filter set matches everything; adding a filter key can only
// narrow the result. Input order is preserved.
func Filter(idx *index.Index, tasks []Hydrated, filters index.Filters) ([]Hydrated, error) {
	if len(filters) == 0 {
		return tasks, nil
	}

	var result []Hydrated
	for _, h := range tasks {
		ok, err := matches(idx, h, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			result = append(result, h)
		}
	}
	return result, nil
}

func matches(idx *index.Index, h Hydrated, filters index.Filters) (bool, error) {
	for field, value := range filters {
		ok, err := matchesField(idx, h, field, value)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

//nolint:cyclop // flat dispatch over the filterable field set
func matchesField(idx *index.Index, h Hydrated, field string, value any) (bool, error) {
	switch field {
	case "id":
		return matchString(value, h.ID)
	case "name":
		return matchString(value, h.Name)
	case "description":
		return matchString(value, h.Description)
	case "column":
		return matchString(value, h.Column)
	case "assigned":
		return matchString(value, h.Metadata.Assigned)
	case "sub-task":
		return matchString(value, h.SubTasksText)
	case "tag":
		return matchString(value, h.TagsText)
	case "relation":
		return matchString(value, h.RelationsText)
	case "comment":
		return matchString(value, h.CommentsText)
	case "created", "updated", "started", "completed", "due":
		target := h.Metadata.DateField(field)
		if target == nil {
			return false, nil
		}
		return matchDate(value, *target)
	case "workload":
		return matchNumber(value, h.Workload)
	case "progress":
		return matchNumber(value, h.Progress)
	case "count-sub-tasks":
		return matchNumber(value, float64(h.CountSubTasks))
	case "count-tags":
		return matchNumber(value, float64(h.CountTags))
	case "count-relations":
		return matchNumber(value, float64(h.CountRelations))
	case "count-comments":
		return matchNumber(value, float64(h.CountComments))
	default:
		return matchesCustomField(idx, h, field, value)
	}
}

// matchesCustomField dispatches a declared custom field by its type.
// Filters naming undeclared fields impose no constraint.
func matchesCustomField(idx *index.Index, h Hydrated, field string, value any) (bool, error) {
	def := idx.Options.CustomField(field)
	if def == nil {
		return true, nil
	}

	raw, ok := h.Metadata.Custom[field]
	if !ok {
		return false, nil
	}

	switch def.Type {
	case "boolean":
		want, ok := value.(bool)
		got, gotOK := raw.(bool)
		return ok && gotOK && want == got, nil
	case "number":
		n, err := toFloat(raw)
		if err != nil {
			return false, nil
		}
		return matchNumber(value, n)
	case "date":
		t, err := toDate(raw)
		if err != nil {
			return false, nil
		}
		return matchDate(value, t)
	default:
		s, _ := raw.(string)
		return matchString(value, s)
	}
}

// matchString tests the target against the filter value(s) used as a
// case-insensitive regex. A value list is joined with "|". No anchoring is
// implied unless the caller writes ^/$.
func matchString(value any, target string) (bool, error) {
	parts := toStrings(value)
	if len(parts) == 0 {
		return true, nil
	}

	re, err := regexp.Compile("(?i)" + strings.Join(parts, "|"))
	if err != nil {
		return false, clierr.Newf(clierr.DomainRule, "invalid filter expression: %v", err)
	}
	return re.MatchString(target), nil
}

// matchDate applies calendar-day equality for a single filter date, and an
// inclusive min/max range for multiple dates.
func matchDate(value any, target time.Time) (bool, error) {
	dates, err := toDates(value)
	if err != nil {
		return false, err
	}
	switch len(dates) {
	case 0:
		return true, nil
	case 1:
		return date.SameDay(dates[0], target), nil
	default:
		return date.InRange(target, dates), nil
	}
}

// matchNumber applies an inclusive range over the min/max of the supplied
// numbers; a single number is its own min and max.
func matchNumber(value any, target float64) (bool, error) {
	nums, err := toFloats(value)
	if err != nil {
		return false, err
	}
	if len(nums) == 0 {
		return true, nil
	}
	minN, maxN := nums[0], nums[0]
	for _, n := range nums[1:] {
		if n < minN {
			minN = n
		}
		if n > maxN {
			maxN = n
		}
	}
	return target >= minN && target <= maxN, nil
}

func toStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func toFloats(value any) ([]float64, error) {
	var items []any
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []any:
		items = v
	case []float64:
		out := make([]float64, len(v))
		copy(out, v)
		return out, nil
	default:
		items = []any{v}
	}

	out := make([]float64, 0, len(items))
	for _, item := range items {
		n, err := toFloat(item)
		if err != nil {
			return nil, clierr.Newf(clierr.InvalidNumber, "invalid number filter value %v", item)
		}
		out = append(out, n)
	}
	return out, nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("not a number: %v", value)
	}
}

func toDates(value any) ([]time.Time, error) {
	var items []any
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []any:
		items = v
	case []time.Time:
		out := make([]time.Time, len(v))
		copy(out, v)
		return out, nil
	default:
		items = []any{v}
	}

	out := make([]time.Time, 0, len(items))
	for _, item := range items {
		t, err := toDate(item)
		if err != nil {
			return nil, clierr.Newf(clierr.InvalidDate, "invalid date filter value %v", item)
		}
		out = append(out, t)
	}
	return out, nil
}

func toDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		return date.Parse(v)
	default:
		return time.Time{}, fmt.Errorf("not a date: %v", value)
	}
}
