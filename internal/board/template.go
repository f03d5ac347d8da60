package board

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var placeholderRe = regexp.MustCompile(`\$\{([a-zA-Z-]+)\}`)

// Template substitutes ${field} placeholders in a board cell template with
// the task's hydrated field values. Only the enumerated field names below
// are recognized; unknown placeholders render empty. Template strings are
// plain data and are never evaluated as code.
func Template(h Hydrated, tmpl, dateFormat string) string {
	return placeholderRe.ReplaceAllStringFunc(tmpl, func(match string) string {
		field := placeholderRe.FindStringSubmatch(match)[1]
		return templateField(h, field, dateFormat)
	})
}

//nolint:cyclop // flat dispatch over the placeholder set
func templateField(h Hydrated, field, dateFormat string) string {
	switch field {
	case "id":
		return h.ID
	case "name":
		return h.Name
	case "column":
		return h.Column
	case "assigned":
		return h.Metadata.Assigned
	case "workload":
		return strconv.FormatFloat(h.Workload, 'f', -1, 64)
	case "remainingWorkload":
		return strconv.Itoa(h.RemainingWorkload)
	case "progress":
		return strconv.FormatFloat(h.Progress, 'f', -1, 64)
	case "created", "updated", "started", "completed", "due":
		return formatDate(h.Metadata.DateField(field), dateFormat)
	case "dueMessage":
		if h.Due == nil {
			return ""
		}
		return h.Due.Message
	case "countSubTasks":
		return strconv.Itoa(h.CountSubTasks)
	case "countTags":
		return strconv.Itoa(h.CountTags)
	case "countRelations":
		return strconv.Itoa(h.CountRelations)
	case "countComments":
		return strconv.Itoa(h.CountComments)
	default:
		if v, ok := h.Metadata.Custom[field]; ok {
			return fmt.Sprint(v)
		}
		return ""
	}
}

func formatDate(t *time.Time, format string) string {
	if t == nil {
		return ""
	}
	return t.Format(format)
}
