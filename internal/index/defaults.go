package index

// Built-in fallbacks used when a board does not configure its own values.
const (
	// DefaultTaskWorkload is the workload for tasks with no workload tags.
	DefaultTaskWorkload = 2.0

	// DefaultTaskTemplate renders just the task name in a board cell.
	DefaultTaskTemplate = "${name}"

	// DefaultDateFormat is the display date format.
	DefaultDateFormat = "2006-01-02"
)

// DefaultTaskWorkloadTags maps the standard sizing tags to weights.
var DefaultTaskWorkloadTags = map[string]float64{
	"Nothing": 0,
	"Tiny":    1,
	"Small":   2,
	"Medium":  3,
	"Large":   5,
	"Huge":    8,
}
