// Package board implements the query and derivation engine: hydration of
// derived task fields, filtering, and multi-key sorting.
package board

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kanmd/kanmd/internal/date"
	"github.com/kanmd/kanmd/internal/index"
	"github.com/kanmd/kanmd/internal/task"
)

// DueData describes a task's standing against its due date.
type DueData struct {
	Due       time.Time     `json:"due"`
	Completed bool          `json:"completed"`
	Delta     time.Duration `json:"delta"`
	Overdue   bool          `json:"overdue"`
	Message   string        `json:"message"`
}

// Hydrated is a task augmented with derived, never-persisted fields plus
// the flattened string views and counts the filter/sort engine reads.
type Hydrated struct {
	task.Task

	ID                string   `json:"id"`
	Column            string   `json:"column"`
	Workload          float64  `json:"workload"`
	Progress          float64  `json:"progress"`
	Completed         bool     `json:"completed"`
	RemainingWorkload int      `json:"remainingWorkload"`
	Due               *DueData `json:"due,omitempty"`

	SubTasksText  string `json:"-"`
	TagsText      string `json:"-"`
	RelationsText string `json:"-"`
	CommentsText  string `json:"-"`

	CountSubTasks  int `json:"-"`
	CountTags      int `json:"-"`
	CountRelations int `json:"-"`
	CountComments  int `json:"-"`
}

// Hydrate computes every derived field for a task against its index.
// The input task is not modified.
func Hydrate(idx *index.Index, t task.Task) Hydrated {
	h := Hydrated{
		Task:   t,
		ID:     t.ID(),
		Column: idx.ColumnOf(t.ID()),
	}

	h.Workload = Workload(idx, t)
	h.Completed = IsCompleted(idx, t, h.Column)
	h.Progress = Progress(t, h.Completed)
	h.RemainingWorkload = int(math.Ceil(h.Workload * (1 - h.Progress)))
	h.Due = DueStatus(t, h.Completed, time.Now())

	h.SubTasksText = subTasksText(t.SubTasks)
	h.TagsText = strings.Join(t.Metadata.Tags, "\n")
	h.RelationsText = relationsText(t.Relations)
	h.CommentsText = commentsText(t.Comments)

	h.CountSubTasks = len(t.SubTasks)
	h.CountTags = len(t.Metadata.Tags)
	h.CountRelations = len(t.Relations)
	h.CountComments = len(t.Comments)

	return h
}

// HydrateAll hydrates a slice of tasks, preserving order.
func HydrateAll(idx *index.Index, tasks []task.Task) []Hydrated {
	hydrated := make([]Hydrated, len(tasks))
	for i, t := range tasks {
		hydrated[i] = Hydrate(idx, t)
	}
	return hydrated
}

// Workload sums the configured weights of the task's workload tags. A task
// with none of the configured tags falls back to the default workload.
func Workload(idx *index.Index, t task.Task) float64 {
	weights := idx.Options.TaskWorkloadTags()

	total := 0.0
	matched := false
	for _, tag := range t.Metadata.Tags {
		if w, ok := weights[tag]; ok {
			total += w
			matched = true
		}
	}
	if !matched {
		return idx.Options.DefaultTaskWorkload()
	}
	return total
}

// IsCompleted reports whether a task counts as complete: it has a
// completed date, or sits in a column listed in completedColumns.
func IsCompleted(idx *index.Index, t task.Task, column string) bool {
	if t.Metadata.Completed != nil {
		return true
	}
	for _, c := range idx.Options.CompletedColumns() {
		if c == column {
			return true
		}
	}
	return false
}

// Progress returns 1 for completed tasks, the explicit progress value
// clamped to [0, 1] when present, and 0 otherwise.
func Progress(t task.Task, completed bool) float64 {
	if completed {
		return 1
	}
	if t.Metadata.Progress == nil {
		return 0
	}
	p := *t.Metadata.Progress
	if math.IsNaN(p) {
		return 0
	}
	return math.Min(1, math.Max(0, p))
}

// DueStatus computes due-date standing relative to now, or nil when the
// task has no due date. For completed tasks the completion date is the
// reference point instead of now.
func DueStatus(t task.Task, completed bool, now time.Time) *DueData {
	if t.Metadata.Due == nil {
		return nil
	}

	due := *t.Metadata.Due
	ref := now
	if completed && t.Metadata.Completed != nil {
		ref = *t.Metadata.Completed
	}

	delta := ref.Sub(due)
	return &DueData{
		Due:       due,
		Completed: completed,
		Delta:     delta,
		Overdue:   !completed && delta > 0,
		Message:   date.DueMessage(due, ref, completed),
	}
}

func subTasksText(subTasks []task.SubTask) string {
	lines := make([]string, 0, len(subTasks))
	for _, st := range subTasks {
		box := " "
		if st.Completed {
			box = "x"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", box, st.Text))
	}
	return strings.Join(lines, "\n")
}

func relationsText(relations []task.Relation) string {
	lines := make([]string, 0, len(relations))
	for _, r := range relations {
		lines = append(lines, strings.TrimSpace(r.Type+" "+r.Task))
	}
	return strings.Join(lines, "\n")
}

func commentsText(comments []task.Comment) string {
	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		lines = append(lines, strings.TrimSpace(c.Author+" "+c.Text))
	}
	return strings.Join(lines, "\n")
}
