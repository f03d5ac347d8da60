package project

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/index"
	"github.com/kanmd/kanmd/internal/task"
)

func seedTasks(t *testing.T, p *Project) {
	t.Helper()

	due := time.Now().AddDate(0, 0, 7)
	tasks := []struct {
		task   task.Task
		column string
	}{
		{task.Task{Name: "Write Docs", Metadata: task.Metadata{Assigned: "alice", Tags: []string{"Small"}, Due: &due}}, "Todo"},
		{task.Task{Name: "Fix Parser", Metadata: task.Metadata{Assigned: "bob", Tags: []string{"Large"}}}, "In Progress"},
		{task.Task{Name: "Ship Release", Metadata: task.Metadata{Assigned: "alice"}}, "Done"},
	}
	for _, tt := range tasks {
		if _, err := p.CreateTask(tt.task, tt.column); err != nil {
			t.Fatalf("CreateTask(%q): %v", tt.task.Name, err)
		}
	}
}

func TestSearch(t *testing.T) {
	p := newTestProject(t)
	seedTasks(t, p)

	t.Run("quiet returns ids only", func(t *testing.T) {
		result, err := p.Search(index.Filters{"assigned": "alice"}, true)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if result.Total != 2 {
			t.Errorf("Total = %d", result.Total)
		}
		if !reflect.DeepEqual(result.IDs, []string{"write-docs", "ship-release"}) {
			t.Errorf("IDs = %v", result.IDs)
		}
		if result.Tasks != nil {
			t.Error("quiet search should not return hydrated tasks")
		}
	})

	t.Run("full results are hydrated", func(t *testing.T) {
		result, err := p.Search(index.Filters{"name": "parser"}, false)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(result.Tasks) != 1 {
			t.Fatalf("Tasks = %v", result.Tasks)
		}
		h := result.Tasks[0]
		if h.ID != "fix-parser" || h.Column != "In Progress" || h.Workload != 5 {
			t.Errorf("hydrated = id %q column %q workload %v", h.ID, h.Column, h.Workload)
		}
	})

	t.Run("no filters match everything", func(t *testing.T) {
		result, err := p.Search(nil, true)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if result.Total != 3 {
			t.Errorf("Total = %d", result.Total)
		}
	})
}

func TestStatus(t *testing.T) {
	p := newTestProject(t)
	setOptions(t, p, map[string]any{"completedColumns": []any{"Done"}})
	seedTasks(t, p)

	status, err := p.Status(StatusOptions{Due: true})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}

	if status.Name != "Test Board" || status.Tasks != 3 {
		t.Errorf("status = %+v", status)
	}

	byName := map[string]ColumnStatus{}
	for _, cs := range status.Columns {
		byName[cs.Name] = cs
	}
	if cs := byName["Todo"]; cs.Count != 1 || cs.Workload != 2 {
		t.Errorf("Todo = %+v", cs)
	}
	if cs := byName["In Progress"]; cs.Count != 1 || cs.Workload != 5 || cs.RemainingWorkload != 5 {
		t.Errorf("In Progress = %+v", cs)
	}
	// Done column tasks are complete, so nothing remains.
	if cs := byName["Done"]; cs.Count != 1 || cs.RemainingWorkload != 0 {
		t.Errorf("Done = %+v", cs)
	}

	if len(status.Assigned) != 2 {
		t.Fatalf("Assigned = %v", status.Assigned)
	}
	if status.Assigned[0].Assigned != "alice" || status.Assigned[0].Count != 2 {
		t.Errorf("Assigned[0] = %+v", status.Assigned[0])
	}

	if len(status.Due) != 1 || status.Due[0].ID != "write-docs" || status.Due[0].Overdue {
		t.Errorf("Due = %+v", status.Due)
	}
}

func TestStatusQuietOmitsAssignees(t *testing.T) {
	p := newTestProject(t)
	seedTasks(t, p)

	status, err := p.Status(StatusOptions{Quiet: true})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Assigned != nil {
		t.Errorf("Assigned = %v, want none in quiet mode", status.Assigned)
	}
}

func TestStatusSprintPeriod(t *testing.T) {
	p := newTestProject(t)
	seedTasks(t, p)

	// A sprint starting tomorrow contains none of the seeded tasks.
	if _, err := p.Sprint("Sprint 1", "", time.Now().AddDate(0, 0, 1)); err != nil {
		t.Fatalf("Sprint: %v", err)
	}

	status, err := p.Status(StatusOptions{Sprint: "Sprint 1"})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Tasks != 0 {
		t.Errorf("Tasks = %d, want 0 for a future sprint", status.Tasks)
	}

	_, err = p.Status(StatusOptions{Sprint: "Nonexistent"})
	wantCode(t, err, clierr.DomainRule)
}

func TestStatusDatePeriod(t *testing.T) {
	p := newTestProject(t)
	seedTasks(t, p)

	// All seeded tasks were created today.
	status, err := p.Status(StatusOptions{Dates: []time.Time{time.Now()}})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Tasks != 3 {
		t.Errorf("Tasks = %d, want all created today", status.Tasks)
	}

	status, err = p.Status(StatusOptions{Dates: []time.Time{time.Now().AddDate(0, 0, -7)}})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Tasks != 0 {
		t.Errorf("Tasks = %d, want 0 for last week", status.Tasks)
	}
}

func TestUntrackedTasks(t *testing.T) {
	p := newTestProject(t)
	seedTasks(t, p)

	stray := "# Stray Task\n"
	if err := os.WriteFile(filepath.Join(p.TasksPath(), "stray-task.md"), []byte(stray), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	status, err := p.Status(StatusOptions{Untracked: true})
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !reflect.DeepEqual(status.Untracked, []string{"stray-task"}) {
		t.Errorf("Untracked = %v", status.Untracked)
	}
}

func TestSortColumn(t *testing.T) {
	p := newTestProject(t)

	for _, name := range []string{"Zebra", "Apple", "Mango"} {
		if _, err := p.CreateTask(task.Task{Name: name}, "Todo"); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	if err := p.SortColumn("Todo", []index.Sorter{{Field: "name", Order: index.Ascending}}, false); err != nil {
		t.Fatalf("SortColumn: %v", err)
	}

	idx, err := p.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	want := []string{"apple", "mango", "zebra"}
	if got := idx.Column("Todo").Tasks; !reflect.DeepEqual(got, want) {
		t.Errorf("Todo = %v, want %v", got, want)
	}

	// Without save, a new task appends unsorted.
	if _, err := p.CreateTask(task.Task{Name: "Banana"}, "Todo"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	idx, err = p.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	if got := idx.Column("Todo").Tasks; got[len(got)-1] != "banana" {
		t.Errorf("Todo = %v, banana should be appended", got)
	}
}

func TestSortColumnSavePersists(t *testing.T) {
	p := newTestProject(t)

	for _, name := range []string{"Zebra", "Apple"} {
		if _, err := p.CreateTask(task.Task{Name: name}, "Todo"); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	if err := p.SortColumn("Todo", []index.Sorter{{Field: "name", Order: index.Ascending}}, true); err != nil {
		t.Fatalf("SortColumn: %v", err)
	}

	// With the rule saved, later index saves re-sort the column.
	if _, err := p.CreateTask(task.Task{Name: "Mango"}, "Todo"); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	idx, err := p.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	want := []string{"apple", "mango", "zebra"}
	if got := idx.Column("Todo").Tasks; !reflect.DeepEqual(got, want) {
		t.Errorf("Todo = %v, want %v", got, want)
	}
}

func TestSortColumnUnknownColumn(t *testing.T) {
	p := newTestProject(t)
	err := p.SortColumn("Nowhere", []index.Sorter{{Field: "name"}}, false)
	wantCode(t, err, clierr.ColumnNotFound)
}

func TestSprint(t *testing.T) {
	p := newTestProject(t)

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	sprint, err := p.Sprint("Sprint 1", "first sprint", start)
	if err != nil {
		t.Fatalf("Sprint: %v", err)
	}
	if sprint.Name != "Sprint 1" || !sprint.Start.Equal(start) {
		t.Errorf("sprint = %+v", sprint)
	}

	if _, err := p.Sprint("Sprint 2", "", start.AddDate(0, 1, 0)); err != nil {
		t.Fatalf("Sprint: %v", err)
	}

	idx, err := p.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	sprints := idx.Options.Sprints()
	if len(sprints) != 2 || sprints[0].Name != "Sprint 1" || sprints[1].Name != "Sprint 2" {
		t.Errorf("sprints = %+v", sprints)
	}

	_, err = p.Sprint("  ", "", start)
	wantCode(t, err, clierr.DomainRule)
}

func TestFilterAndSortTasks(t *testing.T) {
	p := newTestProject(t)
	seedTasks(t, p)

	idx, err := p.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	tasks, err := p.LoadAllTrackedTasks(idx)
	if err != nil {
		t.Fatalf("LoadAllTrackedTasks: %v", err)
	}

	result, err := p.FilterAndSortTasks(idx, tasks,
		index.Filters{"assigned": "alice"},
		[]index.Sorter{{Field: "name", Order: index.Descending}})
	if err != nil {
		t.Fatalf("FilterAndSortTasks: %v", err)
	}

	if len(result) != 2 || result[0].ID != "write-docs" || result[1].ID != "ship-release" {
		got := make([]string, len(result))
		for i, h := range result {
			got[i] = h.ID
		}
		t.Errorf("result = %v", got)
	}
}
