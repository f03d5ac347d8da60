package board

import (
	"errors"
	"testing"
	"time"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/index"
	"github.com/kanmd/kanmd/internal/task"
)

func sortFixture() []Hydrated {
	idx := &index.Index{Name: "Board"}

	mk := func(name, assigned string, workload []string, due *time.Time) Hydrated {
		return Hydrate(idx, task.Task{
			Name: name,
			Metadata: task.Metadata{
				Assigned: assigned,
				Tags:     workload,
				Due:      due,
			},
		})
	}

	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	return []Hydrated{
		mk("banana", "carol", []string{"Large"}, &late),
		mk("Apple", "alice", []string{"Small"}, &early),
		mk("cherry", "bob", []string{"Small"}, nil),
	}
}

func sortedIDs(t *testing.T, tasks []Hydrated, sorters []index.Sorter) []string {
	t.Helper()
	sorted, err := Sort(tasks, sorters)
	if err != nil {
		t.Fatalf("Sort: %v", err)
	}
	ids := make([]string, len(sorted))
	for i, h := range sorted {
		ids[i] = h.ID
	}
	return ids
}

func TestSortNoSortersKeepsOrder(t *testing.T) {
	tasks := sortFixture()
	got := sortedIDs(t, tasks, nil)
	want := []string{"banana", "apple", "cherry"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	// The input slice itself is untouched.
	if tasks[0].ID != "banana" {
		t.Error("Sort modified its input")
	}
}

func TestSortByNameIgnoresCase(t *testing.T) {
	got := sortedIDs(t, sortFixture(), []index.Sorter{{Field: "name", Order: index.Ascending}})
	want := []string{"apple", "banana", "cherry"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortDescending(t *testing.T) {
	got := sortedIDs(t, sortFixture(), []index.Sorter{{Field: "name", Order: index.Descending}})
	want := []string{"cherry", "banana", "apple"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortByDate(t *testing.T) {
	// Tasks without the date sort as zero, before every real date.
	got := sortedIDs(t, sortFixture(), []index.Sorter{{Field: "due", Order: index.Ascending}})
	want := []string{"cherry", "apple", "banana"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortByNumericField(t *testing.T) {
	got := sortedIDs(t, sortFixture(), []index.Sorter{{Field: "workload", Order: index.Descending}})
	if got[0] != "banana" {
		t.Errorf("order = %v, banana has the largest workload", got)
	}
}

func TestSortMultiKeyTieBreak(t *testing.T) {
	// Equal workloads fall through to the second sorter.
	got := sortedIDs(t, sortFixture(), []index.Sorter{
		{Field: "workload", Order: index.Ascending},
		{Field: "assigned", Order: index.Ascending},
	})
	want := []string{"apple", "cherry", "banana"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestSortStability(t *testing.T) {
	idx := &index.Index{Name: "Board"}
	tasks := []Hydrated{
		Hydrate(idx, task.Task{Name: "Task One", Metadata: task.Metadata{Assigned: "same"}}),
		Hydrate(idx, task.Task{Name: "Task Two", Metadata: task.Metadata{Assigned: "same"}}),
		Hydrate(idx, task.Task{Name: "Task Three", Metadata: task.Metadata{Assigned: "same"}}),
	}

	got := sortedIDs(t, tasks, []index.Sorter{{Field: "assigned", Order: index.Ascending}})
	want := []string{"task-one", "task-two", "task-three"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want input order %v (stable sort)", got, want)
		}
	}
}

func TestSortWithRegexFilter(t *testing.T) {
	idx := &index.Index{Name: "Board"}
	tasks := []Hydrated{
		Hydrate(idx, task.Task{Name: "item 30"}),
		Hydrate(idx, task.Task{Name: "item 4"}),
		Hydrate(idx, task.Task{Name: "item 100"}),
	}

	// Extract the digits; the collator compares the extracted strings.
	got := sortedIDs(t, tasks, []index.Sorter{
		{Field: "name", Filter: `item (\d+)`, Order: index.Ascending},
	})
	want := []string{"item-100", "item-30", "item-4"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v (string comparison of extracted digits)", got, want)
		}
	}
}

func TestSortInvalidRegexFilter(t *testing.T) {
	_, err := Sort(sortFixture(), []index.Sorter{{Field: "name", Filter: "["}})
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.DomainRule {
		t.Errorf("got %v, want DOMAIN_RULE", err)
	}
}

func TestSortCustomFieldValues(t *testing.T) {
	idx := &index.Index{Name: "Board"}
	mk := func(name string, points any) Hydrated {
		return Hydrate(idx, task.Task{
			Name:     name,
			Metadata: task.Metadata{Custom: map[string]any{"points": points}},
		})
	}
	tasks := []Hydrated{mk("big", 10), mk("small", 2), mk("medium", 5)}

	got := sortedIDs(t, tasks, []index.Sorter{{Field: "points", Order: index.Ascending}})
	want := []string{"small", "medium", "big"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v (numeric comparison)", got, want)
		}
	}
}
