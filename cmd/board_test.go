package cmd

import (
	"errors"
	"testing"

	"github.com/kanmd/kanmd/internal/board"
	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/index"
	"github.com/kanmd/kanmd/internal/task"
)

func viewFixture(t *testing.T) (*index.Index, []board.Hydrated) {
	t.Helper()

	idx := &index.Index{
		Name: "Board",
		Options: index.Options{
			"views": []any{
				map[string]any{
					"name":    "mine",
					"filters": map[string]any{"assigned": "alice"},
					"columns": []any{
						map[string]any{"name": "Todo"},
						map[string]any{
							"name":    "Everything",
							"filters": map[string]any{"name": "."},
							"sorters": []any{
								map[string]any{"field": "name", "order": "descending"},
							},
						},
					},
				},
			},
		},
		Columns: []index.Column{
			{Name: "Todo", Tasks: []string{"write-docs", "fix-parser"}},
			{Name: "Done", Tasks: []string{"ship-release"}},
		},
	}

	tasks := []task.Task{
		{Name: "Write Docs", Metadata: task.Metadata{Assigned: "alice"}},
		{Name: "Fix Parser", Metadata: task.Metadata{Assigned: "bob"}},
		{Name: "Ship Release", Metadata: task.Metadata{Assigned: "alice"}},
	}

	return idx, board.HydrateAll(idx, tasks)
}

func TestViewColumns(t *testing.T) {
	idx, hydrated := viewFixture(t)

	columns, err := viewColumns(idx, hydrated, "mine")
	if err != nil {
		t.Fatalf("viewColumns: %v", err)
	}
	if len(columns) != 2 {
		t.Fatalf("columns = %+v, want 2", columns)
	}

	// The view filter keeps alice's tasks; the first column selects by
	// board column name.
	if columns[0].Name != "Todo" || len(columns[0].Tasks) != 1 || columns[0].Tasks[0].ID != "write-docs" {
		t.Errorf("Todo column = %+v", columns[0])
	}

	// The second column has its own filter and a descending name sorter.
	got := make([]string, 0, len(columns[1].Tasks))
	for _, h := range columns[1].Tasks {
		got = append(got, h.ID)
	}
	want := []string{"write-docs", "ship-release"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Everything column ids = %v, want %v", got, want)
	}
}

func TestViewColumnsUnknownView(t *testing.T) {
	idx, hydrated := viewFixture(t)

	_, err := viewColumns(idx, hydrated, "nonsense")
	var cliErr *clierr.Error
	if !errors.As(err, &cliErr) || cliErr.Code != clierr.DomainRule {
		t.Errorf("got %v, want DOMAIN_RULE", err)
	}
}
