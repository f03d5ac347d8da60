package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kanmd/kanmd/internal/board"
	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/index"
)

var boardCmd = &cobra.Command{
	Use:     "board",
	Aliases: []string{"list"},
	Short:   "Show the board columns and their tasks",
	Args:    cobra.NoArgs,
	RunE:    runBoard,
}

func init() {
	boardCmd.Flags().StringArrayP("filter", "f", nil, "filter as field=value (repeatable)")
	boardCmd.Flags().Bool("all", false, "include hidden columns")
	boardCmd.Flags().String("view", "", "apply a saved view preset")
	rootCmd.AddCommand(boardCmd)
}

type boardColumn struct {
	Name  string           `json:"name"`
	Tasks []board.Hydrated `json:"tasks"`
}

func runBoard(cmd *cobra.Command, _ []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	idx, err := p.LoadIndex()
	if err != nil {
		return err
	}
	tasks, err := p.LoadAllTrackedTasks(idx)
	if err != nil {
		return err
	}

	pairs, _ := cmd.Flags().GetStringArray("filter")
	filters, err := parseFilters(pairs)
	if err != nil {
		return err
	}
	matched, err := board.Filter(idx, board.HydrateAll(idx, tasks), filters)
	if err != nil {
		return err
	}

	var columns []boardColumn
	if viewName, _ := cmd.Flags().GetString("view"); viewName != "" {
		columns, err = viewColumns(idx, matched, viewName)
	} else {
		all, _ := cmd.Flags().GetBool("all")
		columns = indexColumns(idx, matched, all)
	}
	if err != nil {
		return err
	}

	tmpl := idx.Options.TaskTemplate()
	dateFormat := idx.Options.DateFormat()

	return printResult(map[string]any{"name": idx.Name, "columns": columns}, func() {
		fmt.Println(idx.Name)
		for _, col := range columns {
			fmt.Printf("\n%s (%d)\n", col.Name, len(col.Tasks))
			for _, h := range col.Tasks {
				fmt.Printf("  %s\n", board.Template(h, tmpl, dateFormat))
			}
		}
	})
}

// indexColumns groups matched tasks by their board column, skipping hidden
// columns unless all is set.
func indexColumns(idx *index.Index, matched []board.Hydrated, all bool) []boardColumn {
	byColumn := make(map[string][]board.Hydrated)
	for _, h := range matched {
		byColumn[h.Column] = append(byColumn[h.Column], h)
	}

	hidden := make(map[string]bool)
	if !all {
		for _, name := range idx.Options.HiddenColumns() {
			hidden[name] = true
		}
	}

	var columns []boardColumn
	for _, col := range idx.Columns {
		if hidden[col.Name] {
			continue
		}
		columns = append(columns, boardColumn{Name: col.Name, Tasks: byColumn[col.Name]})
	}
	return columns
}

// viewColumns lays out matched tasks per a saved view preset: the view's
// filters narrow the set, then each view column selects by its own filters
// (or by board column name when it has none) and applies its sorters.
func viewColumns(idx *index.Index, matched []board.Hydrated, name string) ([]boardColumn, error) {
	var view *index.View
	for _, v := range idx.Options.Views() {
		if v.Name == name {
			view = &v
			break
		}
	}
	if view == nil {
		return nil, clierr.Newf(clierr.DomainRule, "no view named %q", name)
	}

	matched, err := board.Filter(idx, matched, view.Filters)
	if err != nil {
		return nil, err
	}

	var columns []boardColumn
	for _, vc := range view.Columns {
		var cell []board.Hydrated
		if len(vc.Filters) > 0 {
			if cell, err = board.Filter(idx, matched, vc.Filters); err != nil {
				return nil, err
			}
		} else {
			for _, h := range matched {
				if h.Column == vc.Name {
					cell = append(cell, h)
				}
			}
		}
		if cell, err = board.Sort(cell, vc.Sorters); err != nil {
			return nil, err
		}
		columns = append(columns, boardColumn{Name: vc.Name, Tasks: cell})
	}
	return columns, nil
}
