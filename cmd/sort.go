package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kanmd/kanmd/internal/clierr"
)

var sortCmd = &cobra.Command{
	Use:   "sort COLUMN",
	Short: "Sort a column's tasks",
	Long: `Sort orders a column's tasks by one or more fields. Prefix a field
with "-" to sort descending. With --save the sorters are stored in the
board options and re-applied on every index save.`,
	Args: cobra.ExactArgs(1),
	RunE: runSort,
}

func init() {
	sortCmd.Flags().StringArrayP("sort", "s", nil, "field to sort by, \"-field\" for descending (repeatable)")
	sortCmd.Flags().Bool("save", false, "persist the sorters in the board options")
	rootCmd.AddCommand(sortCmd)
}

func runSort(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	fields, _ := cmd.Flags().GetStringArray("sort")
	if len(fields) == 0 {
		return clierr.New(clierr.DomainRule, "no sort fields given")
	}
	save, _ := cmd.Flags().GetBool("save")

	if err := p.SortColumn(args[0], parseSorters(fields), save); err != nil {
		return err
	}

	return printResult(map[string]any{"column": args[0]}, func() {
		fmt.Printf("Sorted column %q\n", args[0])
	})
}
