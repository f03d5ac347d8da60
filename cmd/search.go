package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search tasks by field filters",
	Long: `Search filters tasks by field. String fields match case-insensitive
regular expressions, date fields match a day or an inclusive range, and
number fields match a min/max range. Repeat --filter to combine values
for one field or to require several fields at once.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringArrayP("filter", "f", nil, "filter as field=value (repeatable)")
	searchCmd.Flags().BoolP("quiet", "q", false, "only print matching task ids")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	pairs, _ := cmd.Flags().GetStringArray("filter")
	filters, err := parseFilters(pairs)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	result, err := p.Search(filters, quiet)
	if err != nil {
		return err
	}

	return printResult(result, func() {
		if quiet {
			for _, id := range result.IDs {
				fmt.Println(id)
			}
			return
		}
		fmt.Printf("Found %d task(s)\n", result.Total)
		for _, h := range result.Tasks {
			fmt.Printf("  %s  [%s]  %s\n", h.ID, h.Column, h.Name)
		}
	})
}
