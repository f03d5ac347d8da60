package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kanmd/kanmd/internal/project"
)

var burndownCmd = &cobra.Command{
	Use:   "burndown",
	Short: "Compute remaining workload over time",
	Args:  cobra.NoArgs,
	RunE:  runBurndown,
}

func init() {
	burndownCmd.Flags().String("sprint", "", "chart the named sprint")
	burndownCmd.Flags().StringSlice("date", nil, "chart a date or date range")
	burndownCmd.Flags().String("assigned", "", "restrict to one assignee")
	burndownCmd.Flags().StringSlice("columns", nil, "restrict to these columns")
	rootCmd.AddCommand(burndownCmd)
}

func runBurndown(cmd *cobra.Command, _ []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	opts := project.BurndownOptions{}
	opts.Sprint, _ = cmd.Flags().GetString("sprint")
	opts.Assigned, _ = cmd.Flags().GetString("assigned")
	opts.Columns, _ = cmd.Flags().GetStringSlice("columns")

	dateStrs, _ := cmd.Flags().GetStringSlice("date")
	if opts.Dates, err = parseDates(dateStrs); err != nil {
		return err
	}

	data, err := p.Burndown(opts)
	if err != nil {
		return err
	}

	return printResult(data, func() {
		for _, series := range data.Series {
			fmt.Printf("%s (%s to %s)\n", series.Name,
				series.From.Format(time.RFC3339), series.To.Format(time.RFC3339))
			for _, point := range series.Points {
				fmt.Printf("  %s  %d\n", point.X.Format(time.RFC3339), point.Y)
			}
		}
	})
}
