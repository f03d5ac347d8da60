package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kanmd/kanmd/internal/project"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show board statistics",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolP("quiet", "q", false, "omit per-assignee totals")
	statusCmd.Flags().BoolP("untracked", "u", false, "list task files missing from the index")
	statusCmd.Flags().BoolP("due", "d", false, "list tasks with due dates")
	statusCmd.Flags().String("sprint", "", "restrict to tasks created in the named sprint")
	statusCmd.Flags().StringSlice("date", nil, "restrict to tasks created on a date or in a date range")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	opts := project.StatusOptions{}
	opts.Quiet, _ = cmd.Flags().GetBool("quiet")
	opts.Untracked, _ = cmd.Flags().GetBool("untracked")
	opts.Due, _ = cmd.Flags().GetBool("due")
	opts.Sprint, _ = cmd.Flags().GetString("sprint")

	dateStrs, _ := cmd.Flags().GetStringSlice("date")
	if opts.Dates, err = parseDates(dateStrs); err != nil {
		return err
	}

	status, err := p.Status(opts)
	if err != nil {
		return err
	}

	return printResult(status, func() {
		fmt.Printf("%s: %d task(s)\n", status.Name, status.Tasks)
		for _, col := range status.Columns {
			fmt.Printf("  %-20s %3d  workload %.0f  remaining %d\n",
				col.Name, col.Count, col.Workload, col.RemainingWorkload)
		}
		for _, as := range status.Assigned {
			fmt.Printf("  @%-19s %3d  workload %.0f  remaining %d\n",
				as.Assigned, as.Count, as.Workload, as.RemainingWorkload)
		}
		for _, due := range status.Due {
			fmt.Printf("  due: %s  [%s]  %s\n", due.ID, due.Column, due.Message)
		}
		for _, id := range status.Untracked {
			fmt.Printf("  untracked: %s\n", id)
		}
	})
}
