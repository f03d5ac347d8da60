package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/date"
)

var sprintCmd = &cobra.Command{
	Use:   "sprint NAME",
	Short: "Start a new sprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runSprint,
}

func init() {
	sprintCmd.Flags().String("description", "", "sprint description")
	sprintCmd.Flags().String("start", "", "sprint start date (default: now)")
	rootCmd.AddCommand(sprintCmd)
}

func runSprint(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	description, _ := cmd.Flags().GetString("description")
	start := time.Now()
	if startStr, _ := cmd.Flags().GetString("start"); startStr != "" {
		if start, err = date.Parse(startStr); err != nil {
			return clierr.Newf(clierr.InvalidDate, "invalid start date %q", startStr)
		}
	}

	sprint, err := p.Sprint(args[0], description, start)
	if err != nil {
		return err
	}

	return printResult(sprint, func() {
		fmt.Printf("Started sprint %q at %s\n", sprint.Name, sprint.Start.Format(time.RFC3339))
	})
}
