package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a task with its derived fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	idx, err := p.LoadIndex()
	if err != nil {
		return err
	}
	h, err := p.HydrateTask(idx, args[0])
	if err != nil {
		return err
	}

	return printResult(h, func() {
		fmt.Printf("%s  [%s]\n", h.Name, h.Column)
		if h.Description != "" {
			fmt.Println()
			fmt.Println(h.Description)
		}
		fmt.Println()
		fmt.Printf("workload: %.0f  progress: %.0f%%  remaining: %d\n",
			h.Workload, h.Progress*100, h.RemainingWorkload)
		if h.Metadata.Assigned != "" {
			fmt.Printf("assigned: %s\n", h.Metadata.Assigned)
		}
		if len(h.Metadata.Tags) > 0 {
			fmt.Printf("tags: %s\n", strings.Join(h.Metadata.Tags, ", "))
		}
		if h.Due != nil {
			fmt.Printf("due: %s (%s)\n", h.Due.Due.Format(idx.Options.DateFormat()), h.Due.Message)
		}
		if h.SubTasksText != "" {
			fmt.Println()
			fmt.Println(h.SubTasksText)
		}
	})
}
