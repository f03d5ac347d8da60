package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/date"
)

var editCmd = &cobra.Command{
	Use:     "edit ID",
	Aliases: []string{"update"},
	Short:   "Update a task's fields",
	Args:    cobra.ExactArgs(1),
	RunE:    runEdit,
}

func init() {
	editCmd.Flags().String("name", "", "new name (renames the task)")
	editCmd.Flags().String("description", "", "replacement description")
	editCmd.Flags().String("assigned", "", "assignee")
	editCmd.Flags().StringSlice("tags", nil, "replacement tag list")
	editCmd.Flags().String("due", "", "due date")
	editCmd.Flags().Float64("progress", 0, "progress between 0 and 1")
	editCmd.Flags().String("column", "", "move the task to this column")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	t, err := p.LoadTask(args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("name") {
		t.Name, _ = cmd.Flags().GetString("name")
	}
	if cmd.Flags().Changed("description") {
		t.Description, _ = cmd.Flags().GetString("description")
	}
	if cmd.Flags().Changed("assigned") {
		t.Metadata.Assigned, _ = cmd.Flags().GetString("assigned")
	}
	if cmd.Flags().Changed("tags") {
		t.Metadata.Tags, _ = cmd.Flags().GetStringSlice("tags")
	}
	if cmd.Flags().Changed("due") {
		dueStr, _ := cmd.Flags().GetString("due")
		due, err := date.Parse(dueStr)
		if err != nil {
			return clierr.Newf(clierr.InvalidDate, "invalid due date %q", dueStr)
		}
		t.Metadata.Due = &due
	}
	if cmd.Flags().Changed("progress") {
		progress, _ := cmd.Flags().GetFloat64("progress")
		t.Metadata.Progress = &progress
	}

	column, _ := cmd.Flags().GetString("column")
	id, err := p.UpdateTask(args[0], t, column)
	if err != nil {
		return err
	}

	return printResult(map[string]any{"id": id}, func() {
		fmt.Printf("Updated task %q\n", id)
	})
}
