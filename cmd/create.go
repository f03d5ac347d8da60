package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/date"
	"github.com/kanmd/kanmd/internal/task"
)

var createCmd = &cobra.Command{
	Use:     "create NAME",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Args:    cobra.ExactArgs(1),
	RunE:    runCreate,
}

func init() {
	createCmd.Flags().String("column", "", "target column (default: first column)")
	createCmd.Flags().String("description", "", "task description (markdown)")
	createCmd.Flags().String("assigned", "", "assignee")
	createCmd.Flags().StringSlice("tags", nil, "comma-separated tags")
	createCmd.Flags().String("due", "", "due date")
	createCmd.Flags().Float64("progress", 0, "progress between 0 and 1")
	createCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "tag":
			name = "tags"
		case "desc":
			name = "description"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	t := task.Task{Name: args[0]}
	t.Description, _ = cmd.Flags().GetString("description")
	t.Metadata.Assigned, _ = cmd.Flags().GetString("assigned")
	t.Metadata.Tags, _ = cmd.Flags().GetStringSlice("tags")

	if dueStr, _ := cmd.Flags().GetString("due"); dueStr != "" {
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
	if column == "" {
		idx, err := p.LoadIndex()
		if err != nil {
			return err
		}
		if len(idx.Columns) == 0 {
			return clierr.New(clierr.DomainRule, "board has no columns")
		}
		column = idx.Columns[0].Name
	}

	id, err := p.CreateTask(t, column)
	if err != nil {
		return err
	}

	return printResult(map[string]any{"id": id, "column": column}, func() {
		fmt.Printf("Created task %q in %q\n", id, column)
	})
}
