package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move ID COLUMN",
	Short: "Move a task to another column",
	Args:  cobra.ExactArgs(2),
	RunE:  runMove,
}

func init() {
	moveCmd.Flags().Int("position", -1, "position within the column (-1 appends)")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	id, column := args[0], args[1]
	position, _ := cmd.Flags().GetInt("position")

	if err := p.MoveTask(id, column, position); err != nil {
		return err
	}

	return printResult(map[string]any{"id": id, "column": column}, func() {
		fmt.Printf("Moved task %q to %q\n", id, column)
	})
}
