package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"remove"},
	Short:   "Remove a task from the board",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	deleteCmd.Flags().Bool("index-only", false, "untrack the task but keep its file")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	indexOnly, _ := cmd.Flags().GetBool("index-only")
	if err := p.DeleteTask(args[0], !indexOnly); err != nil {
		return err
	}

	return printResult(map[string]any{"id": args[0]}, func() {
		fmt.Printf("Deleted task %q\n", args[0])
	})
}
