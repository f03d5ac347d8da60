package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:   "comment ID TEXT",
	Short: "Add a comment to a task",
	Args:  cobra.ExactArgs(2),
	RunE:  runComment,
}

func init() {
	commentCmd.Flags().String("author", "", "comment author")
	rootCmd.AddCommand(commentCmd)
}

func runComment(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	author, _ := cmd.Flags().GetString("author")
	if err := p.AddComment(args[0], args[1], author); err != nil {
		return err
	}

	return printResult(map[string]any{"id": args[0]}, func() {
		fmt.Printf("Added comment to task %q\n", args[0])
	})
}
