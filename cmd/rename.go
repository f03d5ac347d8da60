package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename ID NAME",
	Short: "Rename a task, giving it a new id",
	Args:  cobra.ExactArgs(2),
	RunE:  runRename,
}

func init() {
	rootCmd.AddCommand(renameCmd)
}

func runRename(_ *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	newID, err := p.RenameTask(args[0], args[1])
	if err != nil {
		return err
	}

	return printResult(map[string]any{"id": newID}, func() {
		fmt.Printf("Renamed task %q to %q\n", args[0], newID)
	})
}
