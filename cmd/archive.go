package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive ID",
	Short: "Move a task into the archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchive,
}

var restoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Restore an archived task onto the board",
	Args:  cobra.ExactArgs(1),
	RunE:  runRestore,
}

func init() {
	restoreCmd.Flags().String("column", "", "column to restore into (default: first column)")
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(restoreCmd)
}

func runArchive(_ *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	if err := p.ArchiveTask(args[0]); err != nil {
		return err
	}

	return printResult(map[string]any{"id": args[0]}, func() {
		fmt.Printf("Archived task %q\n", args[0])
	})
}

func runRestore(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	column, _ := cmd.Flags().GetString("column")
	if err := p.RestoreTask(args[0], column); err != nil {
		return err
	}

	return printResult(map[string]any{"id": args[0]}, func() {
		fmt.Printf("Restored task %q\n", args[0])
	})
}
