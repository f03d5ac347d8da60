package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kanmd/kanmd/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [NAME]",
	Short: "Create a new board in the current directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	initCmd.Flags().String("description", "", "board description")
	initCmd.Flags().StringSlice("columns", nil, "comma-separated column names")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := flagDir
	if dir == "" {
		dir = filepath.Join(".", project.BoardDir)
	}

	p, err := project.Open(dir)
	if err != nil {
		return err
	}

	name := "Project"
	if len(args) > 0 {
		name = args[0]
	}
	description, _ := cmd.Flags().GetString("description")
	columns, _ := cmd.Flags().GetStringSlice("columns")

	if err := p.Init(name, description, columns); err != nil {
		return err
	}

	logger.Debug("board initialized", "dir", p.Root())
	return printResult(map[string]any{"name": name, "dir": p.Root()}, func() {
		fmt.Printf("Initialized board %q in %s\n", name, p.Root())
	})
}
