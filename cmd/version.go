package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the kanmd version",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return printResult(map[string]any{"version": version}, func() {
			fmt.Println(version)
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
