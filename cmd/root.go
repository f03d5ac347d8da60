// Package cmd implements the kanmd CLI commands. Commands are thin
// shells: they resolve the board, call one project operation, and print.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/output"
	"github.com/kanmd/kanmd/internal/project"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagDir     string
	flagVerbose bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})

var rootCmd = &cobra.Command{
	Use:           "kanmd",
	Short:         "Markdown kanban boards in a directory of files",
	Long:          `kanmd stores a kanban board as markdown files: one index describing columns and options, one file per task.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "path to board directory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if output.Detect(flagJSON) == output.FormatJSON {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// openProject resolves the board directory from --dir or by walking up
// from the working directory.
func openProject() (*project.Project, error) {
	if flagDir != "" {
		p, err := project.Open(flagDir)
		if err != nil {
			return nil, err
		}
		if !p.Initialized() {
			return nil, clierr.Newf(clierr.NotInitialized, "no board found at %s", flagDir)
		}
		return p, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	return project.Find(cwd)
}

func printResult(data any, plain func()) error {
	if output.Detect(flagJSON) == output.FormatJSON {
		return output.JSON(os.Stdout, data)
	}
	plain()
	return nil
}
