package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kanmd/kanmd/internal/clierr"
	"github.com/kanmd/kanmd/internal/project"
	"github.com/kanmd/kanmd/internal/watcher"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the index and every task file",
	Long: `Validate parses the index and all task files, reporting every
finding instead of stopping at the first. Exits non-zero if any issue
is found.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolP("watch", "w", false, "re-validate whenever the board changes")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return reportIssues(p)
	}

	// Watch mode keeps running, re-validating on change. The first pass
	// runs immediately so a clean board still prints a result.
	_ = reportIssues(p)

	w, err := watcher.New([]string{p.Root(), p.TasksPath()}, func() {
		_ = reportIssues(p)
	})
	if err != nil {
		return fmt.Errorf("watching board: %w", err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	w.Run(ctx, func(err error) {
		logger.Error("watch error", "err", err)
	})
	return nil
}

func reportIssues(p *project.Project) error {
	issues, err := p.Validate()
	if err != nil {
		return err
	}

	printErr := printResult(map[string]any{"issues": issues, "total": len(issues)}, func() {
		if len(issues) == 0 {
			fmt.Println("Board is valid")
			return
		}
		fmt.Printf("Found %d issue(s)\n", len(issues))
		for _, issue := range issues {
			fmt.Printf("  %s: %s\n", issue.File, issue.Error)
		}
	})
	if printErr != nil {
		return printErr
	}

	if len(issues) > 0 {
		return &clierr.SilentError{Code: 1}
	}
	return nil
}
