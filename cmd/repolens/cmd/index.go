package cmd

import (
	"fmt"
	"time"

	"github.com/abramin/repolens/internal/analyze"
	"github.com/spf13/cobra"
)

var (
	indexRepoDir   string
	indexNoHistory bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Extract dependencies and history from a project",
	Long: `Analyze a project directory and build the dependency database.

The index command:
- Walks the directory and parses every recognized source file
- Records functions and the call edges between them
- Walks the git commit log and records which commits touched which files
- Persists results to .repolens/index.db

Code and history extraction run concurrently; the command finishes only
when both are complete. Use --no-history for a code-only run, or --repo
when the git repository is not the analyzed directory itself.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		fmt.Printf("Indexing project at: %s\n", path)

		analyzer := analyze.New(GetConfig(), path, indexRepoDir, !indexNoHistory)
		result, err := analyzer.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}

		fmt.Println()
		fmt.Printf("Indexing complete!\n")
		fmt.Printf("  Files:        %d\n", result.Code.FileCount)
		fmt.Printf("  Functions:    %d\n", result.Code.FunctionCount)
		fmt.Printf("  Dependencies: %d\n", result.Code.DependencyCount)
		if result.Code.ParseFailures > 0 {
			fmt.Printf("  Parse failures (skipped): %d\n", result.Code.ParseFailures)
		}
		if result.History != nil {
			fmt.Printf("  Commits:      %d\n", result.History.CommitCount)
			fmt.Printf("  Commit files: %d\n", result.History.CommitFileCount)
		}
		if len(result.IntegrityWarnings) > 0 {
			fmt.Printf("  Integrity warnings: %d\n", len(result.IntegrityWarnings))
		}
		fmt.Printf("  Duration: %s\n", result.Duration.Round(time.Millisecond))
		fmt.Printf("  Database: %s\n", result.DBPath)
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexRepoDir, "repo", "", "git repository path (default: the analyzed directory)")
	indexCmd.Flags().BoolVar(&indexNoHistory, "no-history", false, "skip git history extraction")
	rootCmd.AddCommand(indexCmd)
}
