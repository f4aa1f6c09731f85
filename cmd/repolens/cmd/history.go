package cmd

import (
	"fmt"

	"github.com/abramin/repolens/internal/history"
	"github.com/abramin/repolens/internal/store"
	"github.com/spf13/cobra"
)

var historyProjectDir string

var historyCmd = &cobra.Command{
	Use:   "history [repo-path]",
	Short: "Re-extract git history without re-parsing source",
	Long: `Walk the git commit log and refresh the commits and commit_files
tables, leaving the code-extraction tables untouched. Useful after new
commits land when the source tree itself was already indexed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repoPath := "."
		if len(args) > 0 {
			repoPath = args[0]
		}
		projectDir := historyProjectDir
		if projectDir == "" {
			projectDir = repoPath
		}

		st, err := store.Open(projectDir)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		if err := st.ClearHistory(); err != nil {
			return fmt.Errorf("clearing history tables: %w", err)
		}

		ext := history.New(GetConfig(), repoPath)
		result, err := ext.Run(cmd.Context(), st)
		if err != nil {
			return fmt.Errorf("history extraction failed: %w", err)
		}

		fmt.Printf("History extracted\n")
		fmt.Printf("  Commits:      %d\n", result.CommitCount)
		fmt.Printf("  Commit files: %d\n", result.CommitFileCount)
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyProjectDir, "project", "", "project directory holding .repolens (default: the repo path)")
	rootCmd.AddCommand(historyCmd)
}
