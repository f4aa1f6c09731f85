package cmd

import (
	"fmt"

	"github.com/abramin/repolens/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [path]",
	Short: "Show row counts for the extracted database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}

		st, err := store.Open(path)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		stats, err := st.GetStats()
		if err != nil {
			return fmt.Errorf("getting stats: %w", err)
		}

		fmt.Printf("Files:        %d\n", stats.FileCount)
		fmt.Printf("Functions:    %d\n", stats.FunctionCount)
		fmt.Printf("Dependencies: %d\n", stats.DependencyCount)
		fmt.Printf("Commits:      %d\n", stats.CommitCount)
		fmt.Printf("Commit files: %d\n", stats.CommitFileCount)
		if !stats.ExtractedAt.IsZero() {
			fmt.Printf("Extracted at: %s\n", stats.ExtractedAt.Format("2006-01-02 15:04:05"))
		}

		warnings, err := st.CheckIntegrity()
		if err != nil {
			return fmt.Errorf("checking integrity: %w", err)
		}
		if len(warnings) > 0 {
			fmt.Printf("Integrity warnings: %d\n", len(warnings))
			for _, w := range warnings {
				fmt.Printf("  - %s\n", w)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
