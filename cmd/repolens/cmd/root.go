package cmd

import (
	"fmt"

	"github.com/abramin/repolens/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "repolens",
	Short: "repolens - Visualize code dependencies and their change history",
	Long: `repolens extracts static dependency information from a codebase
(function calls, file-level dependencies) and correlates it with version
control history (commits, authorship, change frequency).

It answers "what depends on what, and how does it change?" by producing
directed graphs ready for Graphviz, Mermaid, or any JSON-consuming renderer.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./repolens.yaml)")
}

func GetConfig() *config.Config {
	return cfg
}
