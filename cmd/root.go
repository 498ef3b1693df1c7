package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/repodocs/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "repodocs",
	Short: "Repository analysis and README generation",
	Long: `repodocs clones a repository, derives structured facts about it
(languages, frameworks, dependencies, entry points, README, API specs,
size metrics) and turns them into README-style documentation, either from
the command line, over a REST API, or through an MCP server for AI agents.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
}
