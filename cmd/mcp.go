package cmd

import (
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/repodocs/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing repository analysis, documentation and search tools to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Stdout carries the protocol; logs go to stderr.
		logger := newLogger(cfg, os.Stderr)

		svc, closeFn, err := buildService(cfg, logger, false)
		if err != nil {
			return err
		}
		defer closeFn()

		mcpserver.Version = Version
		logger.Info("repodocs MCP server started on stdio", "data_dir", cfg.Server.DataDir, "search", svc.Index() != nil)
		return mcpserver.NewServer(svc).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
