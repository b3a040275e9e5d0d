package main

import (
	"github.com/spf13/cobra"

	"gcf/internal/mcp"
	"gcf/internal/version"
)

var mcpRoot string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol (MCP) server.

The server speaks newline-delimited JSON-RPC 2.0 on stdin/stdout and logs to
stderr. It exposes:
  - find_class: locate a class in a Gradle module
  - get_source_code: return class source, optionally a line range
  - get_source_metadata: outline a class without returning its source

Configuration is read from --root (default: the working directory). Every
tool call runs under server.requestTimeoutMs.

This command is typically invoked by MCP clients, not directly by users.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpRoot, "root", "", "Directory whose .gcf/config.json configures the server")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newApp(mcpRoot)
	if err != nil {
		return err
	}
	ctx, cancel := newContext()
	defer cancel()

	logger.Info("Starting MCP server", "version", version.Version, "provider", a.providerName)
	server := mcp.NewMCPServer(version.Version, mcp.Options{
		Finder:         a.finder(),
		Retriever:      a.retriever(),
		Provider:       a.providerName,
		RequestTimeout: a.cfg.RequestTimeout(),
	}, logger)
	server.SetStdin(cmd.InOrStdin())
	server.SetStdout(cmd.OutOrStdout())

	if err := server.Start(ctx); err != nil {
		logger.Error("MCP server error", "error", err.Error())
		return err
	}
	return nil
}
