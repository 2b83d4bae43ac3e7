package main

import (
	"github.com/akolanti/ContractRAG/internal/mcpServer"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the contract tools over MCP on stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout with the tools
ask_contract, retrieve_chunks, upload_contract and index_stats.

Example client entry:
  {
    "mcpServers": {
      "contracts": {"command": "contractctl", "args": ["mcp", "--backend", "qdrant"]}
    }
  }`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		server, err := mcpServer.NewServer(ragService)
		if err != nil {
			return err
		}
		return server.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
