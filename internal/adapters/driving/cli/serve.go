package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/capsql/internal/adapters/driving/mcp"
	"github.com/custodia-labs/capsql/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server over stdio.

Every database operation is exposed as a tool: initialize, createConnection,
open, close, closeConnection, saveToStore, execute, executeSet, run, query,
isTableExists, checkConnectionsConsistency and echo. Operations that are not
available in this environment are listed too and always fail.

Databases are not saved automatically. Call saveToStore to checkpoint.

MCP client configuration:
  {
    "mcpServers": {
      "capsql": {
        "command": "/path/to/capsql",
        "args": ["serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if databaseService == nil {
		return errors.New("database service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Database: databaseService,
		Catalog:  catalog,
	})
	if err != nil {
		return err
	}

	logger.Info("MCP server %s listening on stdio", mcp.Version)
	return server.Run(cmd.Context())
}
