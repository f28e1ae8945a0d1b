package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/NIT-JSR/PrivaShield-AI/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:         "mcp",
	Short:       "MCP server commands",
	Long:        `Commands for the Model Context Protocol (MCP) server integration.`,
	Annotations: map[string]string{annotationStack: "true"},
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can analyse
policies, ask questions about them and request structured reports.

By default, the server communicates over stdio using JSON-RPC.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for desktop assistants)
  privashield mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  privashield mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "privashield": {
        "command": "/path/to/privashield",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Scan:     scanService,
		Analysis: analysisService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(commandContext(cmd), addr)
	}

	return server.Run(commandContext(cmd))
}
