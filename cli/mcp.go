// ABOUTME: MCP server subcommand
// ABOUTME: Serves the CRM tools, resources and prompts over stdio
package cli

import (
	"context"

	"github.com/harperreed/simplecrm/handlers"
	"github.com/harperreed/simplecrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// MCPCommand starts the MCP server on stdio and blocks until the client disconnects.
func MCPCommand(ctx context.Context, s *store.Store, logger *zap.Logger, version string) error {
	logger.Info("starting MCP server", zap.String("version", version))
	server := handlers.NewServer(s, version)
	return server.Run(ctx, &mcp.StdioTransport{})
}
