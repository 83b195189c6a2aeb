// ABOUTME: MCP server setup for the scout athlete performance store.
// ABOUTME: Wraps the MCP server around the application service.
package mcp

import (
	"context"

	"github.com/harperreed/scout/internal/logger"
	"github.com/harperreed/scout/internal/metrics"
	"github.com/harperreed/scout/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with service access.
type Server struct {
	mcpServer *mcp.Server
	svc       *service.Service
	log       logger.Logger
	metrics   *metrics.Manager
}

// NewServer creates a new MCP server over the given service.
func NewServer(svc *service.Service) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "scout",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		log:       logger.Named("mcp"),
		metrics:   metrics.Default(),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve runs the MCP server over stdin and stdout until ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Info("serving MCP over stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// addTool registers a typed handler and counts each invocation by outcome.
func addTool[In, Out any](s *Server, tool *mcp.Tool, h mcp.ToolHandlerFor[In, Out]) {
	name := tool.Name
	mcp.AddTool(s.mcpServer, tool, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		res, out, err := h(ctx, req, in)
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeError
			s.log.Warn("tool failed", logger.String("tool", name), logger.Error(err))
		}
		s.metrics.RecordToolCall(name, outcome)
		return res, out, err
	})
}
