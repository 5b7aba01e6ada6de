// ABOUTME: MCP server setup for the workout log.
// ABOUTME: Wraps the MCP server around the report service.
package mcp

import (
	"context"

	"github.com/harperreed/workoutlog/internal/report"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with report service access.
type Server struct {
	mcpServer *mcp.Server
	svc       *report.Service
}

// NewServer creates a new MCP server over the given service.
func NewServer(svc *report.Service) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "workoutlog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
