package mcp

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/docfusion/docfusion/internal/service"
)

const (
	// ServerName is the MCP server name
	ServerName = "docfusion"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp    *server.MCPServer
	svc    *service.Service
	logger *log.Logger
}

// NewServer creates a new MCP server instance backed by svc.
func NewServer(svc *service.Service, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		svc:    svc,
		logger: logger,
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.svc.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(ingestDocumentTool(), s.handleIngestDocument)
	s.mcp.AddTool(searchTool(), s.handleSearch)
	s.mcp.AddTool(listCollectionsTool(), s.handleListCollections)
	s.mcp.AddTool(deleteCollectionTool(), s.handleDeleteCollection)
	s.mcp.AddTool(collectionStatsTool(), s.handleCollectionStats)
}
