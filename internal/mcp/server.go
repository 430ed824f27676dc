package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/baasilali/2m-backend/internal/searcher"
	"github.com/baasilali/2m-backend/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "skinsearch"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// CacheReporter exposes the embedding cache state for catalog_status
type CacheReporter interface {
	CacheStatus(ctx context.Context) (*storage.CacheStatus, error)
}

// Server wraps the MCP server around a search engine
type Server struct {
	mcp    *server.MCPServer
	engine *searcher.Engine
	cache  CacheReporter // optional
	logger zerolog.Logger
}

// NewServer creates a new MCP server instance. cache may be nil.
func NewServer(engine *searcher.Engine, cache CacheReporter, logger zerolog.Logger) *Server {
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:    mcpServer,
		engine: engine,
		cache:  cache,
		logger: logger,
	}

	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info().Str("server", ServerName).Str("version", ServerVersion).Msg("Serving MCP over stdio")
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(searchSkinsTool(), s.handleSearchSkins)
	s.mcp.AddTool(detectPriceIntentTool(), s.handleDetectPriceIntent)
	s.mcp.AddTool(catalogStatusTool(), s.handleCatalogStatus)
	s.mcp.AddTool(reloadCatalogTool(), s.handleReloadCatalog)
}
