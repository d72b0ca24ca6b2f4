package mcp

import (
	"github.com/ka2n/hiroi/api"
	"github.com/ka2n/hiroi/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server represents the MCP server for hiroi
type Server struct {
	server *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer() *Server {
	s := server.NewMCPServer("hiroi", api.Version)

	registerTools(s)

	return &Server{
		server: s,
	}
}

// Run serves requests on stdio until the client disconnects
func (s *Server) Run() error {
	log.Info("Serving MCP on stdio", "version", api.Version)
	return server.ServeStdio(s.server)
}

// registerTools registers all available tools with the MCP server
func registerTools(s *server.MCPServer) {
	tools := InitTools()
	s.AddTools(tools...)
}

func newServerTool(tool mcp.Tool, handler server.ToolHandlerFunc) server.ServerTool {
	return server.ServerTool{
		Tool:    tool,
		Handler: handler,
	}
}
