package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/promorang/promorang-cli/pkg/baseurl"
	"github.com/promorang/promorang-cli/pkg/client"
	"github.com/promorang/promorang-cli/pkg/logger"
)

const (
	// ServerName is the name of the MCP server.
	ServerName = "promorang-mcp"
	// ServerVersion is the version of the MCP server.
	ServerVersion = "0.1.0"
	// DefaultAPIURL is the default API endpoint.
	DefaultAPIURL = baseurl.Production
)

// Server wraps the MCP server with Promorang-specific functionality.
type Server struct {
	mcpServer *server.MCPServer
	auth      *AuthState
	handlers  *Handlers
}

// NewServer creates a new Promorang MCP server talking to apiURL. An empty
// apiURL means DefaultAPIURL.
func NewServer(apiURL string, opts ...client.Option) *Server {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	auth := NewAuthState(apiURL, opts...)
	handlers := NewHandlers(auth)

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
	)

	s := &Server{
		mcpServer: mcpServer,
		auth:      auth,
		handlers:  handlers,
	}

	s.registerTools()

	return s
}

// registerTools registers all Promorang tools with the MCP server.
func (s *Server) registerTools() {
	for _, tool := range ToolDefinitions() {
		switch tool.Name {
		// Authentication
		case "promorang_login":
			s.mcpServer.AddTool(tool, s.handlers.HandleLogin)
		case "promorang_status":
			s.mcpServer.AddTool(tool, s.handlers.HandleStatus)

		// Reading
		case "promorang_content":
			s.mcpServer.AddTool(tool, s.handlers.HandleContent)
		case "promorang_profile":
			s.mcpServer.AddTool(tool, s.handlers.HandleProfile)
		case "promorang_wallets":
			s.mcpServer.AddTool(tool, s.handlers.HandleWallets)

		// Actions
		case "promorang_buy_shares":
			s.mcpServer.AddTool(tool, s.handlers.HandleBuyShares)
		case "promorang_like":
			s.mcpServer.AddTool(tool, s.handlers.HandleLike)
		}
	}
}

// ServeContext starts the MCP server on stdio with a context.
func (s *Server) ServeContext(ctx context.Context) error {
	return server.ServeStdio(s.mcpServer, server.WithStdioContextFunc(func(_ context.Context) context.Context {
		return ctx
	}))
}

// GetMCPServer returns the underlying MCP server for testing.
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// SetLogger routes service logging of every tool call to l.
func (s *Server) SetLogger(l logger.Logger) {
	s.auth.SetLogger(l)
}

// GetAuthState returns the authentication state for testing.
func (s *Server) GetAuthState() *AuthState {
	return s.auth
}
