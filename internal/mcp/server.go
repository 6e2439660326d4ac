package mcp

import (
	"log/slog"

	"github.com/ganot/fete-till/internal/till"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerName and ServerVersion identify the till to MCP clients.
const (
	ServerName    = "fete-till"
	ServerVersion = "0.1.0"
)

// Config contains server configuration.
type Config struct {
	Till          *till.Till
	TransportMode string // "stdio" or "http"
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Till))

	if cfg.Logger != nil {
		cfg.Logger.Debug("mcp server ready", "transport", cfg.TransportMode, "tools", len(buildToolCatalog()))
	}
	return server
}
