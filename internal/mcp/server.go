// Package mcp exposes the game ledger to MCP clients. The external
// narrator drives every operation through these tools and resources; the
// server holds no narrative logic of its own.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/thedeuce2/Game-Master/internal/ledger/projection"
	"github.com/thedeuce2/Game-Master/internal/storage"
	"github.com/thedeuce2/Game-Master/internal/turn"
	"github.com/thedeuce2/Game-Master/internal/world"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "Game Master MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP is reserved for future HTTP transport support.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	Transport TransportKind
}

// Deps are the domain services the tools operate on.
type Deps struct {
	Resolver *turn.Resolver
	World    *world.Service
	Events   storage.EventStore
	Headers  storage.HeaderStore
	Cache    *projection.Cache
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
}

// New creates a configured MCP server over the given domain services.
func New(deps Deps) (*Server, error) {
	if deps.Resolver == nil {
		return nil, fmt.Errorf("turn resolver is required")
	}
	if deps.World == nil {
		return nil, fmt.Errorf("world service is required")
	}
	if deps.Events == nil || deps.Headers == nil {
		return nil, fmt.Errorf("event and header stores are required")
	}
	if deps.Cache == nil {
		deps.Cache = projection.NewCache(deps.Events)
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	registerTurnTools(mcpServer, deps)
	registerLedgerTools(mcpServer, deps)
	registerWorldTools(mcpServer, deps)
	registerResources(mcpServer, deps)

	return &Server{mcpServer: mcpServer}, nil
}

// Run creates and serves an MCP server until the context ends.
func Run(ctx context.Context, cfg Config, deps Deps) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		server, err := New(deps)
		if err != nil {
			return err
		}
		return server.serveWithTransport(ctx, &mcp.StdioTransport{})
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
