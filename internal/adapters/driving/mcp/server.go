package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docsage/docsage/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// readHeaderTimeout guards the HTTP transport against slow clients;
// shutdownTimeout bounds the drain on context cancellation.
const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server exposes the retrieval engine over the Model Context Protocol.
// Tools and resources are registered according to which ports are
// wired, so an offline configuration still serves retrieval.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "docsage",
			Version: Version,
		}, nil),
	}
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("MCP server starting on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over the streamable HTTP transport on addr until
// the context is cancelled, then drains in-flight requests.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr: addr,
		Handler: mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return s.server
		}, nil),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(drainCtx); err != nil {
			logger.Warn("MCP server shutdown: %v", err)
		}
	}()

	logger.Debug("MCP server starting on %s", addr)
	if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
