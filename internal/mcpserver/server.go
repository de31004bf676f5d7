// Package mcpserver exposes title analysis and page inspection as Model
// Context Protocol tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/FranksOps/titlecraft/internal/pipeline"
	"github.com/FranksOps/titlecraft/internal/scraper"
)

// Version is reported to MCP clients and by the CLI. Overridden at build
// time with -ldflags.
var Version = "0.1.0"

// ErrMissingAnalyzer is returned when no analyzer is provided.
var ErrMissingAnalyzer = errors.New("mcpserver: analyzer is required")

// Analyzer runs one title analysis and renders it, never failing.
type Analyzer interface {
	Run(ctx context.Context, req pipeline.Request) (text string, isError bool)
}

// Inspector snapshots pages.
type Inspector interface {
	InspectAll(ctx context.Context, urls []string) []scraper.Snapshot
}

// Ports are the services behind the tools. Inspector is optional; without it
// inspect_page is not registered.
type Ports struct {
	Analyzer  Analyzer
	Inspector Inspector
}

// Server is the titlecraft MCP server.
type Server struct {
	ports  Ports
	server *mcp.Server
	logger zerolog.Logger
}

// NewServer creates a server and registers its tools.
func NewServer(ports Ports, logger zerolog.Logger) (*Server, error) {
	if ports.Analyzer == nil {
		return nil, ErrMissingAnalyzer
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "titlecraft",
			Version: Version,
		}, nil),
		logger: logger.With().Str("component", "mcp").Logger(),
	}
	s.registerTools()
	return s, nil
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Str("transport", "stdio").Msg("MCP server starting")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns a stateless streamable HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}

// RunHTTP serves streamable HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("MCP HTTP shutdown")
		}
	}()

	s.logger.Info().Str("transport", "http").Str("addr", addr).Msg("MCP server starting")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve MCP over HTTP: %w", err)
	}
	return nil
}
