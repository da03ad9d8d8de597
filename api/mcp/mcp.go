// Package mcp provides an MCP (Model Context Protocol) server exposing
// exhibition recommendations and reports as tools.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/artomo/api/recommend"
	"github.com/papercomputeco/artomo/pkg/utils"
)

// Recommender produces the shortlist and report for a set of facets.
type Recommender interface {
	Recommend(ctx context.Context, facets, filters map[string]string) (*recommend.Output, error)
}

// Reporter serves single exhibition reports.
type Reporter interface {
	Exhibition(ctx context.Context, id uuid.UUID, query map[string]string, refresh bool) (string, error)
}

type Config struct {
	// Recommender answers the recommend_exhibitions tool
	Recommender Recommender

	// Reports answers the exhibition_report tool (optional)
	Reports Reporter

	// Noop for empty MCP server
	Noop bool

	// Logger is the configured slog logger
	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the recommendation tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "artomo",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if c.Noop {
		// MCP capabilities are disabled, serve no tools
		s.mcpServer = mcpServer
		s.handler = newHandler(mcpServer)
		return s, nil
	}

	if c.Recommender == nil {
		return nil, errors.New("recommender is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        recommendToolName,
		Description: recommendDescription,
	}, s.handleRecommend)

	if c.Reports != nil {
		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        reportToolName,
			Description: reportDescription,
		}, s.handleExhibitionReport)
	}

	s.mcpServer = mcpServer
	s.handler = newHandler(mcpServer)

	return s, nil
}

// newHandler creates a streamable HTTP handler for stateless operations.
func newHandler(server *mcp.Server) *mcp.StreamableHTTPHandler {
	return mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return server
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// toolError wraps a failure message the way MCP tools report errors.
func toolError(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
