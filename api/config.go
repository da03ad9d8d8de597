// Package api provides the HTTP API server for exhibition recommendations
// and reports.
package api

import (
	"net/http"

	"github.com/papercomputeco/artomo/api/recommend"
	"github.com/papercomputeco/artomo/pkg/vector"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// Recommender answers POST /v1/recommend.
	Recommender *recommend.Recommender

	// Reports answers POST /v1/exhibition_reports.
	Reports Reporter

	// VectorDriver, when set, gets its exhibition payload indices created
	// before the server starts listening.
	VectorDriver vector.Driver

	// MCPHandler, when set, is mounted at /mcp.
	MCPHandler http.Handler
}
