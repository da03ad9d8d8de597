package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/artomo/api/recommend"
	"github.com/papercomputeco/artomo/pkg/report"
)

var (
	recommendToolName    = "recommend_exhibitions"
	recommendDescription = "Recommend current art exhibitions for a visitor. Takes the visitor's knowledge level, available time, mood, preferred area and reason for visiting, and returns up to ten exhibitions with a written report."

	reportToolName    = "exhibition_report"
	reportDescription = "Write a report about one exhibition, optionally tailored to the visitor's knowledge level, time, mood and reason for visiting."
)

// RecommendInput represents the input arguments for the recommend_exhibitions tool.
type RecommendInput struct {
	Level    string            `json:"level,omitempty" jsonschema:"art knowledge level, e.g. beginner or expert"`
	Duration string            `json:"duration" jsonschema:"time available starting with a number, e.g. 2 hours"`
	Mood     string            `json:"mood,omitempty" jsonschema:"current mood"`
	Area     string            `json:"area,omitempty" jsonschema:"preferred area, e.g. Ginza"`
	Reason   string            `json:"reason,omitempty" jsonschema:"reason for visiting"`
	Filters  map[string]string `json:"filters,omitempty" jsonschema:"exact match filters on exhibition fields"`
}

func (in RecommendInput) facets() map[string]string {
	out := map[string]string{}
	for k, v := range map[string]string{
		"level":    in.Level,
		"duration": in.Duration,
		"mood":     in.Mood,
		"area":     in.Area,
		"reason":   in.Reason,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// ReportInput represents the input arguments for the exhibition_report tool.
type ReportInput struct {
	UID     string            `json:"uid" jsonschema:"the exhibition id"`
	Query   map[string]string `json:"query,omitempty" jsonschema:"visitor facets to tailor the report"`
	Refresh bool              `json:"refresh,omitempty" jsonschema:"regenerate instead of returning the cached report"`
}

// ReportOutput represents the output of the exhibition_report tool.
type ReportOutput struct {
	UID    string `json:"uid"`
	Report string `json:"report"`
}

// handleRecommend processes a recommend_exhibitions request.
func (s *Server) handleRecommend(ctx context.Context, _ *mcp.CallToolRequest, input RecommendInput) (*mcp.CallToolResult, recommend.Output, error) {
	logger := s.config.Logger
	facets := input.facets()

	logger.Debug("MCP recommend request", "facets", facets)

	output, err := s.config.Recommender.Recommend(ctx, facets, input.Filters)
	if err != nil {
		logger.Error("failed to recommend exhibitions", "error", err)
		return toolError(fmt.Sprintf("Failed to recommend exhibitions: %v", err)), recommend.Output{}, nil
	}

	return structured(logger, *output)
}

// handleExhibitionReport processes an exhibition_report request.
func (s *Server) handleExhibitionReport(ctx context.Context, _ *mcp.CallToolRequest, input ReportInput) (*mcp.CallToolResult, ReportOutput, error) {
	logger := s.config.Logger

	id, err := uuid.Parse(input.UID)
	if err != nil {
		return toolError(fmt.Sprintf("Invalid exhibition id %q", input.UID)), ReportOutput{}, nil
	}

	text, err := s.config.Reports.Exhibition(ctx, id, input.Query, input.Refresh)
	switch {
	case errors.Is(err, report.ErrExhibitionNotFound):
		return toolError("Exhibition not found"), ReportOutput{}, nil
	case err != nil:
		logger.Error("failed to write exhibition report", "exhibition_id", id, "error", err)
		return toolError(fmt.Sprintf("Failed to write report: %v", err)), ReportOutput{}, nil
	}

	return structured(logger, ReportOutput{UID: id.String(), Report: text})
}

// structured returns output as structured content, also serialized as
// JSON in a TextContent block for clients that only read text.
func structured[T any](logger *slog.Logger, output T) (*mcp.CallToolResult, T, error) {
	data, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal tool output", "error", err)
		var zero T
		return toolError(fmt.Sprintf("Failed to serialize results: %v", err)), zero, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, output, nil
}
