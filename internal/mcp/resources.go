package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerResources() {
	// ── indesign://session ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"indesign://session",
		"Layout Session",
		mcp.WithMIMEType("application/json"),
	), s.handleSessionResource)

	// ── indesign://scripts ─────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"indesign://scripts",
		"User Script Library",
		mcp.WithMIMEType("application/json"),
	), s.handleScriptsResource)

	// ── indesign://history ─────────────────────────────
	if s.runs != nil {
		s.mcp.AddResource(mcp.NewResource(
			"indesign://history",
			"Script Run History",
			mcp.WithMIMEType("application/json"),
		), s.handleHistoryResource)
	}
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleSessionResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents("indesign://session", s.store.Summary())
}

func (s *Server) handleScriptsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents("indesign://scripts", s.scripts.ListScripts())
}

func (s *Server) handleHistoryResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	runs, err := s.runs.ListRuns(20)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	// Scripts can be long; the history resource only carries metadata.
	type runSummary struct {
		ID         string `json:"id"`
		Tool       string `json:"tool"`
		Success    bool   `json:"success"`
		DurationMs int    `json:"durationMs"`
		CreatedAt  string `json:"createdAt"`
	}
	summaries := make([]runSummary, 0, len(runs))
	for _, r := range runs {
		summaries = append(summaries, runSummary{
			ID:         r.ID,
			Tool:       r.Tool,
			Success:    r.Success,
			DurationMs: r.DurationMs,
			CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	return jsonContents("indesign://history", summaries)
}
