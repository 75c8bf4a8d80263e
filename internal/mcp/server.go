package mcpserver

import (
	"encoding/json"
	"fmt"
	"log"

	"indesign-mcp/internal/domain"
	"indesign-mcp/internal/service"
	"indesign-mcp/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for InDesign automation. It exposes layout
// tools, resources, and prompts so AI agents can drive documents
// through the session-aware positioning engine.
type Server struct {
	mcp    *server.MCPServer
	store  *session.Store
	engine *session.Engine

	// Services (injected from main)
	docs    *service.DocumentService
	content *service.ContentService
	styles  *service.StyleService
	exports *service.ExportService
	merge   *service.MergeService
	scripts *service.ScriptService
	runs    domain.ScriptRunStore
}

// Deps holds all dependencies passed to the MCP server.
type Deps struct {
	Store     *session.Store
	Engine    *session.Engine
	Documents *service.DocumentService
	Content   *service.ContentService
	Styles    *service.StyleService
	Exports   *service.ExportService
	Merge     *service.MergeService
	Scripts   *service.ScriptService
	Runs      domain.ScriptRunStore // nil disables the history resource
}

// New creates and configures an MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		store:   deps.Store,
		engine:  deps.Engine,
		docs:    deps.Documents,
		content: deps.Content,
		styles:  deps.Styles,
		exports: deps.Exports,
		merge:   deps.Merge,
		scripts: deps.Scripts,
		runs:    deps.Runs,
	}

	s.mcp = server.NewMCPServer(
		"indesign-mcp",
		"2.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerSessionTools()
	s.registerDocumentTools()
	s.registerContentTools()
	s.registerStyleTools()
	s.registerExportTools()
	s.registerMergeTools()
	s.registerScriptTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

func getInt(args map[string]any, key string, fallback int) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return fallback
}

func getBool(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// optFloat returns a pointer to the value when the argument is present,
// nil when it is omitted. The engine treats those differently.
func optFloat(args map[string]any, key string) *float64 {
	if v, ok := args[key].(float64); ok {
		return &v
	}
	return nil
}

func boolPtr(v bool) *bool { return &v }
