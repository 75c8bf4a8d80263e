package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerScriptTools() {
	// ── execute_script ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("execute_script",
		mcp.WithDescription("Run raw ExtendScript in InDesign and return its result. The last evaluated expression is the result."),
		mcp.WithString("script", mcp.Description("ExtendScript source"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleExecuteScript)

	// ── list_scripts ───────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_scripts",
		mcp.WithDescription("List the scripts available in the user script library"),
	), s.handleListScripts)

	// ── run_script ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("run_script",
		mcp.WithDescription("Run a named script from the user script library"),
		mcp.WithString("name", mcp.Description("Script name (from list_scripts)"), mcp.Required()),
	), s.handleRunScript)
}

func (s *Server) handleExecuteScript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.scripts.RunRaw(ctx, req.GetString("script", ""))
	if err != nil {
		return nil, err
	}
	if out == "" {
		return textResult("(no result)"), nil
	}
	return textResult(out), nil
}

func (s *Server) handleListScripts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.scripts.ListScripts())
}

func (s *Server) handleRunScript(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	out, err := s.scripts.RunLibraryScript(ctx, name)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return textResult("(no result)"), nil
	}
	return textResult(out), nil
}
