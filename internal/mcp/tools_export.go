package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerExportTools() {
	// ── export_pdf ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_pdf",
		mcp.WithDescription("Export the active document to PDF"),
		mcp.WithString("path", mcp.Description("Output path for the .pdf file"), mcp.Required()),
		mcp.WithString("preset", mcp.Description("PDF export preset name (optional)")),
	), s.handleExportPDF)

	// ── export_png ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_png",
		mcp.WithDescription("Export one page of the active document as PNG"),
		mcp.WithString("path", mcp.Description("Output path for the .png file"), mcp.Required()),
		mcp.WithNumber("page", mcp.Description("1-based page number (0 or omitted exports the current page)")),
		mcp.WithNumber("resolution", mcp.Description("Export resolution in ppi (default 300)")),
	), s.handleExportPNG)
}

func (s *Server) handleExportPDF(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if err := s.exports.ExportPDF(ctx, path, req.GetString("preset", "")); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Exported PDF to %s", path)), nil
}

func (s *Server) handleExportPNG(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	path := req.GetString("path", "")
	err := s.exports.ExportPNG(ctx, path, getInt(args, "page", 0), getFloat(args, "resolution", 0))
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Exported PNG to %s", path)), nil
}
