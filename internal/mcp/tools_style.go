package mcpserver

import (
	"context"
	"fmt"

	"indesign-mcp/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerStyleTools() {
	// ── list_swatches ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_swatches",
		mcp.WithDescription("List the swatch names of the active document"),
	), s.handleListSwatches)

	// ── create_color_swatch ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_color_swatch",
		mcp.WithDescription("Create a CMYK process color swatch in the active document"),
		mcp.WithString("name", mcp.Description("Swatch name"), mcp.Required()),
		mcp.WithNumber("cyan", mcp.Description("Cyan percentage 0-100")),
		mcp.WithNumber("magenta", mcp.Description("Magenta percentage 0-100")),
		mcp.WithNumber("yellow", mcp.Description("Yellow percentage 0-100")),
		mcp.WithNumber("black", mcp.Description("Black percentage 0-100")),
	), s.handleCreateColorSwatch)

	// ── list_paragraph_styles ──────────────────────────
	s.mcp.AddTool(mcp.NewTool("list_paragraph_styles",
		mcp.WithDescription("List the paragraph style names of the active document"),
	), s.handleListParagraphStyles)

	// ── create_paragraph_style ─────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_paragraph_style",
		mcp.WithDescription("Create a paragraph style in the active document"),
		mcp.WithString("name", mcp.Description("Style name"), mcp.Required()),
		mcp.WithString("fontFamily", mcp.Description("Font family (optional)")),
		mcp.WithNumber("pointSize", mcp.Description("Point size (optional)")),
		mcp.WithNumber("leading", mcp.Description("Leading in pt (optional)")),
		mcp.WithString("alignment", mcp.Description("left, center, right, or justify (optional)")),
	), s.handleCreateParagraphStyle)

	// ── apply_paragraph_style ──────────────────────────
	s.mcp.AddTool(mcp.NewTool("apply_paragraph_style",
		mcp.WithDescription("Apply a paragraph style to a text frame by item id"),
		mcp.WithString("itemId", mcp.Description("Page item id (from create_text_frame)"), mcp.Required()),
		mcp.WithString("style", mcp.Description("Paragraph style name"), mcp.Required()),
	), s.handleApplyParagraphStyle)
}

func (s *Server) handleListSwatches(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.styles.ListSwatches(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(names)
}

func (s *Server) handleCreateColorSwatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	input := service.SwatchInput{
		Name:    req.GetString("name", ""),
		Cyan:    getFloat(args, "cyan", 0),
		Magenta: getFloat(args, "magenta", 0),
		Yellow:  getFloat(args, "yellow", 0),
		Black:   getFloat(args, "black", 0),
	}
	if err := s.styles.CreateSwatch(ctx, input); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Swatch %q created", input.Name)), nil
}

func (s *Server) handleListParagraphStyles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.styles.ListParagraphStyles(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(names)
}

func (s *Server) handleCreateParagraphStyle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	input := service.ParagraphStyleInput{
		Name:       req.GetString("name", ""),
		FontFamily: req.GetString("fontFamily", ""),
		PointSize:  getFloat(args, "pointSize", 0),
		Leading:    getFloat(args, "leading", 0),
		Alignment:  req.GetString("alignment", ""),
	}
	if err := s.styles.CreateParagraphStyle(ctx, input); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Paragraph style %q created", input.Name)), nil
}

func (s *Server) handleApplyParagraphStyle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID := req.GetString("itemId", "")
	style := req.GetString("style", "")
	if err := s.styles.ApplyParagraphStyle(ctx, itemID, style); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Style %q applied to item %s", style, itemID)), nil
}
