package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerDocumentTools() {
	// ── create_document ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new InDesign document and track it in the session"),
		mcp.WithNumber("width", mcp.Description("Page width in mm (default 210, A4)")),
		mcp.WithNumber("height", mcp.Description("Page height in mm (default 297, A4)")),
		mcp.WithNumber("pages", mcp.Description("Number of pages (default 1)")),
		mcp.WithBoolean("facingPages", mcp.Description("Use facing pages (default false)")),
	), s.handleCreateDocument)

	// ── open_document ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("open_document",
		mcp.WithDescription("Open an InDesign document from disk and track it in the session"),
		mcp.WithString("path", mcp.Description("Absolute path to the .indd file"), mcp.Required()),
	), s.handleOpenDocument)

	// ── save_document ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("save_document",
		mcp.WithDescription("Save the active document, optionally to a new path"),
		mcp.WithString("path", mcp.Description("Target path (optional, saves in place when omitted)")),
	), s.handleSaveDocument)

	// ── close_document ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("close_document",
		mcp.WithDescription("Close the active document and clear the session"),
		mcp.WithBoolean("save", mcp.Description("Save before closing (default false)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleCloseDocument)

	// ── document_info ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("document_info",
		mcp.WithDescription("Query the active document and refresh the session view of it"),
	), s.handleDocumentInfo)

	// ── add_page ───────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("add_page",
		mcp.WithDescription("Append a page to the active document and move to it"),
	), s.handleAddPage)

	// ── go_to_page ─────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("go_to_page",
		mcp.WithDescription("Activate a page by 1-based number"),
		mcp.WithNumber("page", mcp.Description("Page number"), mcp.Required()),
	), s.handleGoToPage)
}

func (s *Server) handleCreateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	doc, err := s.docs.Create(ctx,
		getFloat(args, "width", 210),
		getFloat(args, "height", 297),
		getInt(args, "pages", 1),
		getBool(args, "facingPages", false),
	)
	if err != nil {
		return nil, err
	}
	return jsonResult(doc)
}

func (s *Server) handleOpenDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	doc, err := s.docs.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return jsonResult(doc)
}

func (s *Server) handleSaveDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.docs.Save(ctx, req.GetString("path", "")); err != nil {
		return nil, err
	}
	return textResult("Document saved"), nil
}

func (s *Server) handleCloseDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.docs.Close(ctx, getBool(req.GetArguments(), "save", false)); err != nil {
		return nil, err
	}
	return textResult("Document closed, session cleared"), nil
}

func (s *Server) handleDocumentInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.docs.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(doc)
}

func (s *Server) handleAddPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, err := s.docs.AddPage(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(page)
}

func (s *Server) handleGoToPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	number, ok := args["page"].(float64)
	if !ok {
		return nil, fmt.Errorf("page is required")
	}
	page, err := s.docs.GoToPage(ctx, int(number))
	if err != nil {
		return nil, err
	}
	return jsonResult(page)
}
