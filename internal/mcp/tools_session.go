package mcpserver

import (
	"context"
	"fmt"
	"math"
	"strings"

	"indesign-mcp/internal/domain"
	"indesign-mcp/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSessionTools() {
	// ── calculate_position ─────────────────────────────
	s.mcp.AddTool(mcp.NewTool("calculate_position",
		mcp.WithDescription("Resolve a partial rectangle into a concrete page-safe position. Omitted fields are filled from the safe area; out-of-bounds requests are corrected."),
		mcp.WithNumber("x", mcp.Description("X position in mm (optional, defaults to the safe-area margin)")),
		mcp.WithNumber("y", mcp.Description("Y position in mm (optional)")),
		mcp.WithNumber("width", mcp.Description("Width in mm (optional, defaults to 100)")),
		mcp.WithNumber("height", mcp.Description("Height in mm (optional, defaults to 50)")),
		mcp.WithNumber("margin", mcp.Description("Safe-area margin in mm (optional, defaults to 20)")),
	), s.handleCalculatePosition)

	// ── validate_position ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("validate_position",
		mcp.WithDescription("Check whether a rectangle fits inside the page bounds. Returns a suggested correction for the first violated edge."),
		mcp.WithNumber("x", mcp.Description("X position in mm"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Y position in mm"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Width in mm"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("Height in mm"), mcp.Required()),
	), s.handleValidatePosition)

	// ── find_optimal_position ──────────────────────────
	s.mcp.AddTool(mcp.NewTool("find_optimal_position",
		mcp.WithDescription("Compute the position for an item of the given size at a named page anchor"),
		mcp.WithNumber("width", mcp.Description("Item width in mm"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("Item height in mm"), mcp.Required()),
		mcp.WithString("align",
			mcp.Description("Anchor: top-left, top-center, top-right, center-left, center, center-right, bottom-left, bottom-center, bottom-right"),
		),
		mcp.WithNumber("margin", mcp.Description("Margin in mm (optional)")),
	), s.handleFindOptimalPosition)

	// ── get_available_space ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_available_space",
		mcp.WithDescription("Report the room remaining to the right of and below a point on the current page"),
		mcp.WithNumber("x", mcp.Description("X position in mm"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Y position in mm"), mcp.Required()),
	), s.handleGetAvailableSpace)

	// ── get_page_bounds ────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_page_bounds",
		mcp.WithDescription("Return the current page's safe area, absolute bounds, and center point"),
		mcp.WithNumber("margin", mcp.Description("Safe-area margin in mm (optional)")),
	), s.handleGetPageBounds)

	// ── set_page_dimensions ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("set_page_dimensions",
		mcp.WithDescription("Record the current page size so positioning tools can work without querying InDesign"),
		mcp.WithNumber("width", mcp.Description("Page width in mm"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("Page height in mm"), mcp.Required()),
	), s.handleSetPageDimensions)

	// ── get_session_summary ────────────────────────────
	s.mcp.AddTool(mcp.NewTool("get_session_summary",
		mcp.WithDescription("Summarize the layout session: tracked document, page, last created item, and derived page bounds"),
	), s.handleGetSessionSummary)

	// ── clear_session ──────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("clear_session",
		mcp.WithDescription("Reset the layout session, optionally preserving named keys"),
		mcp.WithString("preserve",
			mcp.Description("Comma-separated keys to keep: pageDimensions, activeDocument, activePage, lastCreatedItem"),
		),
	), s.handleClearSession)

	// ── export_session ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("export_session",
		mcp.WithDescription("Export the session state and configuration as a versioned JSON payload"),
	), s.handleExportSession)

	// ── import_session ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("import_session",
		mcp.WithDescription("Import a previously exported session payload. Unknown config keys are ignored."),
		mcp.WithString("payload", mcp.Description("JSON payload from export_session"), mcp.Required()),
	), s.handleImportSession)
}

func positionRequestFromArgs(args map[string]any) domain.PositionRequest {
	return domain.PositionRequest{
		X:      optFloat(args, "x"),
		Y:      optFloat(args, "y"),
		Width:  optFloat(args, "width"),
		Height: optFloat(args, "height"),
		Margin: optFloat(args, "margin"),
	}
}

func (s *Server) handleCalculatePosition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos := s.engine.CalculatedPositioning(positionRequestFromArgs(req.GetArguments()))
	return jsonResult(pos)
}

func (s *Server) handleValidatePosition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	for _, key := range []string{"x", "y", "width", "height"} {
		if _, ok := args[key].(float64); !ok {
			return nil, fmt.Errorf("%s is required", key)
		}
	}
	result := s.engine.ValidatePositioning(
		getFloat(args, "x", math.NaN()),
		getFloat(args, "y", math.NaN()),
		getFloat(args, "width", math.NaN()),
		getFloat(args, "height", math.NaN()),
	)
	return jsonResult(result)
}

func (s *Server) handleFindOptimalPosition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	width, wok := args["width"].(float64)
	height, hok := args["height"].(float64)
	if !wok || !hok {
		return nil, fmt.Errorf("width and height are required")
	}
	opts := session.PlacementOptions{
		Align:  req.GetString("align", ""),
		Margin: optFloat(args, "margin"),
	}
	pos := s.engine.FindOptimalPosition(width, height, opts)
	return jsonResult(pos)
}

func (s *Server) handleGetAvailableSpace(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	x, xok := args["x"].(float64)
	y, yok := args["y"].(float64)
	if !xok || !yok {
		return nil, fmt.Errorf("x and y are required")
	}
	space := s.engine.AvailableSpace(x, y)
	if space == nil {
		return nil, fmt.Errorf("no page dimensions in session (set_page_dimensions or create a document first)")
	}
	return jsonResult(space)
}

func (s *Server) handleGetPageBounds(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dims := s.store.PageDimensions()
	if dims == nil {
		return nil, fmt.Errorf("no page dimensions in session (set_page_dimensions or create a document first)")
	}
	cfg := s.store.Config()
	margin := getFloat(req.GetArguments(), "margin", cfg.DefaultMargin)
	bounds := session.NewValidator(cfg).ComputeBounds(*dims, margin)
	return jsonResult(bounds)
}

func (s *Server) handleSetPageDimensions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	width, wok := args["width"].(float64)
	height, hok := args["height"].(float64)
	if !wok || !hok {
		return nil, fmt.Errorf("width and height are required")
	}
	if err := s.store.SetPageDimensions(domain.PageDimensions{Width: width, Height: height}); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Page dimensions set to %gx%g mm", width, height)), nil
}

func (s *Server) handleGetSessionSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.Summary())
}

func (s *Server) handleClearSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var preserve []string
	for _, part := range strings.Split(req.GetString("preserve", ""), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			preserve = append(preserve, trimmed)
		}
	}
	s.store.ClearSession(preserve)
	if len(preserve) > 0 {
		return textResult(fmt.Sprintf("Session cleared (preserved: %s)", strings.Join(preserve, ", "))), nil
	}
	return textResult("Session cleared"), nil
}

func (s *Server) handleExportSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := s.store.Export()
	if err != nil {
		return nil, fmt.Errorf("export session: %w", err)
	}
	return textResult(payload), nil
}

func (s *Server) handleImportSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := req.GetString("payload", "")
	if payload == "" {
		return nil, fmt.Errorf("payload is required")
	}
	if !s.store.Import(payload) {
		return textResult("Import rejected: payload is not a valid session export"), nil
	}
	return textResult("Session imported"), nil
}
