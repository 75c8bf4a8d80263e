package mcpserver

import (
	"context"
	"fmt"

	"indesign-mcp/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerContentTools() {
	// ── create_text_frame ──────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_text_frame",
		mcp.WithDescription("Create a text frame on the active page. Position is resolved by the engine; omitted coordinates land in the safe area."),
		mcp.WithString("text", mcp.Description("Frame contents"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("X position in mm (optional)")),
		mcp.WithNumber("y", mcp.Description("Y position in mm (optional)")),
		mcp.WithNumber("width", mcp.Description("Width in mm (optional)")),
		mcp.WithNumber("height", mcp.Description("Height in mm (optional)")),
		mcp.WithNumber("margin", mcp.Description("Safe-area margin in mm (optional)")),
		mcp.WithNumber("fontSize", mcp.Description("Point size (optional)")),
	), s.handleCreateTextFrame)

	// ── create_rectangle ───────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_rectangle",
		mcp.WithDescription("Create a rectangle on the active page"),
		mcp.WithNumber("x", mcp.Description("X position in mm (optional)")),
		mcp.WithNumber("y", mcp.Description("Y position in mm (optional)")),
		mcp.WithNumber("width", mcp.Description("Width in mm (optional)")),
		mcp.WithNumber("height", mcp.Description("Height in mm (optional)")),
		mcp.WithString("fillColor", mcp.Description("Swatch name for the fill (optional)")),
		mcp.WithString("strokeColor", mcp.Description("Swatch name for the stroke (optional)")),
		mcp.WithNumber("strokeWeight", mcp.Description("Stroke weight in pt (optional)")),
	), s.handleCreateRectangle)

	// ── create_ellipse ─────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("create_ellipse",
		mcp.WithDescription("Create an ellipse on the active page"),
		mcp.WithNumber("x", mcp.Description("X position in mm (optional)")),
		mcp.WithNumber("y", mcp.Description("Y position in mm (optional)")),
		mcp.WithNumber("width", mcp.Description("Width in mm (optional)")),
		mcp.WithNumber("height", mcp.Description("Height in mm (optional)")),
		mcp.WithString("fillColor", mcp.Description("Swatch name for the fill (optional)")),
		mcp.WithString("strokeColor", mcp.Description("Swatch name for the stroke (optional)")),
		mcp.WithNumber("strokeWeight", mcp.Description("Stroke weight in pt (optional)")),
	), s.handleCreateEllipse)

	// ── place_image ────────────────────────────────────
	s.mcp.AddTool(mcp.NewTool("place_image",
		mcp.WithDescription("Place an image file into a new frame on the active page"),
		mcp.WithString("path", mcp.Description("Absolute path to the image file"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("X position in mm (optional)")),
		mcp.WithNumber("y", mcp.Description("Y position in mm (optional)")),
		mcp.WithNumber("width", mcp.Description("Width in mm (optional)")),
		mcp.WithNumber("height", mcp.Description("Height in mm (optional)")),
		mcp.WithString("fit", mcp.Description("Fit mode: proportional (default), fill, content")),
	), s.handlePlaceImage)
}

func (s *Server) handleCreateTextFrame(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	text := req.GetString("text", "")
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	item, err := s.content.CreateTextFrame(ctx, service.TextFrameInput{
		Text:     text,
		Position: positionRequestFromArgs(args),
		FontSize: getFloat(args, "fontSize", 0),
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(item)
}

func (s *Server) handleCreateRectangle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	item, err := s.content.CreateRectangle(ctx, shapeInputFromArgs(req))
	if err != nil {
		return nil, err
	}
	return jsonResult(item)
}

func (s *Server) handleCreateEllipse(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	item, err := s.content.CreateEllipse(ctx, shapeInputFromArgs(req))
	if err != nil {
		return nil, err
	}
	return jsonResult(item)
}

func (s *Server) handlePlaceImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}
	item, err := s.content.PlaceImage(ctx, service.ImageInput{
		Path:     path,
		Position: positionRequestFromArgs(req.GetArguments()),
		Fit:      req.GetString("fit", ""),
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(item)
}

func shapeInputFromArgs(req mcp.CallToolRequest) service.ShapeInput {
	args := req.GetArguments()
	return service.ShapeInput{
		Position:     positionRequestFromArgs(args),
		FillColor:    req.GetString("fillColor", ""),
		StrokeColor:  req.GetString("strokeColor", ""),
		StrokeWeight: getFloat(args, "strokeWeight", 0),
	}
}
