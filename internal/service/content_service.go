package service

import (
	"context"
	"fmt"

	"indesign-mcp/internal/domain"
	"indesign-mcp/internal/indesign"
	"indesign-mcp/internal/session"
)

// ─────────────────────────────────────────────────────────────
// Content Service — page items driven through the engine
// ─────────────────────────────────────────────────────────────

// ContentService creates page items. Every geometry request is resolved
// by the positioning engine first, so items land inside the safe area
// even when the caller gives partial or no coordinates.
type ContentService struct {
	disp   *Dispatcher
	store  *session.Store
	engine *session.Engine
}

// NewContentService creates a ContentService.
func NewContentService(disp *Dispatcher, store *session.Store, engine *session.Engine) *ContentService {
	return &ContentService{disp: disp, store: store, engine: engine}
}

// TextFrameInput describes a text frame to create. FontSize of 0 keeps
// the document default.
type TextFrameInput struct {
	Text     string
	Position domain.PositionRequest
	FontSize float64
}

// CreateTextFrame adds a text frame on the active page.
func (s *ContentService) CreateTextFrame(ctx context.Context, input TextFrameInput) (session.CreatedItem, error) {
	pos := s.engine.CalculatedPositioning(input.Position)

	var b indesign.Builder
	millimeterPreamble(&b)
	b.Line("var page = app.activeWindow.activePage;")
	b.Line("var frame = page.textFrames.add();")
	b.Linef("frame.geometricBounds = %s;", indesign.Bounds(pos.X, pos.Y, pos.Width, pos.Height))
	b.Linef("frame.contents = %s;", indesign.Quote(input.Text))
	if input.FontSize > 0 {
		b.Linef("frame.texts[0].pointSize = %s;", indesign.Num(input.FontSize))
	}
	b.Line(`"" + frame.id;`)

	out, err := s.disp.Run(ctx, "create_text_frame", b.String())
	if err != nil {
		return nil, fmt.Errorf("create text frame: %w", err)
	}
	return s.recordItem("textFrame", out, pos)
}

// ShapeInput describes a rectangle or ellipse. FillColor and
// StrokeColor name swatches in the active document; empty values leave
// the item unfilled.
type ShapeInput struct {
	Position     domain.PositionRequest
	FillColor    string
	StrokeColor  string
	StrokeWeight float64
}

// CreateRectangle adds a rectangle on the active page.
func (s *ContentService) CreateRectangle(ctx context.Context, input ShapeInput) (session.CreatedItem, error) {
	return s.createShape(ctx, "rectangle", "page.rectangles.add()", input)
}

// CreateEllipse adds an ellipse on the active page.
func (s *ContentService) CreateEllipse(ctx context.Context, input ShapeInput) (session.CreatedItem, error) {
	return s.createShape(ctx, "ellipse", "page.ovals.add()", input)
}

func (s *ContentService) createShape(ctx context.Context, kind, addExpr string, input ShapeInput) (session.CreatedItem, error) {
	pos := s.engine.CalculatedPositioning(input.Position)

	var b indesign.Builder
	millimeterPreamble(&b)
	b.Line("var doc = app.activeDocument;")
	b.Line("var page = app.activeWindow.activePage;")
	b.Linef("var item = %s;", addExpr)
	b.Linef("item.geometricBounds = %s;", indesign.Bounds(pos.X, pos.Y, pos.Width, pos.Height))
	if input.FillColor != "" {
		b.Linef("item.fillColor = doc.swatches.itemByName(%s);", indesign.Quote(input.FillColor))
	}
	if input.StrokeColor != "" {
		b.Linef("item.strokeColor = doc.swatches.itemByName(%s);", indesign.Quote(input.StrokeColor))
		if input.StrokeWeight > 0 {
			b.Linef("item.strokeWeight = %s;", indesign.Num(input.StrokeWeight))
		}
	}
	b.Line(`"" + item.id;`)

	out, err := s.disp.Run(ctx, "create_"+kind, b.String())
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return s.recordItem(kind, out, pos)
}

// ImageInput describes an image placement. Fit is one of "proportional"
// (default), "fill", or "content" (frame hugs the image).
type ImageInput struct {
	Path     string
	Position domain.PositionRequest
	Fit      string
}

// PlaceImage places an image file into a new frame on the active page.
func (s *ContentService) PlaceImage(ctx context.Context, input ImageInput) (session.CreatedItem, error) {
	if input.Path == "" {
		return nil, fmt.Errorf("image path is required")
	}
	pos := s.engine.CalculatedPositioning(input.Position)

	fit := "FitOptions.PROPORTIONALLY"
	switch input.Fit {
	case "", "proportional":
	case "fill":
		fit = "FitOptions.FILL_PROPORTIONALLY"
	case "content":
		fit = "FitOptions.FRAME_TO_CONTENT"
	default:
		return nil, fmt.Errorf("unknown fit mode %q", input.Fit)
	}

	var b indesign.Builder
	millimeterPreamble(&b)
	b.Line("var page = app.activeWindow.activePage;")
	b.Line("var item = page.rectangles.add();")
	b.Linef("item.geometricBounds = %s;", indesign.Bounds(pos.X, pos.Y, pos.Width, pos.Height))
	b.Linef("item.place(File(%s));", indesign.Quote(input.Path))
	b.Linef("item.fit(%s);", fit)
	b.Line(`"" + item.id;`)

	out, err := s.disp.Run(ctx, "place_image", b.String())
	if err != nil {
		return nil, fmt.Errorf("place image: %w", err)
	}
	item, err := s.recordItem("image", out, pos)
	if err != nil {
		return nil, err
	}
	item["path"] = input.Path
	return item, nil
}

// recordItem builds the created-item record and stores it as the
// session's last created item.
func (s *ContentService) recordItem(kind, out string, pos domain.ResolvedPosition) (session.CreatedItem, error) {
	fields, err := indesign.Record(out, 1)
	if err != nil {
		return nil, fmt.Errorf("parse item id: %w", err)
	}
	item := session.CreatedItem{
		"id":     fields[0],
		"type":   kind,
		"x":      pos.X,
		"y":      pos.Y,
		"width":  pos.Width,
		"height": pos.Height,
	}
	if pos.Note != "" {
		item["note"] = pos.Note
	}
	if err := s.store.SetLastCreatedItem(item); err != nil {
		return nil, err
	}
	return s.store.LastCreatedItem(), nil
}
