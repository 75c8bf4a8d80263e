package service

import (
	"context"
	"fmt"
	"strings"

	"indesign-mcp/internal/indesign"
)

// ─────────────────────────────────────────────────────────────
// Style Service — swatches and paragraph styles
// ─────────────────────────────────────────────────────────────

// StyleService manages document swatches and paragraph styles.
type StyleService struct {
	disp *Dispatcher
}

// NewStyleService creates a StyleService.
func NewStyleService(disp *Dispatcher) *StyleService {
	return &StyleService{disp: disp}
}

// ListSwatches returns the swatch names of the active document.
func (s *StyleService) ListSwatches(ctx context.Context) ([]string, error) {
	var b indesign.Builder
	b.Line("var doc = app.activeDocument;")
	b.Line("var names = [];")
	b.Line("for (var i = 0; i < doc.swatches.length; i++) { names.push(doc.swatches[i].name); }")
	b.Line(`names.join("|");`)

	out, err := s.disp.Run(ctx, "list_swatches", b.String())
	if err != nil {
		return nil, fmt.Errorf("list swatches: %w", err)
	}
	return splitList(out), nil
}

// SwatchInput describes a CMYK swatch. Channel values are percentages
// in [0, 100].
type SwatchInput struct {
	Name    string
	Cyan    float64
	Magenta float64
	Yellow  float64
	Black   float64
}

// CreateSwatch creates a CMYK color swatch in the active document.
func (s *StyleService) CreateSwatch(ctx context.Context, input SwatchInput) error {
	if input.Name == "" {
		return fmt.Errorf("swatch name is required")
	}
	for _, v := range []float64{input.Cyan, input.Magenta, input.Yellow, input.Black} {
		if v < 0 || v > 100 {
			return fmt.Errorf("cmyk values must be in [0, 100]")
		}
	}

	var b indesign.Builder
	b.Line("var doc = app.activeDocument;")
	b.Linef("var color = doc.colors.add({name: %s, model: ColorModel.PROCESS, space: ColorSpace.CMYK, colorValue: [%s, %s, %s, %s]});",
		indesign.Quote(input.Name),
		indesign.Num(input.Cyan), indesign.Num(input.Magenta),
		indesign.Num(input.Yellow), indesign.Num(input.Black))
	b.Line("color.name;")

	if _, err := s.disp.Run(ctx, "create_swatch", b.String()); err != nil {
		return fmt.Errorf("create swatch %q: %w", input.Name, err)
	}
	return nil
}

// ListParagraphStyles returns the paragraph style names of the active
// document.
func (s *StyleService) ListParagraphStyles(ctx context.Context) ([]string, error) {
	var b indesign.Builder
	b.Line("var doc = app.activeDocument;")
	b.Line("var names = [];")
	b.Line("for (var i = 0; i < doc.paragraphStyles.length; i++) { names.push(doc.paragraphStyles[i].name); }")
	b.Line(`names.join("|");`)

	out, err := s.disp.Run(ctx, "list_paragraph_styles", b.String())
	if err != nil {
		return nil, fmt.Errorf("list paragraph styles: %w", err)
	}
	return splitList(out), nil
}

// ParagraphStyleInput describes a paragraph style. Zero values keep the
// document defaults; an empty FontFamily keeps the default font.
type ParagraphStyleInput struct {
	Name       string
	FontFamily string
	PointSize  float64
	Leading    float64
	Alignment  string // left, center, right, justify
}

// CreateParagraphStyle creates a paragraph style in the active document.
func (s *StyleService) CreateParagraphStyle(ctx context.Context, input ParagraphStyleInput) error {
	if input.Name == "" {
		return fmt.Errorf("paragraph style name is required")
	}
	justification := ""
	switch input.Alignment {
	case "":
	case "left":
		justification = "Justification.LEFT_ALIGN"
	case "center":
		justification = "Justification.CENTER_ALIGN"
	case "right":
		justification = "Justification.RIGHT_ALIGN"
	case "justify":
		justification = "Justification.FULLY_JUSTIFIED"
	default:
		return fmt.Errorf("unknown alignment %q", input.Alignment)
	}

	var b indesign.Builder
	b.Line("var doc = app.activeDocument;")
	b.Linef("var style = doc.paragraphStyles.add({name: %s});", indesign.Quote(input.Name))
	if input.FontFamily != "" {
		b.Linef("style.appliedFont = %s;", indesign.Quote(input.FontFamily))
	}
	if input.PointSize > 0 {
		b.Linef("style.pointSize = %s;", indesign.Num(input.PointSize))
	}
	if input.Leading > 0 {
		b.Linef("style.leading = %s;", indesign.Num(input.Leading))
	}
	if justification != "" {
		b.Linef("style.justification = %s;", justification)
	}
	b.Line("style.name;")

	if _, err := s.disp.Run(ctx, "create_paragraph_style", b.String()); err != nil {
		return fmt.Errorf("create paragraph style %q: %w", input.Name, err)
	}
	return nil
}

// ApplyParagraphStyle applies a named paragraph style to a text frame
// by item id.
func (s *StyleService) ApplyParagraphStyle(ctx context.Context, itemID, styleName string) error {
	if itemID == "" || styleName == "" {
		return fmt.Errorf("item id and style name are required")
	}

	var b indesign.Builder
	b.Line("var doc = app.activeDocument;")
	b.Linef("var frame = doc.pageItems.itemByID(%s);", itemID)
	b.Linef("frame.texts[0].appliedParagraphStyle = doc.paragraphStyles.itemByName(%s);", indesign.Quote(styleName))
	b.Line(`"applied";`)

	if _, err := s.disp.Run(ctx, "apply_paragraph_style", b.String()); err != nil {
		return fmt.Errorf("apply paragraph style %q: %w", styleName, err)
	}
	return nil
}

func splitList(out string) []string {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}
	return strings.Split(out, "|")
}
