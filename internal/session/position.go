package session

import (
	"fmt"
	"math"

	"indesign-mcp/internal/domain"
)

// Fallback rectangle used when no page dimensions are known.
const (
	fallbackX      = 10.0
	fallbackY      = 10.0
	defaultWidth   = 100.0
	defaultHeight  = 50.0
	noPageNote     = "no page dimensions in session; using fallback position"
	noPageWarning  = "no page dimensions in session; bounds not checked"
	unknownAlignFn = "unknown alignment %q; using top-left"
)

// Engine resolves partial position requests into concrete rectangles
// that are safe for the current page. It reads page dimensions from
// the session store and never mutates it.
type Engine struct {
	store *Store
}

// NewEngine creates an Engine bound to a session store.
func NewEngine(store *Store) *Engine {
	return &Engine{store: store}
}

// CalculatedPositioning fills in the missing fields of a position
// request and adjusts the result so it fits the current page. It never
// fails: with no page context it returns a fixed fallback rectangle.
//
// Overflow is resolved asymmetrically: an explicitly supplied
// coordinate is an anchor, so the inferred dimension shrinks to fit;
// an inferred coordinate slides instead, preserving the requested
// dimension.
func (e *Engine) CalculatedPositioning(req domain.PositionRequest) domain.ResolvedPosition {
	cfg := e.store.Config()
	dims := e.store.PageDimensions()

	if dims == nil {
		pos := domain.ResolvedPosition{
			X:      fallbackX,
			Y:      fallbackY,
			Width:  defaultWidth,
			Height: defaultHeight,
			Note:   noPageNote,
		}
		if req.X != nil {
			pos.X = *req.X
		}
		if req.Y != nil {
			pos.Y = *req.Y
		}
		if req.Width != nil {
			pos.Width = *req.Width
		}
		if req.Height != nil {
			pos.Height = *req.Height
		}
		return e.round(pos, cfg.Precision)
	}

	margin := cfg.DefaultMargin
	if req.Margin != nil {
		margin = *req.Margin
	}
	safeWidth := dims.Width - 2*margin
	safeHeight := dims.Height - 2*margin

	x, y := margin, margin
	if req.X != nil {
		x = *req.X
	}
	if req.Y != nil {
		y = *req.Y
	}
	width := math.Min(safeWidth, defaultWidth)
	if req.Width != nil {
		width = *req.Width
	}
	height := math.Min(safeHeight, defaultHeight)
	if req.Height != nil {
		height = *req.Height
	}

	maxX := dims.Width - cfg.MinMargin
	maxY := dims.Height - cfg.MinMargin
	if x+width > maxX {
		if req.X != nil {
			// Explicit x anchors the rectangle; shrink the width to fit.
			width = math.Max(maxX-x, cfg.MinDimension)
		} else {
			// Inferred x can move; slide left and keep the width.
			x = dims.Width - width - cfg.MinMargin
		}
	}
	if y+height > maxY {
		if req.Y != nil {
			height = math.Max(maxY-y, cfg.MinDimension)
		} else {
			y = dims.Height - height - cfg.MinMargin
		}
	}

	width = math.Max(width, cfg.MinDimension)
	height = math.Max(height, cfg.MinDimension)
	x = math.Max(x, cfg.MinMargin)
	y = math.Max(y, cfg.MinMargin)

	// A dimension larger than the page's usable extent cannot be
	// honored by sliding alone; cut it to what fits after the clamps.
	if x+width > maxX {
		width = math.Max(maxX-x, cfg.MinDimension)
	}
	if y+height > maxY {
		height = math.Max(maxY-y, cfg.MinDimension)
	}

	pos := domain.ResolvedPosition{
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
		PageWidth:  dims.Width,
		PageHeight: dims.Height,
		SafeArea: &domain.Area{
			X:      margin,
			Y:      margin,
			Width:  safeWidth,
			Height: safeHeight,
		},
	}
	return e.round(pos, cfg.Precision)
}

// ValidatePositioning is the full check a handler runs on explicit
// caller geometry: input shape first, then page bounds. The input
// check short-circuits; without page dimensions the bounds check is
// skipped with a warning.
func (e *Engine) ValidatePositioning(x, y, width, height float64) domain.ValidationResult {
	v := NewValidator(e.store.Config())
	if r := v.ValidateInputs(x, y, width, height); !r.Valid {
		return r
	}
	dims := e.store.PageDimensions()
	if dims == nil {
		return domain.ValidationResult{Valid: true, Warning: noPageWarning}
	}
	return v.ValidateAgainstPage(x, y, width, height, *dims)
}

// PlacementOptions selects one of the nine named anchor points and an
// optional margin override.
type PlacementOptions struct {
	Align  string   `json:"align"`
	Margin *float64 `json:"margin,omitempty"`
}

// FindOptimalPosition computes the position for a rectangle of the
// given size at a named anchor point against the current page bounds.
// The result is validated before being returned so the caller learns
// immediately whether the placement is out of bounds.
func (e *Engine) FindOptimalPosition(width, height float64, opts PlacementOptions) domain.OptimalPosition {
	cfg := e.store.Config()
	dims := e.store.PageDimensions()

	margin := cfg.DefaultMargin
	if opts.Margin != nil {
		margin = *opts.Margin
	}

	align := opts.Align
	if align == "" {
		align = "top-left"
	}

	if dims == nil {
		return domain.OptimalPosition{
			X:     fallbackX,
			Y:     fallbackY,
			Align: align,
			Validation: domain.ValidationResult{
				Valid:   true,
				Warning: noPageWarning,
			},
		}
	}

	var warning string
	var x, y float64
	switch align {
	case "top-left":
		x, y = margin, margin
	case "top-center":
		x, y = (dims.Width-width)/2, margin
	case "top-right":
		x, y = dims.Width-width-margin, margin
	case "center-left":
		x, y = margin, (dims.Height-height)/2
	case "center":
		x, y = (dims.Width-width)/2, (dims.Height-height)/2
	case "center-right":
		x, y = dims.Width-width-margin, (dims.Height-height)/2
	case "bottom-left":
		x, y = margin, dims.Height-height-margin
	case "bottom-center":
		x, y = (dims.Width-width)/2, dims.Height-height-margin
	case "bottom-right":
		x, y = dims.Width-width-margin, dims.Height-height-margin
	default:
		warning = fmt.Sprintf(unknownAlignFn, align)
		align = "top-left"
		x, y = margin, margin
	}

	x = roundTo(x, cfg.Precision)
	y = roundTo(y, cfg.Precision)

	validation := e.ValidatePositioning(x, y, width, height)
	if warning != "" && validation.Warning == "" {
		validation.Warning = warning
	}
	return domain.OptimalPosition{X: x, Y: y, Align: align, Validation: validation}
}

// AvailableSpace reports the room remaining to the right of and below
// a point, or nil when no page dimensions are known.
func (e *Engine) AvailableSpace(x, y float64) *domain.AvailableSpace {
	cfg := e.store.Config()
	dims := e.store.PageDimensions()
	if dims == nil {
		return nil
	}
	return &domain.AvailableSpace{
		Width:     roundTo(dims.Width-cfg.MinMargin-x, cfg.Precision),
		Height:    roundTo(dims.Height-cfg.MinMargin-y, cfg.Precision),
		MaxWidth:  roundTo(dims.Width-2*cfg.MinMargin, cfg.Precision),
		MaxHeight: roundTo(dims.Height-2*cfg.MinMargin, cfg.Precision),
	}
}

func (e *Engine) round(pos domain.ResolvedPosition, precision int) domain.ResolvedPosition {
	pos.X = roundTo(pos.X, precision)
	pos.Y = roundTo(pos.Y, precision)
	pos.Width = roundTo(pos.Width, precision)
	pos.Height = roundTo(pos.Height, precision)
	return pos
}

// roundTo rounds half away from zero at the given number of decimal
// digits. Re-rounding an already rounded value is a no-op.
func roundTo(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}
