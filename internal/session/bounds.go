package session

import (
	"fmt"
	"math"

	"indesign-mcp/internal/domain"
)

// Validator performs pure rectangle arithmetic against page bounds.
// It holds only configuration and no mutable state.
type Validator struct {
	cfg Config
}

// NewValidator creates a Validator with the given limits.
func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateInputs checks that a rectangle is made of finite numbers and
// positive dimensions. It does not look at the page.
func (v *Validator) ValidateInputs(x, y, width, height float64) domain.ValidationResult {
	fields := []struct {
		name  string
		value float64
	}{
		{"x", x}, {"y", y}, {"width", width}, {"height", height},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return domain.ValidationResult{
				Valid:  false,
				Reason: fmt.Sprintf("%s must be a finite number", f.name),
			}
		}
	}

	if width <= 0 || height <= 0 {
		sw, sh := width, height
		if sw < v.cfg.MinDimension {
			sw = v.cfg.MinDimension
		}
		if sh < v.cfg.MinDimension {
			sh = v.cfg.MinDimension
		}
		return domain.ValidationResult{
			Valid:     false,
			Reason:    fmt.Sprintf("width and height must be positive (minimum %s mm)", num(v.cfg.MinDimension)),
			Suggested: &domain.RectPatch{Width: &sw, Height: &sh},
		}
	}

	return domain.ValidationResult{Valid: true}
}

// ValidateAgainstPage checks the rectangle against the page edges in a
// fixed order: left, top, right, bottom. Only the first violation is
// reported so the suggested correction stays unambiguous.
func (v *Validator) ValidateAgainstPage(x, y, width, height float64, page domain.PageDimensions) domain.ValidationResult {
	min := v.cfg.MinMargin
	maxX := page.Width - min
	maxY := page.Height - min

	if x < min {
		suggested := min
		return domain.ValidationResult{
			Valid:     false,
			Reason:    fmt.Sprintf("x=%s is past the left edge; minimum is %s mm", num(x), num(min)),
			Suggested: &domain.RectPatch{X: &suggested},
			Bounds:    map[string]float64{"minX": min},
		}
	}
	if y < min {
		suggested := min
		return domain.ValidationResult{
			Valid:     false,
			Reason:    fmt.Sprintf("y=%s is past the top edge; minimum is %s mm", num(y), num(min)),
			Suggested: &domain.RectPatch{Y: &suggested},
			Bounds:    map[string]float64{"minY": min},
		}
	}
	if x+width > maxX {
		suggested := maxX - x
		if suggested < v.cfg.MinDimension {
			suggested = v.cfg.MinDimension
		}
		return domain.ValidationResult{
			Valid:     false,
			Reason:    fmt.Sprintf("x+width=%s extends past the right edge; maximum is %s mm", num(x+width), num(maxX)),
			Suggested: &domain.RectPatch{Width: &suggested},
			Bounds:    map[string]float64{"maxX": maxX},
		}
	}
	if y+height > maxY {
		suggested := maxY - y
		if suggested < v.cfg.MinDimension {
			suggested = v.cfg.MinDimension
		}
		return domain.ValidationResult{
			Valid:     false,
			Reason:    fmt.Sprintf("y+height=%s extends past the bottom edge; maximum is %s mm", num(y+height), num(maxY)),
			Suggested: &domain.RectPatch{Height: &suggested},
			Bounds:    map[string]float64{"maxY": maxY},
		}
	}

	return domain.ValidationResult{Valid: true, Reason: "position is within page bounds"}
}

// ComputeBounds derives the usable geometry of a page: the safe area
// inset by margin, the absolute bounds inset by the minimum margin,
// and the page center.
func (v *Validator) ComputeBounds(page domain.PageDimensions, margin float64) domain.PageBounds {
	min := v.cfg.MinMargin
	return domain.PageBounds{
		PageWidth:  page.Width,
		PageHeight: page.Height,
		SafeArea: domain.Area{
			X:      margin,
			Y:      margin,
			Width:  page.Width - 2*margin,
			Height: page.Height - 2*margin,
		},
		AbsoluteBounds: domain.Area{
			X:      min,
			Y:      min,
			Width:  page.Width - 2*min,
			Height: page.Height - 2*min,
		},
		Center: domain.Point{X: page.Width / 2, Y: page.Height / 2},
	}
}

// num formats a millimeter value without trailing zeros for messages.
func num(v float64) string {
	return fmt.Sprintf("%g", v)
}
