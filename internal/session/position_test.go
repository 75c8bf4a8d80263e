package session

import (
	"testing"

	"indesign-mcp/internal/domain"
)

func fp(v float64) *float64 { return &v }

func newEngine(t *testing.T, dims *domain.PageDimensions) *Engine {
	t.Helper()
	store := NewStore(DefaultConfig())
	if dims != nil {
		if err := store.SetPageDimensions(*dims); err != nil {
			t.Fatalf("set page dimensions: %v", err)
		}
	}
	return NewEngine(store)
}

func TestCalculatedPositioning_NoPageFallback(t *testing.T) {
	e := newEngine(t, nil)
	pos := e.CalculatedPositioning(domain.PositionRequest{})

	if pos.X != 10 || pos.Y != 10 || pos.Width != 100 || pos.Height != 50 {
		t.Errorf("fallback = (%g, %g, %g, %g), want (10, 10, 100, 50)",
			pos.X, pos.Y, pos.Width, pos.Height)
	}
	if pos.Note == "" {
		t.Error("expected a note about the missing page context")
	}
}

func TestCalculatedPositioning_NoPageExplicitOverrides(t *testing.T) {
	e := newEngine(t, nil)
	pos := e.CalculatedPositioning(domain.PositionRequest{X: fp(42), Height: fp(75)})

	if pos.X != 42 || pos.Y != 10 || pos.Width != 100 || pos.Height != 75 {
		t.Errorf("got (%g, %g, %g, %g), want (42, 10, 100, 75)",
			pos.X, pos.Y, pos.Width, pos.Height)
	}
}

func TestCalculatedPositioning_Defaults(t *testing.T) {
	e := newEngine(t, &domain.PageDimensions{Width: 210, Height: 297})
	pos := e.CalculatedPositioning(domain.PositionRequest{})

	if pos.X != 20 || pos.Y != 20 {
		t.Errorf("origin = (%g, %g), want margin (20, 20)", pos.X, pos.Y)
	}
	if pos.Width != 100 || pos.Height != 50 {
		t.Errorf("size = %g x %g, want 100 x 50", pos.Width, pos.Height)
	}
	if pos.PageWidth != 210 || pos.PageHeight != 297 {
		t.Errorf("page = %g x %g, want 210 x 297", pos.PageWidth, pos.PageHeight)
	}
	if pos.SafeArea == nil || *pos.SafeArea != (domain.Area{X: 20, Y: 20, Width: 170, Height: 257}) {
		t.Errorf("unexpected safe area: %+v", pos.SafeArea)
	}
}

// An explicit x anchors the rectangle: overflow past the right edge is
// resolved by shrinking the width, never by moving x.
func TestCalculatedPositioning_ExplicitXAnchor(t *testing.T) {
	e := newEngine(t, &domain.PageDimensions{Width: 200, Height: 200})
	pos := e.CalculatedPositioning(domain.PositionRequest{X: fp(150), Width: fp(80)})

	if pos.X != 150 {
		t.Errorf("x = %g, explicit x must stay at 150", pos.X)
	}
	// 200 - 5 - 150 = 45
	if pos.Width != 45 {
		t.Errorf("width = %g, want 45", pos.Width)
	}
}

// An inferred x can move: overflow is resolved by sliding left while
// the requested width is preserved.
func TestCalculatedPositioning_InferredXRelocation(t *testing.T) {
	e := newEngine(t, &domain.PageDimensions{Width: 200, Height: 200})

	// width 80 at auto x=20 fits: no adjustment
	pos := e.CalculatedPositioning(domain.PositionRequest{Width: fp(80)})
	if pos.X != 20 || pos.Width != 80 {
		t.Errorf("got x=%g width=%g, want x=20 width=80", pos.X, pos.Width)
	}

	// width 190 at auto x=20 overflows: x slides to 200-190-5=5
	pos = e.CalculatedPositioning(domain.PositionRequest{Width: fp(190)})
	if pos.X != 5 {
		t.Errorf("x = %g, want 5", pos.X)
	}
	if pos.Width != 190 {
		t.Errorf("width = %g, inferred relocation must keep width 190", pos.Width)
	}
}

func TestCalculatedPositioning_OversizedDimensionShrinks(t *testing.T) {
	e := newEngine(t, &domain.PageDimensions{Width: 210, Height: 297})

	// Larger than the page in both axes: sliding bottoms out at the
	// minimum margin and the dimensions are cut to the usable extent.
	pos := e.CalculatedPositioning(domain.PositionRequest{Width: fp(300), Height: fp(400)})
	if pos.X != 5 || pos.Y != 5 {
		t.Errorf("origin = (%g, %g), want (5, 5)", pos.X, pos.Y)
	}
	if pos.Width != 200 {
		t.Errorf("width = %g, want 200 (210 - 5 - 5)", pos.Width)
	}
	if pos.Height != 287 {
		t.Errorf("height = %g, want 287 (297 - 5 - 5)", pos.Height)
	}

	// Explicit coordinate with an oversized dimension shrinks too.
	pos = e.CalculatedPositioning(domain.PositionRequest{X: fp(100), Width: fp(200)})
	if pos.X != 100 {
		t.Errorf("x = %g, explicit x must stay at 100", pos.X)
	}
	if pos.Width != 105 {
		t.Errorf("width = %g, want 105 (210 - 5 - 100)", pos.Width)
	}
}

func TestCalculatedPositioning_ExplicitYAnchor(t *testing.T) {
	e := newEngine(t, &domain.PageDimensions{Width: 200, Height: 200})
	pos := e.CalculatedPositioning(domain.PositionRequest{Y: fp(170), Height: fp(60)})

	if pos.Y != 170 {
		t.Errorf("y = %g, explicit y must stay at 170", pos.Y)
	}
	// 200 - 5 - 170 = 25
	if pos.Height != 25 {
		t.Errorf("height = %g, want 25", pos.Height)
	}
}

func TestCalculatedPositioning_BoundsInvariant(t *testing.T) {
	cfg := DefaultConfig()
	page := domain.PageDimensions{Width: 210, Height: 297}
	e := newEngine(t, &page)

	requests := []domain.PositionRequest{
		{},
		{X: fp(20), Y: fp(20)},
		{Width: fp(300), Height: fp(400)},
		{X: fp(100), Width: fp(200)},
		{Y: fp(250), Height: fp(100)},
		{Margin: fp(30)},
		{X: fp(5), Y: fp(5), Width: fp(200), Height: fp(287)},
		{Width: fp(1), Height: fp(1)},
	}
	for i, req := range requests {
		pos := e.CalculatedPositioning(req)
		if pos.X < cfg.MinMargin || pos.Y < cfg.MinMargin {
			t.Errorf("request %d: origin (%g, %g) below minimum margin", i, pos.X, pos.Y)
		}
		if pos.X+pos.Width > page.Width-cfg.MinMargin {
			t.Errorf("request %d: right edge %g past %g", i, pos.X+pos.Width, page.Width-cfg.MinMargin)
		}
		if pos.Y+pos.Height > page.Height-cfg.MinMargin {
			t.Errorf("request %d: bottom edge %g past %g", i, pos.Y+pos.Height, page.Height-cfg.MinMargin)
		}
		if pos.Width < cfg.MinDimension || pos.Height < cfg.MinDimension {
			t.Errorf("request %d: size %g x %g below minimum", i, pos.Width, pos.Height)
		}
	}
}

func TestCalculatedPositioning_RoundingIdempotent(t *testing.T) {
	e := newEngine(t, &domain.PageDimensions{Width: 210, Height: 297})
	pos := e.CalculatedPositioning(domain.PositionRequest{
		X: fp(10.12345), Y: fp(20.999), Width: fp(33.333), Height: fp(44.005),
	})
	for _, v := range []float64{pos.X, pos.Y, pos.Width, pos.Height} {
		if roundTo(v, 2) != v {
			t.Errorf("value %v is not stable under re-rounding", v)
		}
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		v      float64
		digits int
		want   float64
	}{
		{1.25, 1, 1.3}, // half rounds away from zero
		{-1.25, 1, -1.3},
		{1.24, 1, 1.2},
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{10, 2, 10},
	}
	for _, tt := range tests {
		if got := roundTo(tt.v, tt.digits); got != tt.want {
			t.Errorf("roundTo(%v, %d) = %v, want %v", tt.v, tt.digits, got, tt.want)
		}
	}
}

func TestFindOptimalPosition_A4BottomRight(t *testing.T) {
	e := newEngine(t, &domain.PageDimensions{Width: 210, Height: 297})
	pos := e.FindOptimalPosition(50, 30, PlacementOptions{Align: "bottom-right"})

	if pos.X != 140 || pos.Y != 247 {
		t.Errorf("got (%g, %g), want (140, 247)", pos.X, pos.Y)
	}
	if !pos.Validation.Valid {
		t.Errorf("expected valid placement, got %q", pos.Validation.Reason)
	}
}

func TestFindOptimalPosition_AllAnchors(t *testing.T) {
	e := newEngine(t, &domain.PageDimensions{Width: 200, Height: 100})
	w, h := 40.0, 20.0
	tests := []struct {
		align string
		x, y  float64
	}{
		{"top-left", 20, 20},
		{"top-center", 80, 20},
		{"top-right", 140, 20},
		{"center-left", 20, 40},
		{"center", 80, 40},
		{"center-right", 140, 40},
		{"bottom-left", 20, 60},
		{"bottom-center", 80, 60},
		{"bottom-right", 140, 60},
	}
	for _, tt := range tests {
		t.Run(tt.align, func(t *testing.T) {
			pos := e.FindOptimalPosition(w, h, PlacementOptions{Align: tt.align})
			if pos.X != tt.x || pos.Y != tt.y {
				t.Errorf("got (%g, %g), want (%g, %g)", pos.X, pos.Y, tt.x, tt.y)
			}
			if !pos.Validation.Valid {
				t.Errorf("anchor %s should be in bounds: %q", tt.align, pos.Validation.Reason)
			}
		})
	}
}

func TestFindOptimalPosition_UnknownAlign(t *testing.T) {
	e := newEngine(t, &domain.PageDimensions{Width: 200, Height: 100})
	pos := e.FindOptimalPosition(40, 20, PlacementOptions{Align: "middle-ish"})

	if pos.X != 20 || pos.Y != 20 {
		t.Errorf("unknown alignment should fall back to top-left, got (%g, %g)", pos.X, pos.Y)
	}
	if pos.Align != "top-left" {
		t.Errorf("align = %q, want top-left", pos.Align)
	}
	if pos.Validation.Warning == "" {
		t.Error("expected a warning about the unknown alignment")
	}
}

func TestFindOptimalPosition_NoPage(t *testing.T) {
	e := newEngine(t, nil)
	pos := e.FindOptimalPosition(40, 20, PlacementOptions{Align: "center"})
	if pos.X != 10 || pos.Y != 10 {
		t.Errorf("got (%g, %g), want fallback (10, 10)", pos.X, pos.Y)
	}
	if pos.Validation.Warning == "" {
		t.Error("expected a warning about missing page dimensions")
	}
}

func TestAvailableSpace(t *testing.T) {
	e := newEngine(t, &domain.PageDimensions{Width: 210, Height: 297})
	sp := e.AvailableSpace(50, 100)
	if sp == nil {
		t.Fatal("expected available space with page dimensions set")
	}
	if sp.Width != 155 || sp.Height != 192 {
		t.Errorf("remaining = %g x %g, want 155 x 192", sp.Width, sp.Height)
	}
	if sp.MaxWidth != 200 || sp.MaxHeight != 287 {
		t.Errorf("max = %g x %g, want 200 x 287", sp.MaxWidth, sp.MaxHeight)
	}
}

func TestAvailableSpace_NoPage(t *testing.T) {
	e := newEngine(t, nil)
	if sp := e.AvailableSpace(10, 10); sp != nil {
		t.Errorf("expected nil without page dimensions, got %+v", sp)
	}
}

func TestValidatePositioning_Composition(t *testing.T) {
	e := newEngine(t, &domain.PageDimensions{Width: 210, Height: 297})

	// Input check short-circuits before the bounds check.
	if r := e.ValidatePositioning(2, 2, -1, 10); r.Valid {
		t.Error("expected invalid input to fail first")
	} else if r.Suggested == nil || r.Suggested.Width == nil {
		t.Error("input failure should suggest dimensions, not edges")
	}

	if r := e.ValidatePositioning(140, 247, 50, 30); !r.Valid {
		t.Errorf("expected valid, got %q", r.Reason)
	}
}

func TestValidatePositioning_NoPage(t *testing.T) {
	e := newEngine(t, nil)
	r := e.ValidatePositioning(10, 10, 50, 50)
	if !r.Valid {
		t.Fatalf("expected valid, got %q", r.Reason)
	}
	if r.Warning == "" {
		t.Error("expected a warning that bounds were not checked")
	}
}
