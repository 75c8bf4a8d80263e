package domain

// PageDimensions is the size of the current page in millimeters.
type PageDimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PositionRequest is a partial rectangle supplied by a tool caller.
// Nil fields are filled in by the positioning engine.
type PositionRequest struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Margin *float64 `json:"margin,omitempty"`
}

// ResolvedPosition is a fully concrete rectangle, safe for the current
// page when page dimensions are known. Values are rounded to the
// configured precision.
type ResolvedPosition struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PageWidth  float64 `json:"pageWidth,omitempty"`
	PageHeight float64 `json:"pageHeight,omitempty"`
	SafeArea   *Area   `json:"safeArea,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// Area is an axis-aligned rectangle.
type Area struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Point is a coordinate on the page.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PageBounds is the derived usable geometry of the current page.
type PageBounds struct {
	PageWidth      float64 `json:"pageWidth"`
	PageHeight     float64 `json:"pageHeight"`
	SafeArea       Area    `json:"safeArea"`       // inset by the configured margin
	AbsoluteBounds Area    `json:"absoluteBounds"` // inset by the minimum margin
	Center         Point   `json:"center"`
}

// RectPatch is a partial rectangle correction attached to a failed
// validation. Only the fields relevant to the violation are set.
type RectPatch struct {
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// ValidationResult reports whether a rectangle is acceptable. An
// out-of-bounds rectangle is not an error; it is a Valid=false result
// with a suggested correction for the first violated edge.
type ValidationResult struct {
	Valid     bool               `json:"valid"`
	Reason    string             `json:"reason,omitempty"`
	Suggested *RectPatch         `json:"suggested,omitempty"`
	Bounds    map[string]float64 `json:"bounds,omitempty"`
	Warning   string             `json:"warning,omitempty"`
}

// OptimalPosition is an anchor-derived position plus the bounds check
// it was run through.
type OptimalPosition struct {
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Align      string           `json:"align"`
	Validation ValidationResult `json:"validation"`
}

// AvailableSpace reports the room remaining to the right of and below
// a point, plus the page's overall usable extent.
type AvailableSpace struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	MaxWidth  float64 `json:"maxWidth"`
	MaxHeight float64 `json:"maxHeight"`
}
