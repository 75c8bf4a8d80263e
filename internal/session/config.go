package session

// Config holds the numeric limits for positioning and validation.
// It is set once at store construction and never mutated at runtime
// (session import may replace it wholesale as part of a snapshot).
type Config struct {
	DefaultMargin float64 `json:"defaultMargin"` // default inset used when a request omits margin
	MinMargin     float64 `json:"minMargin"`     // hard floor between content and page edge
	MinDimension  float64 `json:"minDimension"`  // smallest allowed width/height
	MaxDimension  float64 `json:"maxDimension"`  // largest accepted page dimension
	Precision     int     `json:"precision"`     // decimal digits kept on resolved values
}

// DefaultConfig returns the standard configuration (millimeters).
func DefaultConfig() Config {
	return Config{
		DefaultMargin: 20,
		MinMargin:     5,
		MinDimension:  10,
		MaxDimension:  10000,
		Precision:     2,
	}
}
