package indesign

import (
	"fmt"
	"strconv"
	"strings"
)

// Record splits a pipe-delimited script result into exactly n fields.
// Fields are trimmed; an unexpected field count is an error because it
// means the script and the parser disagree about the record shape.
func Record(s string, n int) ([]string, error) {
	parts := strings.Split(strings.TrimSpace(s), "|")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d pipe-separated fields, got %d (%q)", n, len(parts), s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}

// Float parses a numeric record field.
func Float(field string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric field %q: %w", field, err)
	}
	return v, nil
}

// Int parses an integer record field.
func Int(field string) (int, error) {
	v, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("invalid integer field %q: %w", field, err)
	}
	return v, nil
}
