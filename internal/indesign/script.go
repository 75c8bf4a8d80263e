package indesign

import (
	"fmt"
	"strconv"
	"strings"
)

// ─────────────────────────────────────────────────────────────
// ExtendScript snippet building
// ─────────────────────────────────────────────────────────────

// Builder assembles ExtendScript source line by line. Scripts are
// expected to leave a pipe-delimited record as their final expression;
// InDesign returns that value through the AppleScript bridge.
type Builder struct {
	sb strings.Builder
}

// Linef appends a formatted line of script source.
func (b *Builder) Linef(format string, args ...any) {
	fmt.Fprintf(&b.sb, format, args...)
	b.sb.WriteByte('\n')
}

// Line appends a literal line of script source.
func (b *Builder) Line(s string) {
	b.sb.WriteString(s)
	b.sb.WriteByte('\n')
}

// String returns the assembled script.
func (b *Builder) String() string {
	return b.sb.String()
}

// Quote escapes s for use inside a double-quoted ExtendScript string
// literal.
func Quote(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return `"` + r.Replace(s) + `"`
}

// Num formats a millimeter value without trailing zeros, the way
// ExtendScript numeric literals are written.
func Num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Bounds renders an InDesign geometricBounds array [y1, x1, y2, x2]
// for a rectangle given as x/y/width/height in millimeters.
func Bounds(x, y, width, height float64) string {
	return fmt.Sprintf("[%s, %s, %s, %s]", Num(y), Num(x), Num(y+height), Num(x+width))
}

// RecordExpr renders the expression that joins fields into the
// pipe-delimited result record a script returns.
func RecordExpr(fields ...string) string {
	return strings.Join(fields, ` + "|" + `)
}
