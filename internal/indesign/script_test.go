package indesign

import "testing"

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`plain`, `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{"line\nbreak", `"line\nbreak"`},
		{`back\slash`, `"back\\slash"`},
		{"tab\there", `"tab\there"`},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{10, "10"},
		{10.5, "10.5"},
		{0.25, "0.25"},
		{-3, "-3"},
	}
	for _, tt := range tests {
		if got := Num(tt.in); got != tt.want {
			t.Errorf("Num(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

// geometricBounds order is [y1, x1, y2, x2].
func TestBounds(t *testing.T) {
	got := Bounds(20, 30, 100, 50)
	want := "[30, 20, 80, 120]"
	if got != want {
		t.Errorf("Bounds = %s, want %s", got, want)
	}
}

func TestBuilder(t *testing.T) {
	var b Builder
	b.Line("var doc = app.activeDocument;")
	b.Linef("var w = %s;", Num(210))
	got := b.String()
	want := "var doc = app.activeDocument;\nvar w = 210;\n"
	if got != want {
		t.Errorf("builder output = %q, want %q", got, want)
	}
}

func TestRecordExpr(t *testing.T) {
	got := RecordExpr("doc.name", "doc.pages.length")
	want := `doc.name + "|" + doc.pages.length`
	if got != want {
		t.Errorf("RecordExpr = %s, want %s", got, want)
	}
}

func TestRecord(t *testing.T) {
	fields, err := Record("  a | 2 | 3.5 \n", 3)
	if err != nil {
		t.Fatal(err)
	}
	if fields[0] != "a" || fields[1] != "2" || fields[2] != "3.5" {
		t.Errorf("unexpected fields: %v", fields)
	}

	if _, err := Record("a|b", 3); err == nil {
		t.Error("expected an error for a short record")
	}

	n, err := Int(fields[1])
	if err != nil || n != 2 {
		t.Errorf("Int = %d, %v", n, err)
	}
	f, err := Float(fields[2])
	if err != nil || f != 3.5 {
		t.Errorf("Float = %v, %v", f, err)
	}
}
