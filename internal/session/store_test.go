package session

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	"indesign-mcp/internal/domain"
)

func TestSetPageDimensions_Validation(t *testing.T) {
	s := NewStore(DefaultConfig())
	tests := []struct {
		name string
		dims domain.PageDimensions
	}{
		{"zero width", domain.PageDimensions{Width: 0, Height: 100}},
		{"negative height", domain.PageDimensions{Width: 100, Height: -1}},
		{"nan", domain.PageDimensions{Width: math.NaN(), Height: 100}},
		{"inf", domain.PageDimensions{Width: 100, Height: math.Inf(1)}},
		{"oversized", domain.PageDimensions{Width: 100, Height: 10001}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.SetPageDimensions(tt.dims); err == nil {
				t.Fatalf("expected error for %s", tt.name)
			}
			if s.PageDimensions() != nil {
				t.Error("rejected mutation must not be applied")
			}
		})
	}
}

func TestCopyIsolation_PageDimensions(t *testing.T) {
	s := NewStore(DefaultConfig())
	if err := s.SetPageDimensions(domain.PageDimensions{Width: 210, Height: 297}); err != nil {
		t.Fatal(err)
	}

	got := s.PageDimensions()
	got.Width = 1

	again := s.PageDimensions()
	if again.Width != 210 {
		t.Errorf("store state changed through a returned copy: width = %g", again.Width)
	}
}

func TestCopyIsolation_ActiveDocument(t *testing.T) {
	s := NewStore(DefaultConfig())
	doc := DocumentInfo{
		"name":  "brochure.indd",
		"pages": float64(4),
		"size":  map[string]any{"width": 210.0, "height": 297.0},
	}
	if err := s.SetActiveDocument(doc); err != nil {
		t.Fatal(err)
	}

	// Mutating the argument after the set must not leak in.
	doc["name"] = "mutated"

	got := s.ActiveDocument()
	if got["name"] != "brochure.indd" {
		t.Errorf("store took a live reference to the caller's map")
	}

	// Mutating a returned copy, including nested maps, must not leak in.
	got["pages"] = float64(99)
	got["size"].(map[string]any)["width"] = 1.0

	again := s.ActiveDocument()
	if again["pages"] != float64(4) {
		t.Error("top-level field changed through a returned copy")
	}
	if again["size"].(map[string]any)["width"] != 210.0 {
		t.Error("nested field changed through a returned copy")
	}
}

func TestSetLastCreatedItem_StampsTimestamp(t *testing.T) {
	s := NewStore(DefaultConfig())
	if err := s.SetLastCreatedItem(CreatedItem{"type": "textFrame"}); err != nil {
		t.Fatal(err)
	}
	item := s.LastCreatedItem()
	if item == nil {
		t.Fatal("expected a stored item")
	}
	if _, ok := item["createdAt"].(string); !ok {
		t.Errorf("expected a createdAt stamp, got %v", item["createdAt"])
	}
}

func TestClearSession_Preserve(t *testing.T) {
	s := NewStore(DefaultConfig())
	dims := domain.PageDimensions{Width: 210, Height: 297}
	if err := s.SetPageDimensions(dims); err != nil {
		t.Fatal(err)
	}
	if err := s.SetActiveDocument(DocumentInfo{"name": "doc.indd"}); err != nil {
		t.Fatal(err)
	}

	s.ClearSession([]string{"pageDimensions"})

	got := s.PageDimensions()
	if got == nil || *got != dims {
		t.Errorf("preserved dimensions lost: %+v", got)
	}
	if s.ActiveDocument() != nil {
		t.Error("active document should have been cleared")
	}
	if sum := s.Summary(); sum.LastModified != nil {
		t.Error("clear should null lastModified")
	}
}

func TestSummary(t *testing.T) {
	s := NewStore(DefaultConfig())
	if err := s.SetPageDimensions(domain.PageDimensions{Width: 210, Height: 297}); err != nil {
		t.Fatal(err)
	}

	sum := s.Summary()
	if !sum.HasPageDimensions || sum.HasActiveDocument || sum.HasActivePage || sum.HasLastCreatedItem {
		t.Errorf("unexpected presence flags: %+v", sum)
	}
	if sum.PageBounds == nil || sum.PageBounds.SafeArea.Width != 170 {
		t.Errorf("expected derived bounds, got %+v", sum.PageBounds)
	}
	if sum.Config.DefaultMargin != 20 {
		t.Errorf("summary should carry the active config, got %+v", sum.Config)
	}
	if sum.LastModified == nil {
		t.Error("expected lastModified after a mutation")
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := NewStore(DefaultConfig())
	if err := src.SetPageDimensions(domain.PageDimensions{Width: 210, Height: 297}); err != nil {
		t.Fatal(err)
	}
	if err := src.SetActiveDocument(DocumentInfo{"name": "doc.indd", "pages": float64(2)}); err != nil {
		t.Fatal(err)
	}
	if err := src.SetLastCreatedItem(CreatedItem{"type": "rectangle"}); err != nil {
		t.Fatal(err)
	}

	exported, err := src.Export()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(exported, `"version":"2.0"`) {
		t.Errorf("export should carry version 2.0: %s", exported)
	}

	dst := NewStore(DefaultConfig())
	if !dst.Import(exported) {
		t.Fatal("import of a valid export must succeed")
	}

	reExported, err := dst.Export()
	if err != nil {
		t.Fatal(err)
	}
	if exported != reExported {
		t.Errorf("round trip altered the session:\n was: %s\n now: %s", exported, reExported)
	}
}

func TestImport_RejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "definitely not json"},
		{"empty object", "{}"},
		{"missing version", `{"sessionData":{"createdAt":"2026-01-01T00:00:00Z"}}`},
		{"missing sessionData", `{"version":"2.0","config":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(DefaultConfig())
			if err := s.SetPageDimensions(domain.PageDimensions{Width: 100, Height: 100}); err != nil {
				t.Fatal(err)
			}
			if s.Import(tt.payload) {
				t.Fatal("import should be rejected")
			}
			if s.PageDimensions() == nil {
				t.Error("rejected import must not modify state")
			}
		})
	}
}

func TestImport_MergesConfig(t *testing.T) {
	s := NewStore(DefaultConfig())
	payload := `{"version":"2.0","config":{"defaultMargin":12.5},"sessionData":{"createdAt":"2026-01-01T00:00:00Z"}}`
	if !s.Import(payload) {
		t.Fatal("import should succeed")
	}
	cfg := s.Config()
	if cfg.DefaultMargin != 12.5 {
		t.Errorf("defaultMargin = %g, want 12.5", cfg.DefaultMargin)
	}
	// Keys absent from the payload keep their current values.
	if cfg.MinMargin != 5 || cfg.Precision != 2 {
		t.Errorf("absent config keys must be preserved: %+v", cfg)
	}
}

// ─────────────────────────────────────────────────────────────
// Change notification
// ─────────────────────────────────────────────────────────────

func TestEvents_EmittedAfterCommitInOrder(t *testing.T) {
	s := NewStore(DefaultConfig())
	var events []Event
	s.Subscribe(func(ev Event) { events = append(events, ev) })

	if err := s.SetPageDimensions(domain.PageDimensions{Width: 100, Height: 100}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPageDimensions(domain.PageDimensions{Width: 200, Height: 200}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetActiveDocument(DocumentInfo{"name": "a"}); err != nil {
		t.Fatal(err)
	}
	s.ClearSession([]string{"activeDocument"})

	want := []EventType{EventDimensionsChanged, EventDimensionsChanged, EventDocumentChanged, EventSessionCleared}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, ev := range events {
		if ev.Type != want[i] {
			t.Errorf("event %d type = %s, want %s", i, ev.Type, want[i])
		}
	}

	if events[0].Old != nil {
		t.Errorf("first dimension change carries no old value, got %v", events[0].Old)
	}
	if old, ok := events[1].Old.(domain.PageDimensions); !ok || old.Width != 100 {
		t.Errorf("second dimension change should carry the previous value, got %v", events[1].Old)
	}
	if events[3].Preserve == nil || events[3].Preserve[0] != "activeDocument" {
		t.Errorf("cleared event should carry the preserve list, got %v", events[3].Preserve)
	}
}

func TestEvents_NotEmittedOnRejectedMutation(t *testing.T) {
	s := NewStore(DefaultConfig())
	count := 0
	s.Subscribe(func(Event) { count++ })

	if err := s.SetPageDimensions(domain.PageDimensions{Width: -1, Height: 100}); err == nil {
		t.Fatal("expected a rejected mutation")
	}
	if count != 0 {
		t.Errorf("rejected mutation emitted %d events", count)
	}
}

func TestEvents_FanOutAndUnsubscribe(t *testing.T) {
	s := NewStore(DefaultConfig())
	a, b := 0, 0
	idA := s.Subscribe(func(Event) { a++ })
	s.Subscribe(func(Event) { b++ })

	if err := s.SetPageDimensions(domain.PageDimensions{Width: 100, Height: 100}); err != nil {
		t.Fatal(err)
	}
	s.Unsubscribe(idA)
	if err := s.SetPageDimensions(domain.PageDimensions{Width: 150, Height: 150}); err != nil {
		t.Fatal(err)
	}

	if a != 1 {
		t.Errorf("unsubscribed listener received %d events, want 1", a)
	}
	if b != 2 {
		t.Errorf("remaining listener received %d events, want 2", b)
	}
}

func TestEvents_ImportEmitsSessionImported(t *testing.T) {
	src := NewStore(DefaultConfig())
	if err := src.SetPageDimensions(domain.PageDimensions{Width: 100, Height: 100}); err != nil {
		t.Fatal(err)
	}
	payload, err := src.Export()
	if err != nil {
		t.Fatal(err)
	}

	dst := NewStore(DefaultConfig())
	var got []EventType
	dst.Subscribe(func(ev Event) { got = append(got, ev.Type) })
	if !dst.Import(payload) {
		t.Fatal("import should succeed")
	}
	if len(got) != 1 || got[0] != EventSessionImported {
		t.Errorf("got events %v, want [sessionImported]", got)
	}
}

func TestEvents_LogListener(t *testing.T) {
	s := NewStore(DefaultConfig())
	var buf bytes.Buffer
	s.Subscribe(LogListener(log.New(&buf, "", 0)))

	if err := s.SetPageDimensions(domain.PageDimensions{Width: 100, Height: 100}); err != nil {
		t.Fatal(err)
	}
	s.ClearSession([]string{"pageDimensions"})

	out := buf.String()
	if !strings.Contains(out, string(EventDimensionsChanged)) {
		t.Errorf("log missing %q:\n%s", EventDimensionsChanged, out)
	}
	if !strings.Contains(out, "preserved [pageDimensions]") {
		t.Errorf("log missing preserve detail for clear:\n%s", out)
	}
}
