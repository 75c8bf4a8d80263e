package service

import (
	"os"
	"strings"
	"testing"

	"indesign-mcp/internal/dbclient"
)

func TestMergeService_WriteCSV(t *testing.T) {
	svc := NewMergeService(NewDispatcher(&MockRunner{}, nil), t.TempDir())

	rs := &dbclient.RecordSet{
		Columns: []string{"name", "price"},
		Rows: [][]string{
			{"Widget", "9.50"},
			{`Gadget, "Deluxe"`, "12"},
		},
	}
	path, err := svc.writeCSV(rs)
	if err != nil {
		t.Fatalf("writeCSV: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("csv lines = %d, want 3:\n%s", len(lines), data)
	}
	if lines[0] != "name,price" {
		t.Errorf("header = %q", lines[0])
	}
	// Comma and quote in a cell must be escaped per RFC 4180.
	if !strings.Contains(lines[2], `"Gadget, ""Deluxe"""`) {
		t.Errorf("quoted row = %q", lines[2])
	}
}
