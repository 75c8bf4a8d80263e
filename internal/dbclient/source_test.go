package dbclient

import (
	"testing"
	"time"

	"indesign-mcp/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBuildMySQLDSN(t *testing.T) {
	conn := &domain.MergeConnection{
		Driver:   domain.MergeDriverMySQL,
		Host:     "db.local",
		Username: "merge",
		Database: "catalog",
	}
	dsn := buildMySQLDSN(conn, "s3cret")
	want := "merge:s3cret@tcp(db.local:3306)/catalog?parseTime=true&charset=utf8mb4"
	if dsn != want {
		t.Errorf("dsn = %q, want %q", dsn, want)
	}

	conn.Port = 3307
	conn.SSLMode = "require"
	dsn = buildMySQLDSN(conn, "s3cret")
	want = "merge:s3cret@tcp(db.local:3307)/catalog?parseTime=true&charset=utf8mb4&tls=true"
	if dsn != want {
		t.Errorf("dsn with tls = %q, want %q", dsn, want)
	}
}

func TestBuildPostgresDSN(t *testing.T) {
	conn := &domain.MergeConnection{
		Driver:   domain.MergeDriverPostgres,
		Host:     "pg.local",
		Username: "merge",
		Database: "catalog",
	}
	dsn := buildPostgresDSN(conn, "pw")
	want := "host=pg.local port=5432 user=merge password=pw dbname=catalog sslmode=disable"
	if dsn != want {
		t.Errorf("dsn = %q, want %q", dsn, want)
	}
}

func TestNewSourceUnsupportedDriver(t *testing.T) {
	_, err := NewSource(&domain.MergeConnection{Driver: "oracle"}, "")
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{[]byte("hello"), "hello"},
		{ts, "2026-03-14T09:26:53Z"},
		{true, "true"},
		{float64(12.5), "12.5"},
		{int64(42), "42"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := formatValue(tt.in); got != tt.want {
			t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRecordSetFromDocs(t *testing.T) {
	docs := []bson.D{
		{{Key: "name", Value: "Widget"}, {Key: "_id", Value: "a1"}},
		{{Key: "_id", Value: "a2"}, {Key: "price", Value: int64(9)}},
	}
	rs := recordSetFromDocs(docs)

	wantCols := []string{"_id", "name", "price"}
	if len(rs.Columns) != len(wantCols) {
		t.Fatalf("columns = %v, want %v", rs.Columns, wantCols)
	}
	for i, c := range wantCols {
		if rs.Columns[i] != c {
			t.Errorf("column[%d] = %q, want %q", i, rs.Columns[i], c)
		}
	}
	if len(rs.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rs.Rows))
	}
	if rs.Rows[0][0] != "a1" || rs.Rows[0][1] != "Widget" || rs.Rows[0][2] != "" {
		t.Errorf("row 0 = %v", rs.Rows[0])
	}
	if rs.Rows[1][0] != "a2" || rs.Rows[1][2] != "9" {
		t.Errorf("row 1 = %v", rs.Rows[1])
	}
}
