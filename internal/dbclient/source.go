package dbclient

import (
	"context"
	"fmt"

	"indesign-mcp/internal/domain"
)

// RecordSet is a batch of rows fetched from a data merge source.
// Values are already formatted as strings, ready for CSV output.
type RecordSet struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Source abstracts a database used as an InDesign data merge source.
// Sources are read-only: data merge consumes records, it never writes
// them back.
type Source interface {
	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// FetchRecords runs a query and returns up to limit rows.
	FetchRecords(ctx context.Context, query string, limit int) (*RecordSet, error)

	// Close closes the connection.
	Close() error
}

// NewSource creates a Source for the given merge connection. The
// password must be provided separately by the caller.
func NewSource(conn *domain.MergeConnection, password string) (Source, error) {
	switch conn.Driver {
	case domain.MergeDriverSQLite:
		return newSQLiteSource(conn)
	case domain.MergeDriverMySQL:
		return newSQLSource("mysql", buildMySQLDSN(conn, password))
	case domain.MergeDriverPostgres:
		return newSQLSource("postgres", buildPostgresDSN(conn, password))
	case domain.MergeDriverMongoDB:
		return newMongoSource(conn, password)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", conn.Driver)
	}
}
