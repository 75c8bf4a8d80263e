package dbclient

import (
	"fmt"

	"indesign-mcp/internal/domain"

	_ "modernc.org/sqlite"
)

// newSQLiteSource opens a local SQLite file. Host carries the file path.
func newSQLiteSource(conn *domain.MergeConnection) (*sqlSource, error) {
	if conn.Host == "" {
		return nil, fmt.Errorf("sqlite connection %q has no file path", conn.Name)
	}
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", conn.Host)
	return newSQLSource("sqlite", dsn)
}
