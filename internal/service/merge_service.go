package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"indesign-mcp/internal/dbclient"
	"indesign-mcp/internal/domain"
	"indesign-mcp/internal/indesign"
)

// ─────────────────────────────────────────────────────────────
// Merge Service — database-backed data merge
// ─────────────────────────────────────────────────────────────

// MergeService pulls records from an external database and feeds them
// to InDesign's data merge as a generated CSV file.
type MergeService struct {
	disp    *Dispatcher
	dataDir string
}

// NewMergeService creates a MergeService. Generated CSV files live
// under dataDir.
func NewMergeService(disp *Dispatcher, dataDir string) *MergeService {
	return &MergeService{disp: disp, dataDir: dataDir}
}

// TestSource verifies connectivity to a merge source.
func (s *MergeService) TestSource(ctx context.Context, conn *domain.MergeConnection, password string) error {
	src, err := dbclient.NewSource(conn, password)
	if err != nil {
		return err
	}
	defer src.Close()
	if err := src.TestConnection(ctx); err != nil {
		return fmt.Errorf("test %s source %q: %w", conn.Driver, conn.Name, err)
	}
	return nil
}

// PreviewRecords fetches a small sample of merge records without
// touching InDesign.
func (s *MergeService) PreviewRecords(ctx context.Context, conn *domain.MergeConnection, password, query string, limit int) (*dbclient.RecordSet, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	src, err := dbclient.NewSource(conn, password)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.FetchRecords(ctx, query, limit)
}

// MergeResult reports a completed data merge.
type MergeResult struct {
	Records  int    `json:"records"`
	DataFile string `json:"dataFile"`
}

// RunMerge fetches records, writes them to a CSV file, attaches that
// file as the template's data source, and merges. The CSV file is kept
// on disk so the merge can be inspected or re-run from InDesign.
func (s *MergeService) RunMerge(ctx context.Context, conn *domain.MergeConnection, password, query, templatePath string, limit int) (*MergeResult, error) {
	if templatePath == "" {
		return nil, fmt.Errorf("template path is required")
	}

	src, err := dbclient.NewSource(conn, password)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	rs, err := src.FetchRecords(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch merge records: %w", err)
	}
	if len(rs.Rows) == 0 {
		return nil, fmt.Errorf("query returned no records")
	}

	csvPath, err := s.writeCSV(rs)
	if err != nil {
		return nil, err
	}

	var b indesign.Builder
	b.Linef("var doc = app.open(File(%s));", indesign.Quote(templatePath))
	b.Linef("doc.dataMergeProperties.selectDataSource(File(%s));", indesign.Quote(csvPath))
	b.Line("doc.dataMergeProperties.dataMergePreferences.recordSelectionRange = RecordSelectionRange.ALL_RECORDS;")
	b.Line("doc.dataMergeProperties.mergeRecords();")
	b.Line(`"merged";`)

	if _, err := s.disp.Run(ctx, "run_data_merge", b.String()); err != nil {
		return nil, fmt.Errorf("run data merge: %w", err)
	}

	return &MergeResult{Records: len(rs.Rows), DataFile: csvPath}, nil
}

// writeCSV writes a record set to a uniquely named CSV file in dataDir.
func (s *MergeService) writeCSV(rs *dbclient.RecordSet) (string, error) {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create merge data dir: %w", err)
	}
	path := filepath.Join(s.dataDir, "merge-"+uuid.NewString()+".csv")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create merge csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rs.Columns); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rs.Rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return path, nil
}
