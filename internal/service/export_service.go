package service

import (
	"context"
	"fmt"

	"indesign-mcp/internal/indesign"
)

// ─────────────────────────────────────────────────────────────
// Export Service — PDF and PNG output
// ─────────────────────────────────────────────────────────────

// ExportService exports the active document.
type ExportService struct {
	disp *Dispatcher
}

// NewExportService creates an ExportService.
func NewExportService(disp *Dispatcher) *ExportService {
	return &ExportService{disp: disp}
}

// ExportPDF exports the active document to a PDF file. An empty preset
// uses InDesign's default PDF export preset.
func (s *ExportService) ExportPDF(ctx context.Context, path, preset string) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}

	var b indesign.Builder
	b.Line("var doc = app.activeDocument;")
	if preset != "" {
		b.Linef("var preset = app.pdfExportPresets.itemByName(%s);", indesign.Quote(preset))
		b.Linef("doc.exportFile(ExportFormat.PDF_TYPE, File(%s), false, preset);", indesign.Quote(path))
	} else {
		b.Linef("doc.exportFile(ExportFormat.PDF_TYPE, File(%s), false);", indesign.Quote(path))
	}
	b.Line(`"exported";`)

	if _, err := s.disp.Run(ctx, "export_pdf", b.String()); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}

// ExportPNG exports one page of the active document as a PNG. Page is
// 1-based; 0 exports the current page. Resolution of 0 uses 300 ppi.
func (s *ExportService) ExportPNG(ctx context.Context, path string, page int, resolution float64) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	if page < 0 {
		return fmt.Errorf("page must be >= 0, got %d", page)
	}
	if resolution == 0 {
		resolution = 300
	}
	if resolution < 72 || resolution > 2400 {
		return fmt.Errorf("resolution must be in [72, 2400], got %g", resolution)
	}

	var b indesign.Builder
	b.Line("var doc = app.activeDocument;")
	b.Linef("app.pngExportPreferences.exportResolution = %s;", indesign.Num(resolution))
	if page == 0 {
		b.Line("app.pngExportPreferences.pngExportRange = PNGExportRangeEnum.EXPORT_RANGE;")
		b.Line("app.pngExportPreferences.pageString = app.activeWindow.activePage.name;")
	} else {
		b.Line("app.pngExportPreferences.pngExportRange = PNGExportRangeEnum.EXPORT_RANGE;")
		b.Linef("app.pngExportPreferences.pageString = doc.pages[%d].name;", page-1)
	}
	b.Linef("doc.exportFile(ExportFormat.PNG_FORMAT, File(%s), false);", indesign.Quote(path))
	b.Line(`"exported";`)

	if _, err := s.disp.Run(ctx, "export_png", b.String()); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	return nil
}
