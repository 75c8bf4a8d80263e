package service

import (
	"context"
	"fmt"

	"indesign-mcp/internal/domain"
	"indesign-mcp/internal/indesign"
	"indesign-mcp/internal/session"
)

// ─────────────────────────────────────────────────────────────
// Document Service — document and page lifecycle
// ─────────────────────────────────────────────────────────────

// DocumentService drives InDesign document operations and keeps the
// layout session in sync with what the application reports back.
type DocumentService struct {
	disp  *Dispatcher
	store *session.Store
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(disp *Dispatcher, store *session.Store) *DocumentService {
	return &DocumentService{disp: disp, store: store}
}

// docRecord is the pipe-delimited reply every document script ends
// with: name|filePath|pageCount|pageWidth|pageHeight|currentPage.
const docRecordFields = 6

func docProbeExpr() string {
	return indesign.RecordExpr(
		"doc.name",
		`(doc.saved ? doc.fullName.fsName : "")`,
		"doc.pages.length",
		"doc.documentPreferences.pageWidth",
		"doc.documentPreferences.pageHeight",
		"app.activeWindow.activePage.name",
	)
}

// millimeterPreamble switches script measurement units so every value
// crossing the bridge is in millimeters.
func millimeterPreamble(b *indesign.Builder) {
	b.Line("app.scriptPreferences.measurementUnit = MeasurementUnits.MILLIMETERS;")
}

// Create creates a new document and seeds the session from it.
func (s *DocumentService) Create(ctx context.Context, width, height float64, pages int, facing bool) (session.DocumentInfo, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %gx%g", width, height)
	}
	if pages <= 0 {
		pages = 1
	}

	var b indesign.Builder
	millimeterPreamble(&b)
	b.Line("var doc = app.documents.add();")
	b.Linef("doc.documentPreferences.facingPages = %t;", facing)
	b.Linef("doc.documentPreferences.pagesPerDocument = %d;", pages)
	b.Linef("doc.documentPreferences.pageWidth = %s;", indesign.Num(width))
	b.Linef("doc.documentPreferences.pageHeight = %s;", indesign.Num(height))
	b.Line(docProbeExpr() + ";")

	out, err := s.disp.Run(ctx, "create_document", b.String())
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return s.syncFromRecord(out)
}

// Open opens an existing document from disk.
func (s *DocumentService) Open(ctx context.Context, path string) (session.DocumentInfo, error) {
	if path == "" {
		return nil, fmt.Errorf("document path is required")
	}

	var b indesign.Builder
	millimeterPreamble(&b)
	b.Linef("var doc = app.open(File(%s));", indesign.Quote(path))
	b.Line(docProbeExpr() + ";")

	out, err := s.disp.Run(ctx, "open_document", b.String())
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return s.syncFromRecord(out)
}

// Save saves the active document. With an empty path the document is
// saved in place; otherwise it is saved to the given file.
func (s *DocumentService) Save(ctx context.Context, path string) error {
	var b indesign.Builder
	b.Line("var doc = app.activeDocument;")
	if path == "" {
		b.Line("doc.save();")
	} else {
		b.Linef("doc.save(File(%s));", indesign.Quote(path))
	}
	b.Line(`"saved";`)

	if _, err := s.disp.Run(ctx, "save_document", b.String()); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// Close closes the active document and clears the session, since none
// of the tracked state survives the document.
func (s *DocumentService) Close(ctx context.Context, save bool) error {
	var b indesign.Builder
	mode := "SaveOptions.NO"
	if save {
		mode = "SaveOptions.YES"
	}
	b.Linef("app.activeDocument.close(%s);", mode)
	b.Line(`"closed";`)

	if _, err := s.disp.Run(ctx, "close_document", b.String()); err != nil {
		return fmt.Errorf("close document: %w", err)
	}
	s.store.ClearSession(nil)
	return nil
}

// Refresh queries the active document and rebuilds the session view of
// it. Useful when the user has been working in InDesign directly.
func (s *DocumentService) Refresh(ctx context.Context) (session.DocumentInfo, error) {
	var b indesign.Builder
	millimeterPreamble(&b)
	b.Line("var doc = app.activeDocument;")
	b.Line(docProbeExpr() + ";")

	out, err := s.disp.Run(ctx, "document_info", b.String())
	if err != nil {
		return nil, fmt.Errorf("document info: %w", err)
	}
	return s.syncFromRecord(out)
}

// AddPage appends a page to the active document and moves to it.
func (s *DocumentService) AddPage(ctx context.Context) (session.PageInfo, error) {
	var b indesign.Builder
	millimeterPreamble(&b)
	b.Line("var doc = app.activeDocument;")
	b.Line("var page = doc.pages.add();")
	b.Line("app.activeWindow.activePage = page;")
	b.Line(docProbeExpr() + ";")

	out, err := s.disp.Run(ctx, "add_page", b.String())
	if err != nil {
		return nil, fmt.Errorf("add page: %w", err)
	}
	if _, err := s.syncFromRecord(out); err != nil {
		return nil, err
	}
	return s.store.ActivePage(), nil
}

// GoToPage activates the given 1-based page.
func (s *DocumentService) GoToPage(ctx context.Context, number int) (session.PageInfo, error) {
	if number < 1 {
		return nil, fmt.Errorf("page number must be >= 1, got %d", number)
	}

	var b indesign.Builder
	millimeterPreamble(&b)
	b.Line("var doc = app.activeDocument;")
	b.Linef("if (doc.pages.length < %d) { throw new Error(\"page out of range\"); }", number)
	b.Linef("app.activeWindow.activePage = doc.pages[%d];", number-1)
	b.Line(docProbeExpr() + ";")

	out, err := s.disp.Run(ctx, "go_to_page", b.String())
	if err != nil {
		return nil, fmt.Errorf("go to page %d: %w", number, err)
	}
	if _, err := s.syncFromRecord(out); err != nil {
		return nil, err
	}
	return s.store.ActivePage(), nil
}

// syncFromRecord parses a document probe reply and writes document,
// page, and page dimensions into the session.
func (s *DocumentService) syncFromRecord(out string) (session.DocumentInfo, error) {
	fields, err := indesign.Record(out, docRecordFields)
	if err != nil {
		return nil, fmt.Errorf("parse document record: %w", err)
	}

	pageCount, err := indesign.Int(fields[2])
	if err != nil {
		return nil, fmt.Errorf("parse page count: %w", err)
	}
	width, err := indesign.Float(fields[3])
	if err != nil {
		return nil, fmt.Errorf("parse page width: %w", err)
	}
	height, err := indesign.Float(fields[4])
	if err != nil {
		return nil, fmt.Errorf("parse page height: %w", err)
	}

	doc := session.DocumentInfo{
		"name":      fields[0],
		"filePath":  fields[1],
		"pageCount": pageCount,
	}
	if err := s.store.SetActiveDocument(doc); err != nil {
		return nil, err
	}
	if err := s.store.SetPageDimensions(domain.PageDimensions{Width: width, Height: height}); err != nil {
		return nil, fmt.Errorf("page dimensions from document: %w", err)
	}
	page := session.PageInfo{
		"name":   fields[5],
		"width":  width,
		"height": height,
	}
	if err := s.store.SetActivePage(page); err != nil {
		return nil, err
	}
	return doc, nil
}
