package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"indesign-mcp/internal/domain"
	"indesign-mcp/internal/service"
	"indesign-mcp/internal/session"

	"github.com/mark3labs/mcp-go/mcp"
)

func newTestServer(t *testing.T, outputs ...string) (*Server, *session.Store) {
	t.Helper()
	runner := &service.MockRunner{Outputs: outputs}
	store := session.NewStore(session.DefaultConfig())
	engine := session.NewEngine(store)
	disp := service.NewDispatcher(runner, nil)

	srv := New(Deps{
		Store:     store,
		Engine:    engine,
		Documents: service.NewDocumentService(disp, store),
		Content:   service.NewContentService(disp, store, engine),
		Styles:    service.NewStyleService(disp),
		Exports:   service.NewExportService(disp),
		Merge:     service.NewMergeService(disp, t.TempDir()),
		Scripts:   service.NewScriptService(disp, ""),
	})
	return srv, store
}

func callReq(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", res.Content[0])
	}
	return tc.Text
}

func TestHandleCalculatePosition_NoPageFallback(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := srv.handleCalculatePosition(context.Background(), callReq(map[string]any{}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	var pos domain.ResolvedPosition
	if err := json.Unmarshal([]byte(resultText(t, res)), &pos); err != nil {
		t.Fatal(err)
	}
	if pos.X != 10 || pos.Y != 10 || pos.Width != 100 || pos.Height != 50 {
		t.Errorf("fallback position = %+v", pos)
	}
	if pos.Note == "" {
		t.Error("expected a note explaining the fallback")
	}
}

func TestHandleSetPageDimensionsAndBounds(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	res, err := srv.handleSetPageDimensions(ctx, callReq(map[string]any{"width": 210.0, "height": 297.0}))
	if err != nil {
		t.Fatalf("set dimensions: %v", err)
	}
	if !strings.Contains(resultText(t, res), "210x297") {
		t.Errorf("confirmation = %q", resultText(t, res))
	}
	if dims := store.PageDimensions(); dims == nil || dims.Width != 210 {
		t.Fatalf("dims = %v", dims)
	}

	res, err = srv.handleGetPageBounds(ctx, callReq(nil))
	if err != nil {
		t.Fatalf("get bounds: %v", err)
	}
	var bounds domain.PageBounds
	if err := json.Unmarshal([]byte(resultText(t, res)), &bounds); err != nil {
		t.Fatal(err)
	}
	if bounds.SafeArea.X != 20 || bounds.SafeArea.Width != 170 {
		t.Errorf("safe area = %+v", bounds.SafeArea)
	}
	if bounds.Center.X != 105 || bounds.Center.Y != 148.5 {
		t.Errorf("center = %+v", bounds.Center)
	}

	// Rejected sizes surface as handler errors.
	if _, err := srv.handleSetPageDimensions(ctx, callReq(map[string]any{"width": -5.0, "height": 297.0})); err == nil {
		t.Fatal("expected error for negative width")
	}
}

func TestHandleGetPageBounds_NoSession(t *testing.T) {
	srv, _ := newTestServer(t)
	if _, err := srv.handleGetPageBounds(context.Background(), callReq(nil)); err == nil {
		t.Fatal("expected error without page dimensions")
	}
}

func TestHandleValidatePosition_RequiresAllFields(t *testing.T) {
	srv, _ := newTestServer(t)
	_, err := srv.handleValidatePosition(context.Background(), callReq(map[string]any{"x": 1.0, "y": 2.0, "width": 10.0}))
	if err == nil || !strings.Contains(err.Error(), "height") {
		t.Fatalf("err = %v, want missing-height error", err)
	}
}

func TestHandleValidatePosition_SuggestsCorrection(t *testing.T) {
	srv, store := newTestServer(t)
	if err := store.SetPageDimensions(domain.PageDimensions{Width: 100, Height: 100}); err != nil {
		t.Fatal(err)
	}

	res, err := srv.handleValidatePosition(context.Background(), callReq(map[string]any{
		"x": 80.0, "y": 10.0, "width": 30.0, "height": 10.0,
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	var result domain.ValidationResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &result); err != nil {
		t.Fatal(err)
	}
	if result.Valid {
		t.Fatal("expected invalid result for right-edge overflow")
	}
	if result.Suggested == nil || result.Suggested.Width == nil {
		t.Fatalf("expected width suggestion, got %+v", result.Suggested)
	}
}

func TestHandleFindOptimalPosition(t *testing.T) {
	srv, store := newTestServer(t)
	if err := store.SetPageDimensions(domain.PageDimensions{Width: 200, Height: 100}); err != nil {
		t.Fatal(err)
	}

	res, err := srv.handleFindOptimalPosition(context.Background(), callReq(map[string]any{
		"width": 40.0, "height": 20.0, "align": "center",
	}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	var pos domain.OptimalPosition
	if err := json.Unmarshal([]byte(resultText(t, res)), &pos); err != nil {
		t.Fatal(err)
	}
	if pos.X != 80 || pos.Y != 40 {
		t.Errorf("center position = (%g, %g), want (80, 40)", pos.X, pos.Y)
	}

	if _, err := srv.handleFindOptimalPosition(context.Background(), callReq(map[string]any{"width": 40.0})); err == nil {
		t.Fatal("expected error for missing height")
	}
}

func TestHandleClearSession_PreserveList(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()
	if err := store.SetPageDimensions(domain.PageDimensions{Width: 210, Height: 297}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetActiveDocument(session.DocumentInfo{"name": "Doc.indd"}); err != nil {
		t.Fatal(err)
	}

	res, err := srv.handleClearSession(ctx, callReq(map[string]any{"preserve": "pageDimensions, bogus"}))
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if !strings.Contains(resultText(t, res), "pageDimensions") {
		t.Errorf("confirmation = %q", resultText(t, res))
	}
	if store.PageDimensions() == nil {
		t.Error("pageDimensions should be preserved")
	}
	if store.ActiveDocument() != nil {
		t.Error("activeDocument should be cleared")
	}
}

func TestHandleExportImportRoundTrip(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()
	if err := store.SetPageDimensions(domain.PageDimensions{Width: 148, Height: 210}); err != nil {
		t.Fatal(err)
	}

	res, err := srv.handleExportSession(ctx, callReq(nil))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	payload := resultText(t, res)
	if !strings.Contains(payload, `"version": "2.0"`) && !strings.Contains(payload, `"version":"2.0"`) {
		t.Errorf("payload missing version: %s", payload)
	}

	fresh, freshStore := newTestServer(t)
	res, err = fresh.handleImportSession(ctx, callReq(map[string]any{"payload": payload}))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(resultText(t, res), "imported") {
		t.Errorf("confirmation = %q", resultText(t, res))
	}
	if dims := freshStore.PageDimensions(); dims == nil || dims.Width != 148 {
		t.Errorf("imported dims = %v", dims)
	}

	res, err = fresh.handleImportSession(ctx, callReq(map[string]any{"payload": "{not json"}))
	if err != nil {
		t.Fatalf("import of bad payload should not be a handler error: %v", err)
	}
	if !strings.Contains(resultText(t, res), "rejected") {
		t.Errorf("rejection text = %q", resultText(t, res))
	}
}
