package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("design_page",
		mcp.WithPromptDescription("Guide through laying out a single page with safe-area-aware positioning"),
		mcp.WithArgument("purpose",
			mcp.ArgumentDescription("What the page is for (e.g. flyer, product sheet, poster)"),
			mcp.RequiredArgument(),
		),
	), s.handleDesignPagePrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("database_merge",
		mcp.WithPromptDescription("Set up a database-backed data merge end to end"),
		mcp.WithArgument("source",
			mcp.ArgumentDescription("Database kind holding the records (mysql, postgres, mongodb, sqlite)"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("description",
			mcp.ArgumentDescription("What the merged documents should contain"),
			mcp.RequiredArgument(),
		),
	), s.handleDatabaseMergePrompt)
}

func (s *Server) handleDesignPagePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	purpose := req.Params.Arguments["purpose"]
	text := fmt.Sprintf(`Lay out a %s page in InDesign. Work through these steps:

1. Call get_session_summary. If no document is tracked, create one with create_document (A4 is 210x297).
2. Call get_page_bounds to see the safe area, absolute bounds, and center.
3. For each item, prefer find_optimal_position with a named anchor over hand-picked coordinates, then create it with create_text_frame / create_rectangle / place_image. Omit x and y to let the engine place items in the safe area.
4. Validate any hand-picked rectangle with validate_position before creating it, and apply the suggested correction when validation fails.
5. Define swatches and paragraph styles before the content that uses them.
6. Finish with export_pdf.`, purpose)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Design a %s page", purpose),
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.TextContent{Type: "text", Text: text},
			},
		},
	}, nil
}

func (s *Server) handleDatabaseMergePrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	source := req.Params.Arguments["source"]
	description := req.Params.Arguments["description"]
	text := fmt.Sprintf(`Set up a data merge producing: %s

The records live in a %s database. Work through these steps:

1. Call test_merge_source with the connection details. Pass the password via passwordEnv, never inline.
2. Call preview_merge_records with the query to confirm column names; those become the merge field names.
3. Make sure the .indd template references each column as a merge field (<<column>>).
4. Call run_data_merge with the same connection, the full query, and the template path.
5. Export the merged document with export_pdf.`, description, source)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Data merge from %s", source),
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.TextContent{Type: "text", Text: text},
			},
		},
	}, nil
}
