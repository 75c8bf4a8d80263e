package mcpserver

import (
	"context"
	"fmt"
	"os"

	"indesign-mcp/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerMergeTools() {
	connArgs := []mcp.ToolOption{
		mcp.WithString("driver",
			mcp.Description("Source driver: mysql, postgres, mongodb, sqlite"),
			mcp.Required(),
		),
		mcp.WithString("host", mcp.Description("Hostname, connection URI (mongodb), or file path (sqlite)"), mcp.Required()),
		mcp.WithNumber("port", mcp.Description("Port (optional, driver default)")),
		mcp.WithString("database", mcp.Description("Database name")),
		mcp.WithString("username", mcp.Description("Username")),
		mcp.WithString("passwordEnv",
			mcp.Description("Name of the environment variable holding the password. The password itself never crosses the protocol."),
		),
		mcp.WithString("sslMode", mcp.Description("SSL mode (optional, e.g. require)")),
	}

	// ── test_merge_source ──────────────────────────────
	testOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Verify connectivity to a data merge source database"),
	}, connArgs...)
	s.mcp.AddTool(mcp.NewTool("test_merge_source", testOpts...), s.handleTestMergeSource)

	// ── preview_merge_records ──────────────────────────
	previewOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Fetch a sample of merge records from a source database without touching InDesign"),
		mcp.WithString("query", mcp.Description("SQL query, or JSON {collection, filter, ...} for mongodb"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Sample size (default 10, max 50)")),
	}, connArgs...)
	s.mcp.AddTool(mcp.NewTool("preview_merge_records", previewOpts...), s.handlePreviewMergeRecords)

	// ── run_data_merge ─────────────────────────────────
	mergeOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Fetch records from a database, write them to CSV, and run InDesign data merge against a template"),
		mcp.WithString("query", mcp.Description("SQL query, or JSON {collection, filter, ...} for mongodb"), mcp.Required()),
		mcp.WithString("template", mcp.Description("Path to the .indd template with merge fields"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum records to merge (default 500)")),
	}, connArgs...)
	s.mcp.AddTool(mcp.NewTool("run_data_merge", mergeOpts...), s.handleRunDataMerge)
}

// mergeConnFromArgs builds the connection and resolves the password
// from the named environment variable.
func mergeConnFromArgs(req mcp.CallToolRequest) (*domain.MergeConnection, string, error) {
	args := req.GetArguments()
	driver := req.GetString("driver", "")
	host := req.GetString("host", "")
	if driver == "" || host == "" {
		return nil, "", fmt.Errorf("driver and host are required")
	}
	conn := &domain.MergeConnection{
		Driver:   domain.MergeDriver(driver),
		Host:     host,
		Port:     getInt(args, "port", 0),
		Database: req.GetString("database", ""),
		Username: req.GetString("username", ""),
		SSLMode:  req.GetString("sslMode", ""),
	}
	password := ""
	if env := req.GetString("passwordEnv", ""); env != "" {
		password = os.Getenv(env)
		if password == "" {
			return nil, "", fmt.Errorf("environment variable %s is empty or unset", env)
		}
	}
	return conn, password, nil
}

func (s *Server) handleTestMergeSource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conn, password, err := mergeConnFromArgs(req)
	if err != nil {
		return nil, err
	}
	if err := s.merge.TestSource(ctx, conn, password); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Connection to %s source succeeded", conn.Driver)), nil
}

func (s *Server) handlePreviewMergeRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conn, password, err := mergeConnFromArgs(req)
	if err != nil {
		return nil, err
	}
	query := req.GetString("query", "")
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	rs, err := s.merge.PreviewRecords(ctx, conn, password, query, getInt(req.GetArguments(), "limit", 0))
	if err != nil {
		return nil, err
	}
	return jsonResult(rs)
}

func (s *Server) handleRunDataMerge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	conn, password, err := mergeConnFromArgs(req)
	if err != nil {
		return nil, err
	}
	query := req.GetString("query", "")
	template := req.GetString("template", "")
	if query == "" || template == "" {
		return nil, fmt.Errorf("query and template are required")
	}
	result, err := s.merge.RunMerge(ctx, conn, password, query, template, getInt(req.GetArguments(), "limit", 0))
	if err != nil {
		return nil, err
	}
	return jsonResult(result)
}
