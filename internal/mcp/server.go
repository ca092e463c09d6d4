// Package mcp exposes the persisted brief documents over the Model Context
// Protocol so downstream dashboards and agents can read them as tools.
//
// All tools are read-only; the pipeline remains the only writer. Supports
// stdio transport.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/complianceworxs-lifescience/chief-of-staff/internal/docstore"
	"github.com/complianceworxs-lifescience/chief-of-staff/internal/report"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store   *docstore.Store
	Version string
}

// docTool describes one read-only document tool.
type docTool struct {
	name        string
	namespace   string
	description string
	// empty is the JSON returned when the document has never been written.
	empty string
}

var docTools = []docTool{
	{
		name:        "brief_scoreboard",
		namespace:   report.DocScoreboard,
		description: "Read the merged metrics scoreboard document (revenue, initiatives, alignment, autonomy, risk, narrative).",
		empty:       "{}",
	},
	{
		name:        "brief_actions",
		namespace:   report.DocActions,
		description: "Read the ordered action-item collection. Titles are unique.",
		empty:       "[]",
	},
	{
		name:        "brief_meetings",
		namespace:   report.DocMeetings,
		description: "Read the meeting records (digest summaries and scheduled reviews).",
		empty:       "[]",
	},
	{
		name:        "brief_insights",
		namespace:   report.DocInsights,
		description: "Read the extracted operational insights.",
		empty:       "[]",
	},
	{
		name:        "brief_decisions",
		namespace:   report.DocDecisions,
		description: "Read the extracted operational decisions with owners and due dates.",
		empty:       "[]",
	},
}

// NewServer creates the MCP server with one read tool per document plus a
// stats tool.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}

	s := server.NewMCPServer(
		"chief-of-staff",
		ver,
		server.WithToolCapabilities(false),
	)

	for _, dt := range docTools {
		registerDocTool(s, cfg.Store, dt)
	}
	registerStatsTool(s, cfg.Store)

	return s
}

func registerDocTool(s *server.MCPServer, st *docstore.Store, dt docTool) {
	tool := mcp.NewTool(dt.name,
		mcp.WithDescription(dt.description),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := st.Get(ctx, dt.namespace)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading %s: %v", dt.namespace, err)), nil
		}
		if raw == nil {
			return mcp.NewToolResultText(dt.empty), nil
		}
		return mcp.NewToolResultText(string(raw)), nil
	})
}

func registerStatsTool(s *server.MCPServer, st *docstore.Store) {
	tool := mcp.NewTool("brief_stats",
		mcp.WithDescription("Document and archive counts for the brief store."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := st.Stats(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reading stats: %v", err)), nil
		}
		out, err := json.Marshal(stats)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding stats: %v", err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	})
}

// ServeStdio runs the server over stdio until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}
