// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Othala tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starward/othala/internal/models"
	"github.com/starward/othala/internal/recordservice"
	"github.com/starward/othala/internal/store"
)

// Server wraps the MCP server with Othala tools, bound to one root.
type Server struct {
	mcp  *server.MCPServer
	svc  *recordservice.Service
	root string
}

// New creates a new MCP server with all Othala tools registered.
func New(svc *recordservice.Service, root string) *Server {
	s := &Server{svc: svc, root: root}

	s.mcp = server.NewMCPServer(
		"Othala",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_records",
		mcp.WithDescription("Search journal entries and topic summaries; results are scored and sorted."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchRecords)

	s.mcp.AddTool(mcp.NewTool("read_record",
		mcp.WithDescription("Read the full YAML content of a record by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id (e.g. semaphore-protocol)")),
	), s.readRecord)

	s.mcp.AddTool(mcp.NewTool("create_record",
		mcp.WithDescription("Create a new record from a YAML document. "+
			"Content MUST follow the canonical record format (see the "+
			"get_record_contract tool or the othala://record-format resource); "+
			"it is schema-validated before being stored."),
		mcp.WithString("content", mcp.Required(), mcp.Description("YAML record following the Othala record format contract")),
	), s.createRecord)

	s.mcp.AddTool(mcp.NewTool("get_record_contract",
		mcp.WithDescription("Returns the canonical Othala record format contract. "+
			"Call this before creating records to ensure correct structure."),
	), s.getRecordContract)

	s.mcp.AddTool(mcp.NewTool("list_records",
		mcp.WithDescription("List all records, optionally filtered by type, status, or tag."),
		mcp.WithString("type", mcp.Description("Optional kind filter: entry or summary")),
		mcp.WithString("status", mcp.Description("Optional status filter")),
		mcp.WithString("tag", mcp.Description("Optional tag filter")),
	), s.listRecords)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all records that link to the specified record, with inverse relationships."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Record id to find backlinks for")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("add_link",
		mcp.WithDescription("Add a typed link between two existing records."),
		mcp.WithString("from", mcp.Required(), mcp.Description("Source record id")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Target record id")),
		mcp.WithString("relationship", mcp.Required(), mcp.Description("Relationship symbol, e.g. references")),
		mcp.WithString("notes", mcp.Description("Optional note on the link")),
	), s.addLink)

	s.mcp.AddTool(mcp.NewTool("validate_records",
		mcp.WithDescription("Validate every record against its schema and report violations."),
	), s.validateRecords)

	// Resource: record format contract.
	s.mcp.AddResource(
		mcp.NewResource("othala://record-format", "Record Format Contract",
			mcp.WithResourceDescription("Canonical YAML record format that all records must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, s.root, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, err := store.ReadRaw(id, s.root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if raw == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func (s *Server) createRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := models.Decode([]byte(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, err := s.svc.CreateRecord(ctx, s.root, rec); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", rec.Meta().ID)), nil
}

func (s *Server) listRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := recordservice.ListFilter{
		Kind:   req.GetString("type", ""),
		Status: req.GetString("status", ""),
		Tag:    req.GetString("tag", ""),
	}
	items, err := s.svc.ListRecords(ctx, s.root, filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var lines []string
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", it.ID, it.Kind, it.Topic))
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no records"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl, err := s.svc.Backlinks(ctx, s.root, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	out, _ := json.MarshalIndent(bl, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	relationship, err := req.RequireString("relationship")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	added, err := s.svc.AddLink(ctx, s.root, from, to, relationship, req.GetString("notes", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !added {
		return mcp.NewToolResultText("link already exists, skipped"), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("linked %s -[%s]-> %s", from, relationship, to)), nil
}

func (s *Server) validateRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results, err := s.svc.ValidateAll(ctx, s.root)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	invalid := map[string]any{}
	for id, res := range results {
		if !res.Valid {
			invalid[id] = res.Errors
		}
	}
	if len(invalid) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("all %d records valid", len(results))), nil
	}
	out, _ := json.MarshalIndent(invalid, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRecordContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RecordFormatContract), nil
}

func (s *Server) readRecordFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "othala://record-format",
			MIMEType: "text/markdown",
			Text:     RecordFormatContract,
		},
	}, nil
}
