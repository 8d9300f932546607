// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Laguz note tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/noteservice"
	"github.com/starford/laguz/internal/store"
)

// Server wraps the MCP server with Laguz tools.
type Server struct {
	mcp *server.MCPServer
	svc *noteservice.Service
}

// New creates a new MCP server with all Laguz tools registered.
func New(svc *noteservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Laguz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note with optional tags and associations. "+
			"The title is derived from the content when omitted."),
		mcp.WithString("content", mcp.Required(), mcp.Description("The note content")),
		mcp.WithString("title", mcp.Description("Optional title")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithString("opportunity_id", mcp.Description("Optional opportunity to associate with")),
		mcp.WithString("task_id", mcp.Description("Optional task to associate with")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("get_note",
		mcp.WithDescription("Read a note by id, including its plaintext content."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.getNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Update a note's content, title, or tags. Omitted fields are unchanged."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("content", mcp.Description("New content")),
		mcp.WithString("title", mcp.Description("New title")),
		mcp.WithString("tags", mcp.Description("Comma-separated replacement tags")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Delete a note by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Ranked full-text search through note titles and content, "+
			"with optional tag and opportunity filters."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("tags", mcp.Description("Comma-separated tag filter (OR semantics)")),
		mcp.WithString("opportunity_id", mcp.Description("Filter by opportunity reference")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes without text scoring, newest first."),
		mcp.WithString("tags", mcp.Description("Comma-separated tag filter (OR semantics)")),
		mcp.WithString("opportunity_id", mcp.Description("Filter by opportunity reference")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("create_opportunity",
		mcp.WithDescription("Create a new opportunity for organizing notes."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Opportunity title")),
		mcp.WithString("description", mcp.Description("Optional description")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
	), s.createOpportunity)

	s.mcp.AddTool(mcp.NewTool("list_opportunities",
		mcp.WithDescription("List opportunities with note counts, newest first."),
		mcp.WithString("status", mcp.Description("Filter by status (open, won, lost, closed)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tag filter")),
	), s.listOpportunities)

	s.mcp.AddTool(mcp.NewTool("analyze_text",
		mcp.WithDescription("Analyze text for keywords, workflow patterns, suggested tags, "+
			"and similar opportunities."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text content to analyze")),
	), s.analyzeText)

	s.mcp.AddTool(mcp.NewTool("get_stats",
		mcp.WithDescription("Return store and search index statistics."),
	), s.getStats)

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

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	note, err := s.svc.CreateNote(ctx, noteservice.CreateNoteInput{
		Title:         req.GetString("title", ""),
		Content:       content,
		Tags:          splitTags(req.GetString("tags", "")),
		OpportunityID: req.GetString("opportunity_id", ""),
		TaskID:        req.GetString("task_id", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note)
}

func (s *Server) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.GetNote(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note)
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var in noteservice.UpdateNoteInput
	if v := req.GetString("content", ""); v != "" {
		in.Content = &v
	}
	if v := req.GetString("title", ""); v != "" {
		in.Title = &v
	}
	if v := req.GetString("tags", ""); v != "" {
		in.Tags = splitTags(v)
	}

	note, err := s.svc.UpdateNote(ctx, id, in)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note)
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	existed, err := s.svc.DeleteNote(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !existed {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, noteservice.SearchOptions{
		Tags:          splitTags(req.GetString("tags", "")),
		OpportunityID: req.GetString("opportunity_id", ""),
		Limit:         20,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	notes, err := s.svc.ListNotes(ctx, noteservice.ListOptions{
		Tags:          splitTags(req.GetString("tags", "")),
		OpportunityID: req.GetString("opportunity_id", ""),
		Limit:         50,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(notes)
}

func (s *Server) createOpportunity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opp, err := s.svc.CreateOpportunity(ctx, noteservice.CreateOpportunityInput{
		Title:       title,
		Description: req.GetString("description", ""),
		Tags:        splitTags(req.GetString("tags", "")),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(opp)
}

func (s *Server) listOpportunities(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opps, err := s.svc.ListOpportunities(ctx, store.OpportunityFilter{
		Status: req.GetString("status", ""),
		Tags:   splitTags(req.GetString("tags", "")),
		Limit:  20,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(opps)
}

func (s *Server) analyzeText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	result, err := s.svc.AnalyzeText(ctx, content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(result)
}

func (s *Server) getStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(stats)
}

// splitTags parses a comma-separated tag string, trimming whitespace and
// dropping empty entries. Returns nil for an empty input.
func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
