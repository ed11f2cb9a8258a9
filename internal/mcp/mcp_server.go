// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wctc-net-database/gradedash/internal/contract"
)

// filterOptions are the filter arguments shared by the read-only tools.
func filterOptions(withStatus bool) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithString("assignment", mcp.Description("Assignment pattern (e.g. 'w1-file-i-o'). Defaults to all assignments.")),
		mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD, RFC3339 or 'N days ago').")),
		mcp.WithString("end", mcp.Description("End date; a bare date covers the whole day.")),
		mcp.WithNumber("days", mcp.Description("Only include the last N days when start is not given.")),
	}
	if withStatus {
		opts = append(opts, mcp.WithString("status", mcp.Description("Status filter. Defaults to 'all'."),
			mcp.Enum("all", "failed", "review", "stretch", "template")))
	}
	return opts
}

// NewMCPServer initializes and configures the grading dashboard MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager, loader contract.DatasetLoader) *server.MCPServer {
	s := server.NewMCPServer(
		"Grading Dashboard Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		loader:  loader,
	}

	// --- 1. Tool: get_dashboard ---
	s.AddTool(mcp.NewTool("get_dashboard",
		append([]mcp.ToolOption{
			mcp.WithDescription("Get the dashboard cards (one per student and assignment) with summary counters."),
		}, filterOptions(true)...)...,
	), h.handleGetDashboard)

	// --- 2. Tool: list_students ---
	s.AddTool(mcp.NewTool("list_students",
		append([]mcp.ToolOption{
			mcp.WithDescription("List every student with average score, trend, build counts and stretch goals."),
		}, filterOptions(false)...)...,
	), h.handleListStudents)

	// --- 3. Tool: get_student_history ---
	s.AddTool(mcp.NewTool("get_student_history",
		append([]mcp.ToolOption{
			mcp.WithDescription("Get one student's statistics and dated submission timeline."),
			mcp.WithString("name", mcp.Description("Student name (case-insensitive)."), mcp.Required()),
		}, filterOptions(false)...)...,
	), h.handleGetStudentHistory)

	// --- 4. Tool: get_feedback ---
	s.AddTool(mcp.NewTool("get_feedback",
		mcp.WithDescription("Generate review text for a student's latest (or given) assignment."),
		mcp.WithString("name", mcp.Description("Student name (case-insensitive)."), mcp.Required()),
		mcp.WithString("assignment", mcp.Description("Assignment pattern. Defaults to the latest submission.")),
	), h.handleGetFeedback)

	// --- 5. Tool: set_stretch_credit ---
	s.AddTool(mcp.NewTool("set_stretch_credit",
		mcp.WithDescription("Mark a stretch goal as credited (or not) for a student."),
		mcp.WithString("student", mcp.Description("Student name (case-insensitive)."), mcp.Required()),
		mcp.WithString("goal_id", mcp.Description("Stretch goal id (exact case)."), mcp.Required()),
		mcp.WithBoolean("credited", mcp.Description("True to credit, false to remove the credit. Defaults to true.")),
	), h.handleSetStretchCredit)

	return s
}

// StartMCPServer starts the grading dashboard MCP server over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager, loader contract.DatasetLoader) error {
	s := NewMCPServer(baseCfg, mgr, loader)
	return server.ServeStdio(s)
}
