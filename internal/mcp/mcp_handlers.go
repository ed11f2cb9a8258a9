package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/wctc-net-database/gradedash/core"
	"github.com/wctc-net-database/gradedash/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
	loader  contract.DatasetLoader
}

// prepare clones the base config with the request's filter and loads a fresh session.
func (h *toolHandler) prepare(ctx context.Context, request mcp.CallToolRequest) (*contract.Config, *core.Session, *mcp.CallToolResult) {
	cfg := h.baseCfg.Clone()
	err := contract.RevalidateFilters(cfg, contract.FilterInput{
		Assignment: request.GetString("assignment", ""),
		Status:     request.GetString("status", ""),
		Start:      request.GetString("start", ""),
		End:        request.GetString("end", ""),
		Days:       request.GetInt("days", 0),
	})
	if err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("invalid filter: %v", err))
	}

	session, err := core.NewSession(ctx, cfg, h.mgr, h.loader)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("failed to load grading data: %v", err))
	}
	return cfg, session, nil
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDashboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, session, errResult := h.prepare(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(session.Dashboard(cfg))
}

func (h *toolHandler) handleListStudents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, session, errResult := h.prepare(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	students, err := session.Students(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list students: %v", err)), nil
	}
	return jsonResult(students)
}

func (h *toolHandler) handleGetStudentHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(request.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	cfg, session, errResult := h.prepare(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	result, err := session.StudentHistory(ctx, cfg, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetFeedback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(request.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	cfg, session, errResult := h.prepare(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	result, err := session.Feedback(ctx, cfg, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("feedback failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleSetStretchCredit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	student := strings.TrimSpace(request.GetString("student", ""))
	goalID := strings.TrimSpace(request.GetString("goal_id", ""))
	credited := request.GetBool("credited", true)
	if student == "" || goalID == "" {
		return mcp.NewToolResultError("student and goal_id are required"), nil
	}

	var store contract.CreditStore
	if h.mgr != nil && h.baseCfg.CreditsEnabled() {
		store = h.mgr.GetCreditStore()
	}
	if store == nil {
		return mcp.NewToolResultError("credit storage is not configured"), nil
	}
	if err := store.Set(ctx, student, goalID, credited); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to store credit: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"student":  student,
		"goal_id":  goalID,
		"credited": credited,
	})
}
