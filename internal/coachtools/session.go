package coachtools

import (
	"context"
	"fmt"

	"github.com/danavoss/northstar/internal/altitude"
	"github.com/danavoss/northstar/internal/conversation"
	"github.com/danavoss/northstar/internal/session"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// SessionStartTool handles the okr_session_start MCP tool.
type SessionStartTool struct {
	store *session.Store
}

// NewSessionStartTool creates a SessionStartTool.
func NewSessionStartTool(store *session.Store) *SessionStartTool {
	return &SessionStartTool{store: store}
}

// Definition returns the MCP tool definition for okr_session_start.
func (t *SessionStartTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_session_start",
		mcp.WithDescription(
			"Start a new OKR coaching session. Call this once at the beginning, "+
				"after asking the user about their role and what they want to achieve. "+
				"The initial scope anchors altitude tracking for the whole session.",
		),
		mcp.WithString("role",
			mcp.Required(),
			mcp.Description("The user's role, e.g. 'engineering manager'"),
		),
		mcp.WithString("initial_scope",
			mcp.Required(),
			mcp.Description("Altitude the OKR should live at: strategic, departmental, team, initiative, or project"),
		),
		mcp.WithString("objective",
			mcp.Description("Rough statement of what the user wants to achieve, if they gave one"),
		),
		mcp.WithString("id",
			mcp.Description("Session identifier (default: generated UUID)"),
		),
		mcp.WithString("industry",
			mcp.Description("The user's industry, used to pick relevant examples"),
		),
		mcp.WithString("function",
			mcp.Description("The user's function (engineering, sales, ...)"),
		),
		mcp.WithString("company_size",
			mcp.Description("Rough company size band, e.g. 'startup', 'enterprise'"),
		),
		mcp.WithString("resistance_patterns",
			mcp.Description("Comma-separated anti-pattern ids the user has resisted coaching on before"),
		),
	)
}

// Handle processes the okr_session_start tool call.
func (t *SessionStartTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	role := req.GetString("role", "")
	if role == "" {
		return mcp.NewToolResultError("'role' is required"), nil
	}

	scope := altitude.Scope(req.GetString("initial_scope", ""))
	if err := altitude.ValidateScope(scope); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id := req.GetString("id", "")
	if id == "" {
		id = uuid.NewString()
	}

	user := conversation.UserContext{
		Industry:           req.GetString("industry", ""),
		Function:           req.GetString("function", ""),
		CompanySize:        req.GetString("company_size", ""),
		ResistancePatterns: resistanceList(req.GetString("resistance_patterns", "")),
	}

	sessCtx, err := session.NewContext(id, scope, role, user)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	objective := req.GetString("objective", "")
	if err := t.store.CreateSession(id, role, objective, sessCtx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start session: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Session %q started in the discovery phase, anchored at %s scope.\n\n"+
			"Pass every user message to `okr_turn` and route every drafted reply through `okr_deliver`.",
		id, scope,
	)), nil
}

// ─── SessionEndTool ─────────────────────────────────────────────────────────

// SessionEndTool handles the okr_session_end MCP tool.
type SessionEndTool struct {
	store *session.Store
}

// NewSessionEndTool creates a SessionEndTool.
func NewSessionEndTool(store *session.Store) *SessionEndTool {
	return &SessionEndTool{store: store}
}

// Definition returns the MCP tool definition for okr_session_end.
func (t *SessionEndTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_session_end",
		mcp.WithDescription(
			"Mark a coaching session as completed with an optional summary of the final OKR.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier to close"),
		),
		mcp.WithString("summary",
			mcp.Description("The final objective and key results, as agreed with the user"),
		),
	)
}

// Handle processes the okr_session_end tool call.
func (t *SessionEndTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("session_id", "")
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	summary := req.GetString("summary", "")

	if err := t.store.EndSession(id, summary); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to end session: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %q completed", id)), nil
}
