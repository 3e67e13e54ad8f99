package coachtools

import (
	"context"
	"fmt"

	"github.com/danavoss/northstar/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// BacktrackTool handles the okr_backtrack MCP tool.
type BacktrackTool struct {
	store *session.Store
}

// NewBacktrackTool creates a BacktrackTool.
func NewBacktrackTool(store *session.Store) *BacktrackTool {
	return &BacktrackTool{store: store}
}

// Definition returns the MCP tool definition for okr_backtrack.
func (t *BacktrackTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_backtrack",
		mcp.WithDescription(
			"Record that the user is revisiting an already-settled checkpoint — "+
				"for example they agreed on a scope and now want to rethink it. "+
				"The checkpoint reopens and the tool returns supportive framing to "+
				"build your reply around: revisiting is treated as progress, never error.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Active session identifier"),
		),
		mcp.WithString("from_checkpoint",
			mcp.Required(),
			mcp.Description("ID of the completed checkpoint being reopened"),
		),
		mcp.WithString("to_checkpoint",
			mcp.Description("ID of the checkpoint the conversation is returning to (default: same as from_checkpoint)"),
		),
		mcp.WithString("reason",
			mcp.Description("The user's stated reason for revisiting, if they gave one"),
		),
		mcp.WithString("neural_state",
			mcp.Description("Your read of the user's state: regulated, neutral (default), or threat"),
		),
	)
}

// Handle processes the okr_backtrack tool call.
func (t *BacktrackTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	fromID := req.GetString("from_checkpoint", "")
	if fromID == "" {
		return mcp.NewToolResultError("'from_checkpoint' is required"), nil
	}
	toID := req.GetString("to_checkpoint", fromID)
	reason := req.GetString("reason", "")

	neural, err := neuralArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessCtx, err := loadContext(t.store, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	framing := sessCtx.Checkpoints.HandleBacktracking(fromID, toID, reason, neural)
	if framing == "" {
		return mcp.NewToolResultError(fmt.Sprintf(
			"checkpoint %q is not complete in the current phase — nothing to reopen", fromID,
		)), nil
	}

	if err := t.store.SaveContext(sessionID, sessCtx); err != nil {
		return nil, fmt.Errorf("saving session state: %w", err)
	}

	return mcp.NewToolResultText(
		"Checkpoint reopened. Build your reply around this framing:\n\n" + framing,
	), nil
}
