package coachtools

import (
	"context"
	"fmt"

	"github.com/danavoss/northstar/internal/coach"
	"github.com/danavoss/northstar/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// DeliverTool handles the okr_deliver MCP tool — the outbound half of
// the coaching loop, enforcing the one-question-per-turn rule.
type DeliverTool struct {
	store *session.Store
}

// NewDeliverTool creates a DeliverTool.
func NewDeliverTool(store *session.Store) *DeliverTool {
	return &DeliverTool{store: store}
}

// Definition returns the MCP tool definition for okr_deliver.
func (t *DeliverTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_deliver",
		mcp.WithDescription(
			"Post-process your drafted coaching reply before showing it to the user. "+
				"If the draft asks more than one question, the first is kept and the rest "+
				"are queued for later turns; questions the user has already been asked are "+
				"replaced. Always show the RETURNED text to the user, not your draft.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Active session identifier"),
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Your drafted reply, verbatim"),
		),
	)
}

// Handle processes the okr_deliver tool call.
func (t *DeliverTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	text := req.GetString("text", "")
	if text == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	sessCtx, err := loadContext(t.store, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := coach.Deliver(sessCtx, text)

	if err := t.store.SaveContext(sessionID, sessCtx); err != nil {
		return nil, fmt.Errorf("saving session state: %w", err)
	}

	return mcp.NewToolResultText(result.ResponseToUser), nil
}
