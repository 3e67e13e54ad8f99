package coachtools

import (
	"context"
	"fmt"

	"github.com/danavoss/northstar/internal/coach"
	"github.com/danavoss/northstar/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// TurnTool handles the okr_turn MCP tool — the core classification
// step of the coaching loop.
type TurnTool struct {
	store *session.Store
}

// NewTurnTool creates a TurnTool.
func NewTurnTool(store *session.Store) *TurnTool {
	return &TurnTool{store: store}
}

// Definition returns the MCP tool definition for okr_turn.
func (t *TurnTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_turn",
		mcp.WithDescription(
			"Classify one user message before responding to it. This is the core of the "+
				"coaching loop: it detects OKR anti-patterns, tracks altitude drift, infers "+
				"checkpoint completions, and returns composition guidance for your reply. "+
				"Call it on EVERY user message in an active session, then draft your reply "+
				"following the guidance, then call okr_deliver with the draft.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Active session identifier"),
		),
		mcp.WithString("message",
			mcp.Required(),
			mcp.Description("The user's message, verbatim"),
		),
		mcp.WithString("neural_state",
			mcp.Description("Your read of the user's state this turn: regulated, neutral (default), or threat"),
		),
	)
}

// Handle processes the okr_turn tool call.
func (t *TurnTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	message := req.GetString("message", "")
	if message == "" {
		return mcp.NewToolResultError("'message' is required"), nil
	}

	neural, err := neuralArg(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessCtx, err := loadContext(t.store, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	analysis := coach.Classify(sessCtx, message, neural)

	if err := t.store.SaveContext(sessionID, sessCtx); err != nil {
		return nil, fmt.Errorf("saving session state: %w", err)
	}

	// Turn bookkeeping feeds okr_status; failure there shouldn't fail
	// the turn.
	rec := session.TurnRecord{
		SessionID: sessionID,
		Message:   message,
		Scope:     string(sessCtx.Altitude.CurrentScope),
	}
	if top := analysis.Detection.Top(); top != nil {
		rec.TopPattern = top.ID
	}
	if analysis.Intervention != nil {
		rec.Timing = string(analysis.Intervention.Timing)
	}
	_, _ = t.store.RecordTurn(rec)

	return mcp.NewToolResultText(coach.ComposeGuidance(analysis, sessCtx)), nil
}
