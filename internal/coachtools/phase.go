package coachtools

import (
	"context"
	"fmt"

	"github.com/danavoss/northstar/internal/checkpoint"
	"github.com/danavoss/northstar/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// PhaseTool handles the okr_phase MCP tool.
type PhaseTool struct {
	store *session.Store
}

// NewPhaseTool creates a PhaseTool.
func NewPhaseTool(store *session.Store) *PhaseTool {
	return &PhaseTool{store: store}
}

// Definition returns the MCP tool definition for okr_phase.
func (t *PhaseTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_phase",
		mcp.WithDescription(
			"Move the session to a new coaching phase: discovery, refinement, "+
				"kr_discovery, or validation. Call this when the current phase's "+
				"checkpoints are complete and the user agrees to move on. The new "+
				"phase starts with a fresh checkpoint set — transitioning early "+
				"discards remaining progress in the old phase.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Active session identifier"),
		),
		mcp.WithString("phase",
			mcp.Required(),
			mcp.Description("Target phase: discovery, refinement, kr_discovery, or validation"),
		),
	)
}

// Handle processes the okr_phase tool call.
func (t *PhaseTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	phase := checkpoint.Phase(req.GetString("phase", ""))
	if err := checkpoint.ValidatePhase(phase); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	sessCtx, err := loadContext(t.store, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	prior := sessCtx.Phase
	if err := sessCtx.Checkpoints.TransitionToPhase(phase); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessCtx.Phase = phase

	if err := t.store.SaveContext(sessionID, sessCtx); err != nil {
		return nil, fmt.Errorf("saving session state: %w", err)
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Phase moved from %s to %s. %d checkpoints ahead — keep passing user messages to `okr_turn`.",
		prior, phase, checkpoint.CheckpointCount(phase),
	)), nil
}
