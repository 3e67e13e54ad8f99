package coachtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/danavoss/northstar/internal/antipattern"
	"github.com/danavoss/northstar/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// ReframeEvalTool handles the okr_reframe_eval MCP tool.
type ReframeEvalTool struct {
	store *session.Store
}

// NewReframeEvalTool creates a ReframeEvalTool.
func NewReframeEvalTool(store *session.Store) *ReframeEvalTool {
	return &ReframeEvalTool{store: store}
}

// Definition returns the MCP tool definition for okr_reframe_eval.
func (t *ReframeEvalTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_reframe_eval",
		mcp.WithDescription(
			"Check whether a reframing attempt worked by comparing the user's goal "+
				"statement before and after. Call this when the user restates their goal "+
				"following a reframing question. Success resets the escalation counter "+
				"for that pattern; failure means the next okr_turn will escalate.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Active session identifier"),
		),
		mcp.WithString("before",
			mcp.Required(),
			mcp.Description("The user's goal statement before the reframing question"),
		),
		mcp.WithString("after",
			mcp.Required(),
			mcp.Description("The user's restated goal"),
		),
		mcp.WithString("pattern_id",
			mcp.Description("Anti-pattern id the reframing targeted; on success its escalation counter resets"),
		),
	)
}

// Handle processes the okr_reframe_eval tool call.
func (t *ReframeEvalTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	before := req.GetString("before", "")
	after := req.GetString("after", "")
	if before == "" || after == "" {
		return mcp.NewToolResultError("'before' and 'after' are both required"), nil
	}

	sessCtx, err := loadContext(t.store, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	eval := antipattern.EvaluateReframingSuccess(before, after, &sessCtx.User)

	patternID := req.GetString("pattern_id", "")
	if eval.Success {
		if patternID != "" {
			delete(sessCtx.ReframeAttempts, patternID)
		}
		sessCtx.ReinforceHabit("outcome_framing")
	} else if patternID != "" && !sessCtx.User.HasResistance(patternID) {
		// A failed reframing is a resistance signal worth remembering.
		sessCtx.User.ResistancePatterns = append(sessCtx.User.ResistancePatterns, patternID)
	}

	if err := t.store.SaveContext(sessionID, sessCtx); err != nil {
		return nil, fmt.Errorf("saving session state: %w", err)
	}

	var sb strings.Builder
	if eval.Success {
		sb.WriteString("# Reframing Succeeded\n\n")
	} else {
		sb.WriteString("# Reframing Not There Yet\n\n")
	}
	sb.WriteString(fmt.Sprintf("**Why:** %s\n\n", eval.Reason))
	sb.WriteString(fmt.Sprintf("| | Before | After |\n|---|---|---|\n| Pattern confidence | %.2f | %.2f |\n| Quality score | %d | %d |\n\n",
		eval.ConfidenceBefore, eval.ConfidenceAfter, eval.QualityBefore, eval.QualityAfter))
	if eval.Success {
		sb.WriteString("Acknowledge the improvement specifically — name what got sharper — and move to the next open checkpoint.\n")
	} else {
		sb.WriteString("Don't repeat the same question. The next `okr_turn` on their restated goal will escalate the approach.\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}
