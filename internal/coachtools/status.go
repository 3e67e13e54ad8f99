package coachtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/danavoss/northstar/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatusTool handles the okr_status MCP tool.
type StatusTool struct {
	store *session.Store
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(store *session.Store) *StatusTool {
	return &StatusTool{store: store}
}

// Definition returns the MCP tool definition for okr_status.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("okr_status",
		mcp.WithDescription(
			"Show where a coaching session stands: phase, checkpoint progress, "+
				"altitude state, queued questions, and recent turns. Useful when "+
				"resuming a session or when the user asks how far along they are.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
		mcp.WithNumber("recent_turns",
			mcp.Description("How many recent turns to include (default 5)"),
		),
	)
}

// Handle processes the okr_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	sess, err := t.store.GetSession(sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessCtx, err := loadContext(t.store, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Session %s\n\n", sess.ID))
	sb.WriteString(fmt.Sprintf("**Role:** %s | **Started:** %s", sess.Role, sess.StartedAt))
	if sess.EndedAt != nil {
		sb.WriteString(fmt.Sprintf(" | **Ended:** %s", *sess.EndedAt))
	}
	sb.WriteString("\n\n")
	if sess.Objective != "" {
		sb.WriteString(fmt.Sprintf("**Objective so far:** %s\n\n", sess.Objective))
	}

	cp := sessCtx.Checkpoints
	sb.WriteString(fmt.Sprintf("## Phase: %s (%d/%d checkpoints, %.0f%%)\n\n",
		sessCtx.Phase, cp.CompletedCheckpoints, cp.TotalCheckpoints, cp.CompletionPercentage))
	for _, c := range cp.Checkpoints {
		mark := " "
		if c.IsComplete {
			mark = "x"
		}
		sb.WriteString(fmt.Sprintf("- [%s] %s\n", mark, c.Label))
	}
	sb.WriteString(fmt.Sprintf("\nStreak: %d (longest %d) | Backtracks: %d\n\n",
		cp.CurrentStreak, cp.LongestStreak, cp.BacktrackingCount))

	alt := sessCtx.Altitude
	sb.WriteString("## Altitude\n\n")
	sb.WriteString(fmt.Sprintf("Anchored at **%s**, currently **%s**. Stability %.2f, %d drift event(s).\n\n",
		alt.InitialScope, alt.CurrentScope, alt.StabilityScore, len(alt.DriftEvents)))

	if n := len(sessCtx.Questions.PendingQuestions); n > 0 {
		sb.WriteString(fmt.Sprintf("## Queued Questions (%d)\n\n", n))
		for _, q := range sessCtx.Questions.PendingQuestions {
			sb.WriteString(fmt.Sprintf("- %s\n", q))
		}
		sb.WriteString("\n")
	}

	limit := intArg(req, "recent_turns", 5)
	turns, err := t.store.RecentTurns(sessionID, limit)
	if err == nil && len(turns) > 0 {
		sb.WriteString("## Recent Turns\n\n")
		for _, turn := range turns {
			line := fmt.Sprintf("- %s: %s", turn.CreatedAt, excerptLine(turn.Message))
			if turn.TopPattern != "" {
				line += fmt.Sprintf(" _(pattern: %s)_", turn.TopPattern)
			}
			sb.WriteString(line + "\n")
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// excerptLine trims a message to one short line for status display.
func excerptLine(message string) string {
	msg := strings.ReplaceAll(strings.TrimSpace(message), "\n", " ")
	runes := []rune(msg)
	if len(runes) > 80 {
		return string(runes[:80]) + "…"
	}
	return msg
}
