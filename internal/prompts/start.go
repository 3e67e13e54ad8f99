// Package prompts implements MCP prompt handlers for the OKR coach.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the okr-start MCP prompt.
// It guides the AI into the coaching loop for a new session.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("okr-start",
		mcp.WithPromptDescription(
			"Start an OKR coaching session. The coach walks you from a rough goal "+
				"to a focused objective with measurable key results, one question at a time.",
		),
		mcp.WithArgument("goal",
			mcp.ArgumentDescription("Your goal in your own words, however rough"),
		),
	)
}

// Handle processes the okr-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	goal := ""
	if args := req.Params.Arguments; args != nil {
		goal = args["goal"]
	}

	goalLine := "I want to work on an OKR but haven't put the goal into words yet."
	if goal != "" {
		goalLine = fmt.Sprintf("Here's my goal, roughly: %s", goal)
	}

	return &mcp.GetPromptResult{
		Description: "Start OKR coaching session",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"%s\n\n"+
						"Please coach me through writing this as an OKR:\n"+
						"1. Ask me about my role and what level this goal lives at (team? department? a single project?)\n"+
						"2. Call `okr_session_start` with my role and the scope we agree on\n"+
						"3. For every message I send, call `okr_turn` first and follow its guidance\n"+
						"4. Route every reply you draft through `okr_deliver` before showing it to me\n"+
						"5. Ask me one question at a time — no checklists",
					goalLine,
				)),
			},
		},
	}, nil
}
