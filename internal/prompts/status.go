package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the okr-status MCP prompt.
// It instructs the AI to read and present the session's progress.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("okr-status",
		mcp.WithPromptDescription(
			"Check where your OKR coaching session stands: phase, checkpoint "+
				"progress, and what's left before the OKR is ready.",
		),
		mcp.WithArgument("session_id",
			mcp.ArgumentDescription("Session to report on (default: the active session)"),
		),
	)
}

// Handle processes the okr-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	sessionID := ""
	if args := req.Params.Arguments; args != nil {
		sessionID = args["session_id"]
	}

	instruction := "Please run `okr_status` for my current coaching session"
	if sessionID != "" {
		instruction = "Please run `okr_status` with session_id='" + sessionID + "'"
	}

	return &mcp.GetPromptResult{
		Description: "OKR coaching session status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					instruction + ".\n\n" +
						"Then:\n" +
						"1. Show me the phase and checkpoint progress in a clear, visual format\n" +
						"2. If the conversation has drifted from its original altitude, say so plainly\n" +
						"3. Tell me exactly what we should settle next\n" +
						"4. If the current phase is complete, suggest moving to the next one",
				),
			},
		},
	}, nil
}
