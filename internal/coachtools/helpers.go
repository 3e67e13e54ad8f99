// Package coachtools provides the MCP tool handlers for the OKR
// coaching decision core.
//
// Each tool handler follows the same pattern:
// - A struct with dependencies (session.Store) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// The tools are decision tools, not generation tools: okr_turn
// classifies a user message into structured facts plus composition
// guidance, the host AI writes the actual coaching prose, and
// okr_deliver post-processes that prose before it reaches the user.
package coachtools

import (
	"fmt"
	"strings"

	"github.com/danavoss/northstar/internal/conversation"
	"github.com/danavoss/northstar/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// neuralArg reads and validates the neural_state argument, defaulting
// to neutral when absent.
func neuralArg(req mcp.CallToolRequest) (conversation.NeuralState, error) {
	raw := req.GetString("neural_state", string(conversation.StateNeutral))
	state := conversation.NeuralState(raw)
	if err := conversation.ValidateNeuralState(state); err != nil {
		return "", err
	}
	return state, nil
}

// loadContext fetches a session's conversational state, wrapping the
// not-found case in a tool-friendly message.
func loadContext(store *session.Store, sessionID string) (*session.Context, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("'session_id' is required")
	}
	ctx, err := store.LoadContext(sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session %q: %w", sessionID, err)
	}
	return ctx, nil
}

// resistanceList parses a comma-separated list of anti-pattern ids.
func resistanceList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
