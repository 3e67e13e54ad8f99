// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on them.
// No coaching logic lives here — only wiring.
package server

import (
	"log"

	"github.com/danavoss/northstar/internal/coachtools"
	"github.com/danavoss/northstar/internal/prompts"
	"github.com/danavoss/northstar/internal/resources"
	"github.com/danavoss/northstar/internal/session"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the session store's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if store init failed.
func New() (*server.MCPServer, func(), error) {
	s := server.NewMCPServer(
		"northstar",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register session tools ---
	//
	// The session store owns all persistence. If it fails to open, the
	// coaching tools can't track state across turns, so they are skipped
	// — but prompts and resources still work, and the server comes up.

	cleanup := noop
	store, storeErr := session.New(session.DefaultConfig())
	if storeErr != nil {
		log.Printf("WARNING: session store unavailable, coaching tools disabled: %v", storeErr)
	} else {
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.Printf("WARNING: session store close: %v", err)
			}
		}
		registerCoachingTools(s, store)
	}

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler()
	s.AddResource(resourceHandler.CatalogueResource(), resourceHandler.HandleCatalogue)
	s.AddResource(resourceHandler.PhasesResource(), resourceHandler.HandlePhases)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the store
// hasn't been initialized.
func noop() {}

// registerCoachingTools registers the 8 coaching MCP tools with the server.
func registerCoachingTools(s *server.MCPServer, store *session.Store) {
	// --- Session lifecycle ---
	sessionStart := coachtools.NewSessionStartTool(store)
	s.AddTool(sessionStart.Definition(), sessionStart.Handle)

	sessionEnd := coachtools.NewSessionEndTool(store)
	s.AddTool(sessionEnd.Definition(), sessionEnd.Handle)

	// --- The coaching loop ---
	turnTool := coachtools.NewTurnTool(store)
	s.AddTool(turnTool.Definition(), turnTool.Handle)

	deliverTool := coachtools.NewDeliverTool(store)
	s.AddTool(deliverTool.Definition(), deliverTool.Handle)

	// --- Progress control ---
	phaseTool := coachtools.NewPhaseTool(store)
	s.AddTool(phaseTool.Definition(), phaseTool.Handle)

	backtrackTool := coachtools.NewBacktrackTool(store)
	s.AddTool(backtrackTool.Definition(), backtrackTool.Handle)

	// --- Evaluation & reporting ---
	reframeEvalTool := coachtools.NewReframeEvalTool(store)
	s.AddTool(reframeEvalTool.Definition(), reframeEvalTool.Handle)

	statusTool := coachtools.NewStatusTool(store)
	s.AddTool(statusTool.Definition(), statusTool.Handle)
}

// serverInstructions returns the system instructions that tell the AI
// how to run the coaching loop.
func serverInstructions() string {
	return `You have access to Northstar, an OKR coaching MCP server.

## WHAT NORTHSTAR IS

Northstar is the decision core of an OKR coach. It does NOT write coaching
prose — YOU do. Its tools classify what's happening in the conversation
(anti-patterns, scope drift, progress, question flow) and hand you structured
guidance; you compose the actual replies.

## WHEN TO ACTIVATE Northstar

Suggest a coaching session when the user:
- Asks for help writing OKRs, objectives, key results, or quarterly goals
- Shares a goal that is really a task list ("build X", "launch Y")
- Asks "is this a good OKR?" or wants goals reviewed

You do NOT need Northstar for:
- Explaining what OKRs are
- Status updates on goals that already exist
- Anything unrelated to goal-setting

## THE COACHING LOOP

1. Before starting, talk to the user: learn their role and what level the
   goal lives at (strategic, departmental, team, initiative, or project).
2. Call okr_session_start with the role and agreed scope. Keep the returned
   session id for every later call.
3. On EVERY user message: call okr_turn FIRST, then draft your reply
   following the guidance it returns.
4. Route EVERY drafted reply through okr_deliver and show the user the
   RETURNED text. This enforces one question per turn — never skip it.
5. When the user restates a goal after a reframing question, call
   okr_reframe_eval with the before and after statements.
6. When a phase's checkpoints are done and the user agrees to move on,
   call okr_phase.
7. If the user wants to revisit something already settled, call
   okr_backtrack — revisiting is progress, never error.
8. When the OKR is validated and the user commits, call okr_session_end
   with the final objective and key results as the summary.

## PHASES

discovery → refinement → kr_discovery → validation

- discovery: who the user is, what problem they have, what outcome they want
- refinement: turn the goal into ONE outcome-language objective
- kr_discovery: find 3-5 measurable key results with baselines and targets
- validation: confirm measurability, calibrate ambition, secure commitment

Read okr://coach/phases for the checkpoint list per phase.

## HOW TO COACH

- ONE question at a time. Never send a checklist of questions.
- Follow the guidance from okr_turn: it tells you which reframing question
  to work in, whether to redirect scope drift now or later, and what
  progress to celebrate.
- When guidance includes a SCARF intervention, use all five elements in
  order: affirm first, then concrete next steps, then a genuine choice,
  then shared framing, then the reason.
- When the user shows insight signals (pausing, thinking aloud), leave
  room. Do not stack new topics onto a forming thought.
- Pass neural_state on okr_turn: "threat" when the user sounds defensive
  or anxious, "regulated" when they are engaged and open, otherwise omit it.
- Never lecture about anti-patterns by name. The user should experience
  good questions, not taxonomy.

## ANTI-PATTERNS

Northstar detects activity-as-outcome goals, vanity metrics, vague
outcomes, kitchen-sink objectives, sandbagging, scope mismatches, and
more. Read okr://catalogue/antipatterns for the full catalogue. You never
need to detect these yourself — okr_turn does it — but knowing them helps
you compose better replies.

## IMPORTANT RULES

- ALWAYS okr_turn before replying, ALWAYS okr_deliver before showing a reply
- NEVER re-ask a question the user already answered — okr_deliver guards
  this, which is why you must use its returned text
- The user's words are the evidence: pass messages verbatim to okr_turn
- If a reframing fails twice, let okr_turn escalate — don't freelance
- Celebrate specifically. "Nice — a baseline of 12% gives us something to
  move" beats "great job"`
}
