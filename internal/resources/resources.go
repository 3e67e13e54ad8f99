// Package resources implements MCP resource handlers for the OKR coach.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (okr://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/danavoss/northstar/internal/antipattern"
	"github.com/danavoss/northstar/internal/checkpoint"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler manages the coach's resource endpoints.
type Handler struct{}

// NewHandler creates a resource Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// ─── Anti-pattern catalogue ─────────────────────────────────────────────────

// patternView is the read-only projection of a catalogue entry; the
// compiled regexes stay internal.
type patternView struct {
	ID           string                        `json:"id"`
	Name         string                        `json:"name"`
	Description  string                        `json:"description"`
	Severity     antipattern.Severity          `json:"severity"`
	Intervention antipattern.InterventionType  `json:"intervention"`
	Strategy     antipattern.ReframingStrategy `json:"strategy"`
}

// CatalogueResource returns the MCP resource definition for the
// anti-pattern catalogue.
func (h *Handler) CatalogueResource() mcp.Resource {
	return mcp.NewResource(
		"okr://catalogue/antipatterns",
		"OKR Anti-Pattern Catalogue",
		mcp.WithResourceDescription("The anti-patterns the coach detects, with severities and reframing strategies"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleCatalogue returns the catalogue as JSON.
func (h *Handler) HandleCatalogue(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	patterns := antipattern.Catalogue()
	views := make([]patternView, len(patterns))
	for i, p := range patterns {
		views[i] = patternView{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Severity:     p.Severity,
			Intervention: p.InterventionType,
			Strategy:     p.Strategy,
		}
	}

	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling catalogue: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// ─── Coaching phases ────────────────────────────────────────────────────────

// phaseView describes one coaching phase and its checkpoints.
type phaseView struct {
	Phase       checkpoint.Phase  `json:"phase"`
	Checkpoints []checkpoint.Info `json:"checkpoints"`
}

// PhasesResource returns the MCP resource definition for the coaching
// phase outline.
func (h *Handler) PhasesResource() mcp.Resource {
	return mcp.NewResource(
		"okr://coach/phases",
		"OKR Coaching Phases",
		mcp.WithResourceDescription("The four coaching phases and the checkpoints each one tracks"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandlePhases returns the phase outline as JSON.
func (h *Handler) HandlePhases(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	views := make([]phaseView, len(checkpoint.PhaseOrder))
	for i, p := range checkpoint.PhaseOrder {
		views[i] = phaseView{Phase: p, Checkpoints: checkpoint.PhaseCheckpoints(p)}
	}

	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling phases: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
