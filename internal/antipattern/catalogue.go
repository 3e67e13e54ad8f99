// Package antipattern detects poor-quality OKR-writing habits in user
// messages and selects the Socratic reframing strategy for the most
// severe match.
//
// The catalogue is static configuration: a data-driven rule table
// embedded as YAML and loaded once, lazily. Each rule carries detection
// regexes, keyword triggers, a named contextual predicate resolved from
// a small registry, a reframing strategy, a severity, and an
// intervention type. Load failure degrades to an empty catalogue —
// conversation continues without anti-pattern awareness.
package antipattern

import (
	_ "embed"
	"fmt"
	"log"
	"regexp"
	"sync"

	"github.com/danavoss/northstar/internal/conversation"
	"gopkg.in/yaml.v3"
)

//go:embed catalogue.yaml
var catalogueYAML []byte

// --- Severity enum ---

// Severity ranks how damaging an anti-pattern is to OKR quality.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRanks orders severities for sorting (higher is worse).
var severityRanks = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// severityBonuses are the flat confidence bonuses per severity.
// Empirically chosen constants; preserved as-is.
var severityBonuses = map[Severity]float64{
	SeverityCritical: 0.15,
	SeverityHigh:     0.10,
	SeverityMedium:   0.05,
	SeverityLow:      0,
}

// Rank returns the ordinal severity rank, low (0) to critical (3).
func (s Severity) Rank() int {
	return severityRanks[s]
}

// --- Intervention type enum ---

// InterventionType names the kind of corrective move a detected
// pattern calls for. Detected interventions are deduplicated by type.
type InterventionType string

const (
	InterventionSocraticReframe     InterventionType = "socratic_reframe"
	InterventionMetricProbe         InterventionType = "metric_probe"
	InterventionAmbitionCalibration InterventionType = "ambition_calibration"
	InterventionFocusNarrowing      InterventionType = "focus_narrowing"
	InterventionScopeElevation      InterventionType = "scope_elevation"
	InterventionInfluenceCheck      InterventionType = "influence_check"
	InterventionRelevanceCheck      InterventionType = "relevance_check"
)

// --- Strategy types ---

// Example is a before/after rewrite pair shown to the user. Contexts
// limits an example to certain industries or functions; an empty list
// means the example is generic.
type Example struct {
	Before      string   `yaml:"before" json:"before"`
	After       string   `yaml:"after" json:"after"`
	Explanation string   `yaml:"explanation" json:"explanation"`
	Contexts    []string `yaml:"contexts,omitempty" json:"contexts,omitempty"`
}

// ReframingStrategy is a scripted Socratic sequence for correcting one
// anti-pattern. Questions escalate: attempt n uses Questions[n].
type ReframingStrategy struct {
	Name            string    `yaml:"name" json:"name"`
	Technique       string    `yaml:"technique" json:"technique"`
	Questions       []string  `yaml:"questions" json:"questions"`
	Examples        []Example `yaml:"examples" json:"examples"`
	SuccessCriteria string    `yaml:"success_criteria" json:"success_criteria"`
	MaxAttempts     int       `yaml:"max_attempts" json:"max_attempts"`
}

// --- Rule table ---

// Pattern is one compiled catalogue entry.
type Pattern struct {
	ID               string
	Name             string
	Description      string
	Regexes          []*regexp.Regexp
	Keywords         []string
	Predicate        string // registry key; "" means no contextual rule
	Strategy         ReframingStrategy
	Severity         Severity
	InterventionType InterventionType
}

// patternDoc is the raw YAML shape of a catalogue entry.
type patternDoc struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"name"`
	Description  string            `yaml:"description"`
	Patterns     []string          `yaml:"patterns"`
	Keywords     []string          `yaml:"keywords"`
	Predicate    string            `yaml:"predicate,omitempty"`
	Severity     Severity          `yaml:"severity"`
	Intervention InterventionType  `yaml:"intervention"`
	Strategy     ReframingStrategy `yaml:"strategy"`
}

type catalogueDoc struct {
	Patterns []patternDoc `yaml:"patterns"`
}

var (
	loadOnce  sync.Once
	catalogue []Pattern
)

// Catalogue returns the compiled rule table, loading it on first use.
// A load failure is logged and yields an empty (never nil-dereferencing)
// catalogue so detection degrades to "no patterns" instead of failing.
func Catalogue() []Pattern {
	loadOnce.Do(func() {
		patterns, err := parseCatalogue(catalogueYAML)
		if err != nil {
			log.Printf("WARNING: anti-pattern catalogue unavailable: %v", err)
			return
		}
		catalogue = patterns
	})
	return catalogue
}

// parseCatalogue decodes and compiles the YAML rule table. Any invalid
// regex or unknown predicate fails the whole load — a half-compiled
// catalogue would detect inconsistently.
func parseCatalogue(data []byte) ([]Pattern, error) {
	var doc catalogueDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalogue: %w", err)
	}
	if len(doc.Patterns) == 0 {
		return nil, fmt.Errorf("catalogue contains no patterns")
	}

	compiled := make([]Pattern, 0, len(doc.Patterns))
	for _, p := range doc.Patterns {
		entry := Pattern{
			ID:               p.ID,
			Name:             p.Name,
			Description:      p.Description,
			Keywords:         p.Keywords,
			Predicate:        p.Predicate,
			Strategy:         p.Strategy,
			Severity:         p.Severity,
			InterventionType: p.Intervention,
		}

		if _, ok := severityRanks[p.Severity]; !ok {
			return nil, fmt.Errorf("pattern %q: unknown severity %q", p.ID, p.Severity)
		}
		if p.Predicate != "" {
			if _, ok := predicateRegistry[p.Predicate]; !ok {
				return nil, fmt.Errorf("pattern %q: unknown predicate %q", p.ID, p.Predicate)
			}
		}

		for _, expr := range p.Patterns {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("pattern %q: compiling %q: %w", p.ID, expr, err)
			}
			entry.Regexes = append(entry.Regexes, re)
		}

		compiled = append(compiled, entry)
	}

	return compiled, nil
}

// contextPredicate evaluates the pattern's named contextual rule.
// Patterns without a rule never earn the contextual bonus.
func (p *Pattern) contextPredicate(text string, uc *conversation.UserContext) bool {
	if p.Predicate == "" {
		return false
	}
	rule, ok := predicateRegistry[p.Predicate]
	if !ok {
		return false
	}
	return rule(text, uc)
}
