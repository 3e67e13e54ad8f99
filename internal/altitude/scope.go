// Package altitude classifies the organizational level ("altitude") a
// user's objective is framed at and tracks drift away from the level
// the session established.
//
// Scopes are ordered coarsest to finest: strategic → departmental →
// team → initiative → project. Drift magnitude is the rank distance
// between two scopes scaled by 0.2, so adjacent scopes differ by 0.2
// and the full span (strategic ↔ project) is 0.8.
package altitude

import "fmt"

// Scope is an organizational altitude level.
type Scope string

const (
	ScopeStrategic    Scope = "strategic"
	ScopeDepartmental Scope = "departmental"
	ScopeTeam         Scope = "team"
	ScopeInitiative   Scope = "initiative"
	ScopeProject      Scope = "project"
)

// scopeRanks orders scopes coarsest (0) to finest (4).
var scopeRanks = map[Scope]int{
	ScopeStrategic:    0,
	ScopeDepartmental: 1,
	ScopeTeam:         2,
	ScopeInitiative:   3,
	ScopeProject:      4,
}

// ValidateScope returns an error if the scope is not recognized.
func ValidateScope(s Scope) error {
	if _, ok := scopeRanks[s]; !ok {
		return fmt.Errorf("invalid scope %q: must be one of: strategic, departmental, team, initiative, project", s)
	}
	return nil
}

// Rank returns the ordinal position of a scope (0 = strategic,
// 4 = project), or -1 for unknown scopes.
func Rank(s Scope) int {
	r, ok := scopeRanks[s]
	if !ok {
		return -1
	}
	return r
}

// Distance returns the absolute rank distance between two scopes.
// Unknown scopes contribute rank -1, so callers should validate first.
func Distance(a, b Scope) int {
	d := Rank(a) - Rank(b)
	if d < 0 {
		d = -d
	}
	return d
}

// DriftMagnitude converts a rank distance into the normalized drift
// magnitude used for intervention timing: |Δrank| × 0.2.
func DriftMagnitude(from, to Scope) float64 {
	return float64(Distance(from, to)) * 0.2
}
