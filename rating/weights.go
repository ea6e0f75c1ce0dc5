// Package rating scores projections and normalizes them against a
// replacement-level baseline player.
// This file holds the scoring weight tables and the default baseline and
// roster-limit tables.
package rating

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// GamesPerSeason converts season totals into per-game points.
const GamesPerSeason = 17

// Stat categories produced by the projection exports.
const (
	StatPassYards = "PASS_YDS"
	StatPassTDs   = "PASS_TDS"
	StatPassInts  = "PASS_INTS"
	StatPassAtt   = "PASS_ATT"
	StatPassCmp   = "PASS_CMP"
	StatRushYards = "RUSH_YDS"
	StatRushTDs   = "RUSH_TDS"
	StatRushAtt   = "RUSH_ATT"
	StatRecYards  = "REC_YDS"
	StatRec       = "REC"
	StatRecTDs    = "REC_TDS"
	StatFumbles   = "FL"
)

// Scoring presets.
const (
	PresetPPR      = "ppr"
	PresetHalfPPR  = "half_ppr"
	PresetStandard = "standard"
)

// Output sentinels.
const (
	// MissingRankDelta is reported when a player has no platform rank.
	// It is meant to stand out in the rendered sheet.
	MissingRankDelta = -9999
)

// ScoringRules is a frozen stat -> points table. Every stat the data source
// can produce must be listed, zero-weight stats included, so that new
// columns fail loudly instead of scoring as zero.
type ScoringRules struct {
	name    string
	weights map[string]float64
	games   float64
}

// pprWeights is the points-per-reception table.
var pprWeights = map[string]float64{
	StatPassYards: 0.04,
	StatPassTDs:   4,
	StatPassInts:  -2,
	StatRushYards: 0.1,
	StatRushTDs:   6,
	StatRecYards:  0.1,
	StatRec:       1,
	StatRecTDs:    6,
	StatFumbles:   -2,

	// Tracked but worth nothing
	StatPassAtt: 0,
	StatPassCmp: 0,
	StatRushAtt: 0,
}

// NewScoringRules freezes a copy of weights. games <= 0 means GamesPerSeason.
func NewScoringRules(name string, weights map[string]float64, games int) ScoringRules {
	w := make(map[string]float64, len(weights))
	for k, v := range weights {
		w[k] = v
	}
	if games <= 0 {
		games = GamesPerSeason
	}
	return ScoringRules{name: name, weights: w, games: float64(games)}
}

// PPR returns the full points-per-reception rules.
func PPR() ScoringRules {
	return NewScoringRules(PresetPPR, pprWeights, GamesPerSeason)
}

// Preset returns the rules for a named preset.
func Preset(name string) (ScoringRules, error) {
	weights := make(map[string]float64, len(pprWeights))
	for k, v := range pprWeights {
		weights[k] = v
	}
	switch strings.ToLower(name) {
	case PresetPPR, "":
		name = PresetPPR
	case PresetHalfPPR:
		weights[StatRec] = 0.5
	case PresetStandard:
		weights[StatRec] = 0
	default:
		return ScoringRules{}, errors.Errorf("unknown scoring preset %q", name)
	}
	return NewScoringRules(strings.ToLower(name), weights, GamesPerSeason), nil
}

// WithOverrides returns a copy of r with weights replaced or added.
func (r ScoringRules) WithOverrides(overrides map[string]float64, games int) ScoringRules {
	merged := make(map[string]float64, len(r.weights)+len(overrides))
	for k, v := range r.weights {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	if games <= 0 {
		games = int(r.games)
	}
	return NewScoringRules(r.name, merged, games)
}

// Name returns the preset name the rules were built from.
func (r ScoringRules) Name() string {
	return r.name
}

// Weight returns the weight of a stat and whether the stat is known.
func (r ScoringRules) Weight(stat string) (float64, bool) {
	w, ok := r.weights[stat]
	return w, ok
}

// Stats lists the known stats in sorted order.
func (r ScoringRules) Stats() []string {
	out := make([]string, 0, len(r.weights))
	for k := range r.weights {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// PositionRule configures the baseline and retained player count for one
// base position.
type PositionRule struct {
	Position string
	// Baseline is the 0-based index of the replacement player in the
	// score-sorted list: players at that position drafted through nine
	// rounds last season, plus one.
	Baseline int
	// Limit is how many players are kept in the output, roughly twice the
	// league-wide roster need.
	Limit int
}

// CategoryRule configures a combined category built from base positions.
// Zero Baseline/Limit mean "sum over members".
type CategoryRule struct {
	Name     string
	Members  []string
	Baseline int
	Limit    int
}

// Default base positions, in evaluation order.
func DefaultPositionRules() []PositionRule {
	return []PositionRule{
		{Position: "QB", Baseline: 11, Limit: 12 * 2},
		{Position: "TE", Baseline: 12, Limit: 12 * 2},
		{Position: "RB", Baseline: 39, Limit: 36 * 2},
		{Position: "WR", Baseline: 49, Limit: 48 * 2},
	}
}

// DefaultCategoryRules returns the combined views.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{Name: "Overall", Members: []string{"QB", "TE", "RB", "WR"}},
		{Name: "Flex", Members: []string{"TE", "RB", "WR"}},
	}
}
