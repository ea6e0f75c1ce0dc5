package model

// Unranked marks a player with no platform rank.
const Unranked = -1

// RankPair is a player's overall and positional draft rank on a platform.
type RankPair struct {
	Overall  int
	Position int
}

// UnrankedPair is assigned to players missing from the platform rankings.
var UnrankedPair = RankPair{Overall: Unranked, Position: Unranked}

// Ranked reports whether the pair came from the platform.
func (r RankPair) Ranked() bool {
	return r.Overall != Unranked
}

// DefaultPlatformLabel labels the rank column when no ranking file was loaded.
const DefaultPlatformLabel = "Platform"

// PlatformRankings is the parsed external draft order.
type PlatformRankings struct {
	// Label is the header of the platform column, e.g. "ESPN".
	Label string
	Ranks map[string]RankPair
	// Order lists names in file order.
	Order []string
}

// NewPlatformRankings returns an empty lookup.
func NewPlatformRankings(label string) *PlatformRankings {
	if label == "" {
		label = DefaultPlatformLabel
	}
	return &PlatformRankings{
		Label: label,
		Ranks: make(map[string]RankPair),
	}
}

// Len returns the number of ranked names.
func (p *PlatformRankings) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Ranks)
}

// TeamRanks maps a team abbreviation to its strength rank (1 = strongest).
type TeamRanks map[string]int
