package model

// Projection kinds within a projection block.
const (
	ProjectionAverage = "average"
	ProjectionHigh    = "high"
	ProjectionLow     = "low"
)

// StatLine maps a stat category (PASS_YDS, REC, ...) to its projected season total.
type StatLine map[string]float64

// Empty reports whether the stat line carries no stats at all.
func (s StatLine) Empty() bool {
	return len(s) == 0
}

// Player is one projected player. It is assembled by a PlayerBuilder and is
// not modified after Build.
type Player struct {
	Name     string
	Position string
	Team     string

	// Rank from the external draft platform; UnrankedPair when unmatched.
	Rank RankPair

	Low     StatLine
	Average StatLine
	High    StatLine
}

// String implements fmt.Stringer.
func (p Player) String() string {
	return "Player(" + p.Position + " " + p.Name + ")"
}

// PlayerBuilder accumulates the three projection variants of one player
// while its block is being read.
type PlayerBuilder struct {
	name     string
	position string
	team     string
	lines    map[string]StatLine
}

// NewPlayerBuilder starts a player block.
func NewPlayerBuilder(name, position string) *PlayerBuilder {
	return &PlayerBuilder{
		name:     name,
		position: position,
		lines:    make(map[string]StatLine, 3),
	}
}

// Name returns the name the block was started with.
func (b *PlayerBuilder) Name() string {
	return b.name
}

// SetTeam records the team. The first non-empty team wins.
func (b *PlayerBuilder) SetTeam(team string) {
	if b.team == "" {
		b.team = team
	}
}

// SetProjection stores the stats for one projection kind, replacing any
// earlier line of the same kind.
func (b *PlayerBuilder) SetProjection(kind string, stats StatLine) {
	b.lines[kind] = stats
}

// Build finalizes the block into an immutable Player.
func (b *PlayerBuilder) Build(rank RankPair) Player {
	return Player{
		Name:     b.name,
		Position: b.position,
		Team:     b.team,
		Rank:     rank,
		Low:      copyLine(b.lines[ProjectionLow]),
		Average:  copyLine(b.lines[ProjectionAverage]),
		High:     copyLine(b.lines[ProjectionHigh]),
	}
}

func copyLine(in StatLine) StatLine {
	out := make(StatLine, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// PositionPool holds the players parsed from one position file, in file order.
type PositionPool struct {
	Position string
	Source   string
	Players  []Player
}
