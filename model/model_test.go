package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreArithmetic(t *testing.T) {
	assert.Equal(t, ScoreOf(1.5), ScoreOf(4).Sub(ScoreOf(2.5)))
	assert.False(t, ScoreOf(4).Sub(NoScore).Valid)
	assert.False(t, NoScore.Sub(ScoreOf(4)).Valid)

	assert.Equal(t, ScoreOf(3), NoScore.Or(ScoreOf(3)))
	assert.Equal(t, ScoreOf(0), ScoreOf(0).Or(ScoreOf(3)))
}

func TestScoreFormat(t *testing.T) {
	assert.Equal(t, "0.9", ScoreOf(15.0/17.0).Format())
	assert.Equal(t, "0.0", ScoreOf(0).Format())
	assert.Equal(t, "-3.4", ScoreOf(-3.41).Format())
	assert.Equal(t, "", NoScore.Format())
}

func TestScoreSetRebase(t *testing.T) {
	set := ScoreSet{Low: ScoreOf(8), Average: ScoreOf(10), High: ScoreOf(13)}

	rebased := set.Rebase(ScoreOf(10))
	assert.Equal(t, ScoreSet{Low: ScoreOf(-2), Average: ScoreOf(0), High: ScoreOf(3)}, rebased)
	// Range is not affected by the baseline
	assert.Equal(t, set.Range(), rebased.Range())
	assert.Equal(t, ScoreOf(5), set.Range())

	assert.False(t, ScoreSet{}.Range().Valid)
}

func TestPlayerBuilder(t *testing.T) {
	b := NewPlayerBuilder("Travis Kelce", "TE")
	b.SetTeam("")
	b.SetTeam("KC")
	b.SetTeam("LV")

	avg := StatLine{"REC": 90}
	b.SetProjection(ProjectionAverage, avg)
	b.SetProjection(ProjectionHigh, StatLine{"REC": 110})

	p := b.Build(RankPair{Overall: 20, Position: 2})
	assert.Equal(t, "Travis Kelce", p.Name)
	assert.Equal(t, "TE", p.Position)
	assert.Equal(t, "KC", p.Team)
	assert.True(t, p.Rank.Ranked())
	assert.Equal(t, StatLine{"REC": 90}, p.Average)
	assert.Equal(t, StatLine{"REC": 110}, p.High)
	assert.True(t, p.Low.Empty())

	// The built player does not share stat lines with the builder
	avg["REC"] = 1
	assert.Equal(t, 90.0, p.Average["REC"])
	assert.Equal(t, "Player(TE Travis Kelce)", p.String())
}

func TestPlatformRankings(t *testing.T) {
	var missing *PlatformRankings
	assert.Zero(t, missing.Len())

	r := NewPlatformRankings("")
	assert.Equal(t, DefaultPlatformLabel, r.Label)
	r.Ranks["A"] = RankPair{Overall: 1, Position: 1}
	assert.Equal(t, 1, r.Len())

	assert.False(t, UnrankedPair.Ranked())
}
