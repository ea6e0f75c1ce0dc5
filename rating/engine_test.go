package rating

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draft-value/model"
)

// rushing builds a player whose per-game average is exactly avg points.
func rushing(name, position string, avg float64, rank model.RankPair) model.Player {
	return model.Player{
		Name:     name,
		Position: position,
		Team:     "KC",
		Rank:     rank,
		Average:  model.StatLine{StatRushYards: avg * 10 * GamesPerSeason},
	}
}

func pool(position string, players ...model.Player) model.PositionPool {
	return model.PositionPool{Position: position, Players: players}
}

func TestEvaluateBaselineIsZero(t *testing.T) {
	e := NewEngine(NewScorer(PPR()), []PositionRule{{Position: "QB", Baseline: 1, Limit: 3}}, nil)

	tables, err := e.Evaluate(map[string]model.PositionPool{
		"QB": pool("QB",
			rushing("C", "QB", 10, model.RankPair{Overall: 30, Position: 3}),
			rushing("A", "QB", 20, model.RankPair{Overall: 5, Position: 1}),
			rushing("B", "QB", 15, model.UnrankedPair),
		),
	})
	require.NoError(t, err)
	require.Len(t, tables, 1)

	qb := tables[0]
	assert.Equal(t, "QB", qb.Category)
	assert.False(t, qb.Combined)
	assert.Equal(t, "B", qb.Baseline.Player)
	assert.Equal(t, 1, qb.Baseline.Index)

	require.Len(t, qb.Rows, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{qb.Rows[0].Name, qb.Rows[1].Name, qb.Rows[2].Name})
	assert.InDelta(t, 5.0, qb.Rows[0].Value.Average.Value, 1e-9)
	assert.InDelta(t, 0.0, qb.Rows[1].Value.Average.Value, 1e-9)
	assert.InDelta(t, -5.0, qb.Rows[2].Value.Average.Value, 1e-9)

	// Position rank minus display rank
	assert.Equal(t, 0, qb.Rows[0].RankDelta)
	assert.Equal(t, MissingRankDelta, qb.Rows[1].RankDelta)
	assert.Equal(t, -1, qb.Rows[1].PlatformRank)
	assert.Equal(t, 0, qb.Rows[2].RankDelta)
}

func TestEvaluateLimitTruncates(t *testing.T) {
	e := NewEngine(NewScorer(PPR()), []PositionRule{{Position: "TE", Baseline: 0, Limit: 2}}, nil)

	tables, err := e.Evaluate(map[string]model.PositionPool{
		"TE": pool("TE",
			rushing("A", "TE", 3, model.UnrankedPair),
			rushing("B", "TE", 2, model.UnrankedPair),
			rushing("C", "TE", 1, model.UnrankedPair),
		),
	})
	require.NoError(t, err)
	require.Len(t, tables[0].Rows, 2)
}

func TestEvaluateStableTies(t *testing.T) {
	e := NewEngine(NewScorer(PPR()), []PositionRule{{Position: "WR", Baseline: 0, Limit: 4}}, nil)

	tables, err := e.Evaluate(map[string]model.PositionPool{
		"WR": pool("WR",
			rushing("First", "WR", 4, model.UnrankedPair),
			rushing("Second", "WR", 4, model.UnrankedPair),
			rushing("Third", "WR", 4, model.UnrankedPair),
			rushing("Top", "WR", 9, model.UnrankedPair),
		),
	})
	require.NoError(t, err)

	var names []string
	for _, r := range tables[0].Rows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"Top", "First", "Second", "Third"}, names)
}

func TestEvaluateSkipsUnscoredPlayers(t *testing.T) {
	e := NewEngine(NewScorer(PPR()), []PositionRule{{Position: "RB", Baseline: 1, Limit: 5}}, nil)

	tables, err := e.Evaluate(map[string]model.PositionPool{
		"RB": pool("RB",
			rushing("A", "RB", 8, model.UnrankedPair),
			model.Player{Name: "No Average", Position: "RB"},
			rushing("B", "RB", 6, model.UnrankedPair),
		),
	})
	require.NoError(t, err)
	require.Len(t, tables[0].Rows, 2)
	assert.Equal(t, "B", tables[0].Baseline.Player)
}

func TestEvaluateInsufficientData(t *testing.T) {
	e := NewEngine(NewScorer(PPR()), []PositionRule{{Position: "QB", Baseline: 11, Limit: 24}}, nil)

	var players []model.Player
	for i := 0; i < 5; i++ {
		players = append(players, rushing(fmt.Sprintf("QB%d", i), "QB", float64(20-i), model.UnrankedPair))
	}

	_, err := e.Evaluate(map[string]model.PositionPool{"QB": pool("QB", players...)})
	require.Error(t, err)

	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "QB", insufficient.Category)
	assert.Equal(t, 11, insufficient.Index)
	assert.Equal(t, 5, insufficient.Available)
}

func TestEvaluateMissingPool(t *testing.T) {
	e := NewEngine(NewScorer(PPR()), DefaultPositionRules(), DefaultCategoryRules())

	_, err := e.Evaluate(map[string]model.PositionPool{})
	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "QB", insufficient.Category)
	assert.Zero(t, insufficient.Available)
}

func TestEvaluateUnknownStatIsFatal(t *testing.T) {
	e := NewEngine(NewScorer(PPR()), []PositionRule{{Position: "QB", Baseline: 0, Limit: 1}}, nil)

	_, err := e.Evaluate(map[string]model.PositionPool{
		"QB": pool("QB", model.Player{Name: "Odd", Average: model.StatLine{"PUNT_YDS": 1}}),
	})
	var unknown *UnknownStatError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "PUNT_YDS", unknown.Stat)
}

func TestEvaluateCombinedCategory(t *testing.T) {
	positions := []PositionRule{
		{Position: "RB", Baseline: 1, Limit: 3},
		{Position: "WR", Baseline: 1, Limit: 3},
	}
	categories := []CategoryRule{{Name: "Flex", Members: []string{"RB", "WR"}}}
	e := NewEngine(NewScorer(PPR()), positions, categories)

	tables, err := e.Evaluate(map[string]model.PositionPool{
		// RB replacement is 10, WR replacement is 6
		"RB": pool("RB",
			rushing("R1", "RB", 15, model.RankPair{Overall: 1, Position: 1}),
			rushing("R2", "RB", 10, model.RankPair{Overall: 4, Position: 2}),
			rushing("R3", "RB", 7, model.UnrankedPair),
		),
		"WR": pool("WR",
			rushing("W1", "WR", 9, model.RankPair{Overall: 2, Position: 1}),
			rushing("W2", "WR", 6, model.RankPair{Overall: 3, Position: 2}),
			rushing("W3", "WR", 5, model.UnrankedPair),
		),
	})
	require.NoError(t, err)
	require.Len(t, tables, 3)

	flex := tables[2]
	assert.Equal(t, "Flex", flex.Category)
	assert.True(t, flex.Combined)

	// Raw averages: R1 15, R2 10, W1 9, R3 7, W2 6, W3 5
	var names []string
	for _, r := range flex.Rows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"R1", "R2", "W1", "R3", "W2", "W3"}, names)

	// Combined baseline index is 1+1 = 2, which is W1 at 9
	assert.Equal(t, 2, flex.Baseline.Index)
	assert.Equal(t, "W1", flex.Baseline.Player)
	assert.InDelta(t, 9.0, flex.Baseline.Average.Value, 1e-9)

	wantValue := []float64{6, 1, 0, -2, -3, -4}
	wantPositional := []float64{5, 0, 3, -3, 0, -1}
	for i, r := range flex.Rows {
		assert.InDelta(t, wantValue[i], r.Value.Average.Value, 1e-9, r.Name)
		assert.InDelta(t, wantPositional[i], r.Positional.Average.Value, 1e-9, r.Name)
	}

	w1 := flex.Rows[2]
	assert.Equal(t, "WR", w1.Position)
	assert.Equal(t, 2, w1.PlatformRank)
	assert.Equal(t, -1, w1.RankDelta)

	assert.Equal(t, 2, flex.Rows[1].RankDelta)
	assert.Equal(t, MissingRankDelta, flex.Rows[3].RankDelta)
	assert.Equal(t, -2, flex.Rows[4].RankDelta)
}

func TestEvaluateCombinedComparesAcrossPositions(t *testing.T) {
	positions := []PositionRule{
		{Position: "QB", Baseline: 1, Limit: 2},
		{Position: "RB", Baseline: 1, Limit: 2},
	}
	categories := []CategoryRule{{Name: "Overall", Members: []string{"QB", "RB"}}}
	e := NewEngine(NewScorer(PPR()), positions, categories)

	tables, err := e.Evaluate(map[string]model.PositionPool{
		"QB": pool("QB",
			rushing("Q1", "QB", 25, model.UnrankedPair),
			rushing("Q2", "QB", 20, model.UnrankedPair),
		),
		"RB": pool("RB",
			rushing("R1", "RB", 15, model.UnrankedPair),
			rushing("R2", "RB", 8, model.UnrankedPair),
		),
	})
	require.NoError(t, err)
	overall := tables[2]

	assert.Equal(t, "R1", overall.Baseline.Player)
	want := []struct {
		name       string
		value      float64
		positional float64
	}{
		{"Q1", 10, 5},
		{"Q2", 5, 0},
		{"R1", 0, 7},
		{"R2", -7, 0},
	}
	require.Len(t, overall.Rows, len(want))
	for i, w := range want {
		row := overall.Rows[i]
		assert.Equal(t, w.name, row.Name)
		assert.InDelta(t, w.value, row.Value.Average.Value, 1e-9, w.name)
		assert.InDelta(t, w.positional, row.Positional.Average.Value, 1e-9, w.name)
	}
}

func TestEvaluateCombinedUsesOnlyScoredMembers(t *testing.T) {
	positions := []PositionRule{
		{Position: "QB", Baseline: 0, Limit: 1},
		{Position: "TE", Baseline: 0, Limit: 1},
	}
	categories := []CategoryRule{{Name: "Overall", Members: []string{"QB", "TE"}, Baseline: 5}}
	e := NewEngine(NewScorer(PPR()), positions, categories)

	_, err := e.Evaluate(map[string]model.PositionPool{
		"QB": pool("QB", rushing("Q", "QB", 20, model.UnrankedPair)),
		"TE": pool("TE", rushing("T", "TE", 8, model.UnrankedPair)),
	})
	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "Overall", insufficient.Category)
	assert.Equal(t, 2, insufficient.Available)
}

func TestEvaluateRejectsUnknownMember(t *testing.T) {
	e := NewEngine(NewScorer(PPR()),
		[]PositionRule{{Position: "QB", Baseline: 0, Limit: 1}},
		[]CategoryRule{{Name: "Superflex", Members: []string{"QB", "K"}}},
	)

	_, err := e.Evaluate(map[string]model.PositionPool{
		"QB": pool("QB", rushing("Q", "QB", 20, model.UnrankedPair)),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown position K")
}

func TestRankDelta(t *testing.T) {
	assert.Equal(t, MissingRankDelta, rankDelta(model.Unranked, 0))
	assert.Equal(t, 0, rankDelta(1, 0))
	assert.Equal(t, 7, rankDelta(10, 2))
	assert.Equal(t, -4, rankDelta(1, 4))
}
