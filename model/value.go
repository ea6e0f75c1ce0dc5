package model

import "strconv"

// Score is a per-game fantasy point value. Valid is false when there was no
// data to score.
type Score struct {
	Value float64
	Valid bool
}

// NoScore is the "no data" score.
var NoScore = Score{}

// ScoreOf wraps a known value.
func ScoreOf(v float64) Score {
	return Score{Value: v, Valid: true}
}

// Sub returns s - o; invalid if either side is.
func (s Score) Sub(o Score) Score {
	if !s.Valid || !o.Valid {
		return NoScore
	}
	return ScoreOf(s.Value - o.Value)
}

// Or returns s when valid, otherwise fallback.
func (s Score) Or(fallback Score) Score {
	if s.Valid {
		return s
	}
	return fallback
}

// Format renders the score with one decimal, or "" when invalid.
func (s Score) Format() string {
	if !s.Valid {
		return ""
	}
	return strconv.FormatFloat(s.Value, 'f', 1, 64)
}

// ScoreSet is the low/average/high scoring of one player.
type ScoreSet struct {
	Low     Score
	Average Score
	High    Score
}

// Rebase subtracts a baseline average from each bound.
func (s ScoreSet) Rebase(baseline Score) ScoreSet {
	return ScoreSet{
		Low:     s.Low.Sub(baseline),
		Average: s.Average.Sub(baseline),
		High:    s.High.Sub(baseline),
	}
}

// Range is high minus low, the projection spread.
func (s ScoreSet) Range() Score {
	return s.High.Sub(s.Low)
}

// Baseline describes the replacement-level player of a category.
type Baseline struct {
	Index   int
	Player  string
	Average Score
}

// ValueRow is one output row of a category table.
type ValueRow struct {
	Name     string
	Team     string
	Position string

	Value ScoreSet
	Range Score

	// Positional values, only filled for combined categories.
	Positional ScoreSet

	PlatformRank int
	RankDelta    int
}

// Table is the evaluated output of one category.
type Table struct {
	Category string
	Combined bool
	Baseline Baseline
	Rows     []ValueRow
}
