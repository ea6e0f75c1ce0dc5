package rating

import (
	"sort"

	"draft-value/model"
)

// Scorer turns stat lines into per-game fantasy points.
type Scorer struct {
	rules ScoringRules
}

// NewScorer creates a scorer bound to rules.
func NewScorer(rules ScoringRules) *Scorer {
	return &Scorer{rules: rules}
}

// Score computes sum(stat * weight) / games. An empty line yields an
// invalid score; a stat missing from the rules is an *UnknownStatError.
func (s *Scorer) Score(stats model.StatLine) (model.Score, error) {
	if stats.Empty() {
		return model.NoScore, nil
	}
	// Sorted keys keep the float sum identical between runs
	keys := make([]string, 0, len(stats))
	for stat := range stats {
		keys = append(keys, stat)
	}
	sort.Strings(keys)

	total := 0.0
	for _, stat := range keys {
		weight, ok := s.rules.Weight(stat)
		if !ok {
			return model.NoScore, &UnknownStatError{Stat: stat, Rules: s.rules.Name()}
		}
		total += stats[stat] * weight
	}
	// Per game is easier to read than season totals
	return model.ScoreOf(total / s.rules.games), nil
}

// ScorePlayer scores the three projection variants. A missing low or high
// line falls back to the average, so a player with only an average row has
// no spread.
func (s *Scorer) ScorePlayer(p model.Player) (model.ScoreSet, error) {
	avg, err := s.Score(p.Average)
	if err != nil {
		return model.ScoreSet{}, err
	}
	low, err := s.Score(p.Low)
	if err != nil {
		return model.ScoreSet{}, err
	}
	high, err := s.Score(p.High)
	if err != nil {
		return model.ScoreSet{}, err
	}
	return model.ScoreSet{
		Low:     low.Or(avg),
		Average: avg,
		High:    high.Or(avg),
	}, nil
}
