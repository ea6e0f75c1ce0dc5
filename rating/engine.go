package rating

import (
	"sort"

	"github.com/pkg/errors"

	"draft-value/model"
)

// Engine ranks players per position and per combined category, relative to
// each category's replacement-level player.
type Engine struct {
	scorer     *Scorer
	positions  []PositionRule
	categories []CategoryRule
}

// NewEngine creates an engine. Positions are evaluated in the given order,
// then categories in theirs.
func NewEngine(scorer *Scorer, positions []PositionRule, categories []CategoryRule) *Engine {
	return &Engine{
		scorer:     scorer,
		positions:  positions,
		categories: categories,
	}
}

// scoredPlayer is a player with its raw scores and, once its position has
// been evaluated, its values relative to the position baseline.
type scoredPlayer struct {
	player     model.Player
	scores     model.ScoreSet
	positional model.ScoreSet
}

// positionResult is what a combined category needs from a base position.
type positionResult struct {
	baseline model.Baseline
	// players in file order, scored players only
	players []scoredPlayer
}

// Evaluate scores every pool and builds one table per base position followed
// by one table per combined category. Pools are keyed by position code.
func (e *Engine) Evaluate(pools map[string]model.PositionPool) ([]model.Table, error) {
	if err := e.checkCategories(); err != nil {
		return nil, err
	}

	tables := make([]model.Table, 0, len(e.positions)+len(e.categories))
	results := make(map[string]positionResult, len(e.positions))

	// Every single position is resolved before any combined category reads it
	for _, rule := range e.positions {
		table, result, err := e.evaluatePosition(rule, pools[rule.Position].Players)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
		results[rule.Position] = result
	}

	for _, rule := range e.categories {
		table, err := e.evaluateCategory(rule, results)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func (e *Engine) checkCategories() error {
	known := make(map[string]bool, len(e.positions))
	for _, p := range e.positions {
		known[p.Position] = true
	}
	for _, c := range e.categories {
		if len(c.Members) == 0 {
			return errors.Errorf("category %s has no member positions", c.Name)
		}
		for _, m := range c.Members {
			if !known[m] {
				return errors.Errorf("category %s references unknown position %s", c.Name, m)
			}
		}
	}
	return nil
}

func (e *Engine) evaluatePosition(rule PositionRule, players []model.Player) (model.Table, positionResult, error) {
	scored := make([]scoredPlayer, 0, len(players))
	for _, p := range players {
		scores, err := e.scorer.ScorePlayer(p)
		if err != nil {
			return model.Table{}, positionResult{}, errors.Wrapf(err, "score %s %s", rule.Position, p.Name)
		}
		// Players with no average projection cannot be ranked
		if !scores.Average.Valid {
			continue
		}
		scored = append(scored, scoredPlayer{player: p, scores: scores})
	}

	sorted := make([]scoredPlayer, len(scored))
	copy(sorted, scored)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].scores.Average.Value > sorted[j].scores.Average.Value
	})

	if rule.Baseline < 0 || rule.Baseline >= len(sorted) {
		return model.Table{}, positionResult{}, &InsufficientDataError{
			Category:  rule.Position,
			Index:     rule.Baseline,
			Available: len(sorted),
		}
	}
	anchor := sorted[rule.Baseline]
	baseline := model.Baseline{
		Index:   rule.Baseline,
		Player:  anchor.player.Name,
		Average: anchor.scores.Average,
	}

	for i := range scored {
		scored[i].positional = scored[i].scores.Rebase(baseline.Average)
	}

	kept := sorted[:min(rule.Limit, len(sorted))]
	rows := make([]model.ValueRow, 0, len(kept))
	for i, sp := range kept {
		rows = append(rows, model.ValueRow{
			Name:         sp.player.Name,
			Team:         sp.player.Team,
			Position:     sp.player.Position,
			Value:        sp.scores.Rebase(baseline.Average),
			Range:        sp.scores.Range(),
			PlatformRank: sp.player.Rank.Position,
			RankDelta:    rankDelta(sp.player.Rank.Position, i),
		})
	}

	table := model.Table{
		Category: rule.Position,
		Baseline: baseline,
		Rows:     rows,
	}
	return table, positionResult{baseline: baseline, players: scored}, nil
}

// evaluateCategory ranks every scored member player together by raw average
// and rebases against the player at the combined baseline index. Positional
// keeps each player's value over its own position baseline.
func (e *Engine) evaluateCategory(rule CategoryRule, results map[string]positionResult) (model.Table, error) {
	baselineIdx, limit := rule.Baseline, rule.Limit
	sumBaseline, sumLimit := e.memberSums(rule.Members)
	if baselineIdx == 0 {
		baselineIdx = sumBaseline
	}
	if limit == 0 {
		limit = sumLimit
	}

	var pool []scoredPlayer
	for _, m := range rule.Members {
		pool = append(pool, results[m].players...)
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].scores.Average.Value > pool[j].scores.Average.Value
	})

	if baselineIdx < 0 || baselineIdx >= len(pool) {
		return model.Table{}, &InsufficientDataError{
			Category:  rule.Name,
			Index:     baselineIdx,
			Available: len(pool),
		}
	}
	anchor := pool[baselineIdx]
	baseline := model.Baseline{
		Index:   baselineIdx,
		Player:  anchor.player.Name,
		Average: anchor.scores.Average,
	}

	kept := pool[:min(limit, len(pool))]
	rows := make([]model.ValueRow, 0, len(kept))
	for i, sp := range kept {
		rows = append(rows, model.ValueRow{
			Name:         sp.player.Name,
			Team:         sp.player.Team,
			Position:     sp.player.Position,
			Value:        sp.scores.Rebase(baseline.Average),
			Range:        sp.scores.Range(),
			Positional:   sp.positional,
			PlatformRank: sp.player.Rank.Overall,
			RankDelta:    rankDelta(sp.player.Rank.Overall, i),
		})
	}

	return model.Table{
		Category: rule.Name,
		Combined: true,
		Baseline: baseline,
		Rows:     rows,
	}, nil
}

func (e *Engine) memberSums(members []string) (baseline, limit int) {
	for _, m := range members {
		for _, p := range e.positions {
			if p.Position == m {
				baseline += p.Baseline
				limit += p.Limit
			}
		}
	}
	return baseline, limit
}

// rankDelta is how many spots the platform disagrees with our ordering.
// Positive means the platform ranks the player later than we do.
func rankDelta(platformRank, index int) int {
	if platformRank == model.Unranked {
		return MissingRankDelta
	}
	return platformRank - (index + 1)
}
