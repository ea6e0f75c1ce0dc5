package parser

import (
	"strings"

	"github.com/pkg/errors"

	"draft-value/model"
)

// blockTracker follows the projection block currently being read.
// A named row opens a block in the average sub-row; unnamed rows whose
// marker cell mentions "high" or "low" relabel the sub-row until the next
// named row. Every row's stats are stored under the current sub-row.
type blockTracker struct {
	position string

	current *model.PlayerBuilder
	kind    string

	// Builders in first-seen order; a repeated name replaces the earlier
	// block but keeps its place.
	order  []string
	blocks map[string]*model.PlayerBuilder
}

// newBlockTracker creates a tracker for one position file.
func newBlockTracker(position string) *blockTracker {
	return &blockTracker{
		position: position,
		blocks:   make(map[string]*model.PlayerBuilder),
	}
}

// StartPlayer opens a new block in the average sub-row.
func (bt *blockTracker) StartPlayer(name string) *model.PlayerBuilder {
	b := model.NewPlayerBuilder(name, bt.position)
	if _, seen := bt.blocks[name]; !seen {
		bt.order = append(bt.order, name)
	}
	bt.blocks[name] = b
	bt.current = b
	bt.kind = model.ProjectionAverage
	return b
}

// Relabel switches the current sub-row based on a marker cell.
// Cells without a marker leave the sub-row unchanged.
func (bt *blockTracker) Relabel(marker string) {
	switch {
	case strings.Contains(marker, model.ProjectionHigh):
		bt.kind = model.ProjectionHigh
	case strings.Contains(marker, model.ProjectionLow):
		bt.kind = model.ProjectionLow
	}
}

// Record stores stats under the current sub-row.
func (bt *blockTracker) Record(stats model.StatLine) error {
	if bt.current == nil {
		return errors.Wrap(ErrMalformedProjections, "projection row before any player row")
	}
	bt.current.SetProjection(bt.kind, stats)
	return nil
}

// Builders returns the open blocks in first-seen order.
func (bt *blockTracker) Builders() []*model.PlayerBuilder {
	out := make([]*model.PlayerBuilder, 0, len(bt.order))
	for _, name := range bt.order {
		out = append(out, bt.blocks[name])
	}
	return out
}
