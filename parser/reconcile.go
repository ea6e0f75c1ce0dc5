package parser

import (
	"github.com/sirupsen/logrus"

	"draft-value/logging"
	"draft-value/model"
)

// Reconciler attaches platform ranks to projected players.
//
// Matching is done in three steps: an index of normalized platform names is
// built up front; each projected name is then resolved, exactly or through
// the index; platform entries never resolved form the residual set. A
// normalized match is single-use: the platform entry is removed under its
// original name and re-keyed under the projected name.
type Reconciler struct {
	log logrus.FieldLogger

	ranks map[string]model.RankPair
	order []string
	index map[string][]string

	// resolved holds platform keys that have been handed out
	resolved map[string]bool
	// consumed holds original keys re-keyed by a normalized match
	consumed map[string]bool

	// silent is set when there were no platform ranks to begin with, so
	// every miss is expected.
	silent    bool
	unmatched []string
}

// NewReconciler indexes the platform rankings. A nil or empty lookup puts the
// reconciler in silent mode.
func NewReconciler(rankings *model.PlatformRankings, log logrus.FieldLogger) *Reconciler {
	r := &Reconciler{
		log:      log,
		ranks:    make(map[string]model.RankPair),
		index:    make(map[string][]string),
		resolved: make(map[string]bool),
		consumed: make(map[string]bool),
		silent:   rankings.Len() == 0,
	}
	if rankings == nil {
		return r
	}
	for name, pair := range rankings.Ranks {
		r.ranks[name] = pair
	}
	r.order = append(r.order, rankings.Order...)
	for _, name := range r.order {
		key := NormalizeName(name)
		r.index[key] = append(r.index[key], name)
	}
	return r
}

// Resolve returns the platform rank pair for a projected player, or
// model.UnrankedPair when no entry matches.
func (r *Reconciler) Resolve(name, position string) model.RankPair {
	if pair, ok := r.ranks[name]; ok {
		r.resolved[name] = true
		return pair
	}

	for _, candidate := range r.index[NormalizeName(name)] {
		if r.consumed[candidate] || r.resolved[candidate] {
			continue
		}
		pair, ok := r.ranks[candidate]
		if !ok {
			continue
		}
		delete(r.ranks, candidate)
		r.ranks[name] = pair
		r.consumed[candidate] = true
		r.resolved[name] = true
		r.log.WithFields(logrus.Fields{
			logging.FieldPlayer:   name,
			logging.FieldPlatform: candidate,
		}).Debug("matched player by normalized name")
		return pair
	}

	r.unmatched = append(r.unmatched, name)
	if !r.silent {
		r.log.WithFields(logrus.Fields{
			logging.FieldPlayer:   name,
			logging.FieldPosition: position,
		}).Warn("player not found in platform rankings")
	}
	return model.UnrankedPair
}

// Contains reports whether the lookup currently holds name.
func (r *Reconciler) Contains(name string) bool {
	_, ok := r.ranks[name]
	return ok
}

// Silent reports whether misses are expected because no rankings were loaded.
func (r *Reconciler) Silent() bool {
	return r.silent
}

// Unmatched lists projected players that received no rank, in resolve order.
func (r *Reconciler) Unmatched() []string {
	return append([]string(nil), r.unmatched...)
}

// Residual lists platform entries that no projected player claimed, in
// platform order.
func (r *Reconciler) Residual() []string {
	var out []string
	for _, name := range r.order {
		if r.consumed[name] || r.resolved[name] {
			continue
		}
		out = append(out, name)
	}
	return out
}
