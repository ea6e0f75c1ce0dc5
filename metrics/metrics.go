// Package metrics records what a run parsed and computed, in Prometheus text
// format, for a node_exporter textfile collector or a plain diff between runs.
package metrics

import (
	"bytes"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"draft-value/model"
)

const namespace = "draftvalue"

// Run holds the gauges of a single run on a private registry.
type Run struct {
	registry *prometheus.Registry

	playersParsed   *prometheus.GaugeVec
	playersRanked   *prometheus.GaugeVec
	baselineAverage *prometheus.GaugeVec
	unmatchedNames  prometheus.Gauge
	residualNames   prometheus.Gauge
	duration        prometheus.Gauge
	lastSuccess     prometheus.Gauge
}

// NewRun creates a fresh registry with all run gauges.
func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		playersParsed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_parsed",
			Help:      "Players parsed from each position projection file.",
		}, []string{"position"}),
		playersRanked: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players_ranked",
			Help:      "Rows emitted for each category.",
		}, []string{"category"}),
		baselineAverage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "baseline_average_points",
			Help:      "Per-game average of each category's replacement player.",
		}, []string{"category", "player"}),
		unmatchedNames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unmatched_players",
			Help:      "Projected players with no platform rank.",
		}),
		residualNames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unclaimed_platform_entries",
			Help:      "Platform ranking entries no projected player matched.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time the run finished.",
		}),
	}
	r.registry.MustRegister(
		r.playersParsed,
		r.playersRanked,
		r.baselineAverage,
		r.unmatchedNames,
		r.residualNames,
		r.duration,
		r.lastSuccess,
	)
	return r
}

// RecordPools records players parsed per position.
func (r *Run) RecordPools(pools map[string]model.PositionPool) {
	for pos, pool := range pools {
		r.playersParsed.WithLabelValues(pos).Set(float64(len(pool.Players)))
	}
}

// RecordTables records rows and baseline per category.
func (r *Run) RecordTables(tables []model.Table) {
	for _, t := range tables {
		r.playersRanked.WithLabelValues(t.Category).Set(float64(len(t.Rows)))
		if t.Baseline.Average.Valid {
			r.baselineAverage.WithLabelValues(t.Category, t.Baseline.Player).Set(t.Baseline.Average.Value)
		}
	}
}

// RecordReconciliation records name matching misses on both sides.
func (r *Run) RecordReconciliation(unmatched, residual int) {
	r.unmatchedNames.Set(float64(unmatched))
	r.residualNames.Set(float64(residual))
}

// Finish stamps duration and completion time.
func (r *Run) Finish(started, finished time.Time) {
	r.duration.Set(finished.Sub(started).Seconds())
	r.lastSuccess.Set(float64(finished.Unix()))
}

// Gatherer exposes the registry.
func (r *Run) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Encode renders the gauges in text exposition format.
func (r *Run) Encode() ([]byte, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, errors.Wrap(err, "gather metrics")
	}
	var buf bytes.Buffer
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&buf, mf); err != nil {
			return nil, errors.Wrapf(err, "encode %s", mf.GetName())
		}
	}
	return buf.Bytes(), nil
}
