// Package pipeline ties the parsers, the rating engine and the renderers into
// a single run.
package pipeline

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"draft-value/config"
	"draft-value/logging"
	"draft-value/metrics"
	"draft-value/model"
	"draft-value/output"
	"draft-value/parser"
	"draft-value/rating"
)

// Result is what a successful run produced.
type Result struct {
	RunID     string
	Platform  string
	Tables    []model.Table
	Artifacts []output.Artifact
	Unmatched []string
	Residual  []string
	Metrics   *metrics.Run
}

// Run loads every input, evaluates all categories and writes the outputs.
// Nothing is written unless every table and artifact was produced.
func Run(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Result, error) {
	started := time.Now()
	res := &Result{RunID: ulid.Make().String()}
	entry := log.WithField(logging.FieldRunID, res.RunID)

	rules, err := cfg.ScoringRules()
	if err != nil {
		return nil, err
	}

	rankings, err := parser.LoadPlatformRankings(cfg.Paths.Rankings, entry)
	if err != nil {
		return nil, err
	}
	res.Platform = rankings.Label

	rec := parser.NewReconciler(rankings, entry)
	pools, err := parser.LoadProjections(cfg.Paths.Projections, cfg.PositionCodes(), rec, entry)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var teams model.TeamRanks
	if cfg.Paths.Teams != "" {
		teams = parser.ParseTeamRanks(cfg.Paths.Teams, entry)
	}

	engine := rating.NewEngine(rating.NewScorer(rules), cfg.PositionRules(), cfg.CategoryRules())
	res.Tables, err = engine.Evaluate(pools)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Unmatched = rec.Unmatched()
	res.Residual = rec.Residual()

	res.Artifacts, err = render(cfg, res, teams)
	if err != nil {
		return nil, err
	}

	finished := time.Now()
	res.Metrics = metrics.NewRun()
	res.Metrics.RecordPools(pools)
	res.Metrics.RecordTables(res.Tables)
	res.Metrics.RecordReconciliation(len(res.Unmatched), len(res.Residual))
	res.Metrics.Finish(started, finished)
	if cfg.Paths.Metrics != "" {
		data, err := res.Metrics.Encode()
		if err != nil {
			return nil, err
		}
		res.Artifacts = append(res.Artifacts, output.Artifact{Path: cfg.Paths.Metrics, Data: data})
	}

	if err := output.WriteAll(res.Artifacts); err != nil {
		return nil, err
	}

	if !rec.Silent() && len(res.Residual) > 0 {
		entry.WithField(logging.FieldCount, len(res.Residual)).Warn("platform ranking entries matched no projected player")
		for _, name := range res.Residual {
			entry.WithField(logging.FieldPlayer, name).Debug("unclaimed platform entry")
		}
	}

	entry.WithFields(logrus.Fields{
		logging.FieldCount:    len(res.Tables),
		logging.FieldDuration: finished.Sub(started).Milliseconds(),
	}).Info("run complete")
	return res, nil
}

// render builds every output in memory.
func render(cfg *config.Config, res *Result, teams model.TeamRanks) ([]output.Artifact, error) {
	artifacts := make([]output.Artifact, 0, len(res.Tables)+3)
	for _, t := range res.Tables {
		data, err := output.EncodeCSV(t, res.Platform)
		if err != nil {
			return nil, errors.Wrapf(err, "render %s", t.Category)
		}
		artifacts = append(artifacts, output.Artifact{
			Path: output.CSVPath(cfg.Paths.Output, t.Category),
			Data: data,
		})
	}

	workbook, err := output.RenderWorkbook(res.Tables, output.WorkbookOptions{
		PlatformLabel: res.Platform,
		RoundSize:     cfg.League.Size,
		TeamRanks:     teams,
		RunID:         res.RunID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "render workbook")
	}
	artifacts = append(artifacts, output.Artifact{Path: cfg.Paths.Workbook, Data: workbook})

	if cfg.Paths.Charts != "" {
		page, err := output.RenderValueCurves(res.Tables, output.DefaultChartOptions())
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, output.Artifact{Path: cfg.Paths.Charts, Data: page})
	}
	return artifacts, nil
}
