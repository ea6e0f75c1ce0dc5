package parser

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"draft-value/logging"
	"draft-value/model"
)

// Columns that never hold projected stats.
const (
	columnTeam   = "Team"
	columnPoints = "FPTS"
)

// teamMarker leaks into the Team column of some exports.
const teamMarker = "high"

// ParseProjections reads one position file. The first row is the header and
// the second is discarded. Player names are resolved through rec; a nil rec
// leaves every player unranked.
func ParseProjections(path, position string, rec *Reconciler) (model.PositionPool, error) {
	pool := model.PositionPool{Position: position, Source: path}

	file, err := os.Open(path)
	if err != nil {
		return pool, errors.Wrapf(err, "open projections %s", path)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return pool, nil
		}
		return pool, errors.Wrapf(err, "read header of %s", path)
	}
	header = cleanHeader(header)

	// Second row is an export artifact
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return pool, nil
		}
		return pool, errors.Wrapf(err, "read %s", path)
	}

	statCols, teamCol := projectionColumns(header)
	tracker := newBlockTracker(position)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return pool, errors.Wrapf(err, "read %s", path)
		}
		line, _ := reader.FieldPos(0)

		// Trailing padding rows
		if len(row) <= 1 {
			continue
		}

		if name := strings.TrimSpace(row[0]); name != "" {
			b := tracker.StartPlayer(name)
			if teamCol >= 0 && teamCol < len(row) {
				b.SetTeam(cleanTeam(row[teamCol]))
			}
		} else {
			tracker.Relabel(row[1])
		}

		stats, err := parseStats(header, row, statCols)
		if err != nil {
			return pool, errors.Wrapf(err, "%s line %d", path, line)
		}
		if err := tracker.Record(stats); err != nil {
			return pool, errors.Wrapf(err, "%s line %d", path, line)
		}
	}

	for _, b := range tracker.Builders() {
		rank := model.UnrankedPair
		if rec != nil {
			rank = rec.Resolve(b.Name(), position)
		}
		pool.Players = append(pool.Players, b.Build(rank))
	}
	return pool, nil
}

// projectionColumns returns the stat column indices (the name column and the
// Team/FPTS columns excluded) and the index of the Team column, or -1.
func projectionColumns(header []string) (stats []int, team int) {
	team = -1
	for i, h := range header {
		switch {
		case i == 0:
		case h == columnTeam:
			team = i
		case h == columnPoints:
		default:
			stats = append(stats, i)
		}
	}
	return stats, team
}

// parseStats reads the stat cells of a row. Blank cells are left out rather
// than read as zero; thousands separators are stripped.
func parseStats(header, row []string, cols []int) (model.StatLine, error) {
	stats := make(model.StatLine, len(cols))
	for _, i := range cols {
		if i >= len(row) {
			continue
		}
		cell := strings.TrimSpace(row[i])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedProjections, "column %s: %q is not a number", header[i], cell)
		}
		stats[header[i]] = v
	}
	return stats, nil
}

func cleanTeam(cell string) string {
	return normalizeTeam(strings.ReplaceAll(cell, teamMarker, ""))
}

// LoadProjections parses every position file in dir, in sorted filename
// order. Files for positions outside positions are skipped.
func LoadProjections(dir string, positions []string, rec *Reconciler, log logrus.FieldLogger) (map[string]model.PositionPool, error) {
	files, err := ListCSV(dir)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(positions))
	for _, p := range positions {
		wanted[p] = true
	}

	pools := make(map[string]model.PositionPool, len(positions))
	for _, path := range files {
		position := PositionFromFilename(path)
		entry := log.WithFields(logrus.Fields{
			logging.FieldFile:     path,
			logging.FieldPosition: position,
		})
		if !wanted[position] {
			entry.Warn("skipping projections for unconfigured position")
			continue
		}
		if prev, dup := pools[position]; dup {
			entry.WithField("replaced", prev.Source).Warn("multiple projection files for position, using the last")
		}

		pool, err := ParseProjections(path, position, rec)
		if err != nil {
			return nil, err
		}
		entry.WithField(logging.FieldCount, len(pool.Players)).Info("parsed projections")
		pools[position] = pool
	}
	return pools, nil
}
