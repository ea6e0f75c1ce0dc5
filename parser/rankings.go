package parser

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"draft-value/logging"
	"draft-value/model"
)

// Required ranking columns; the third column is the platform itself.
const (
	columnName     = "Name"
	columnPosition = "Position"
	rankingColumns = 3
)

// ParsePlatformRankings reads a platform's overall draft order. Row order is
// the overall rank; position rank counts up separately for each position.
func ParsePlatformRankings(path string) (*model.PlatformRankings, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open rankings %s", path)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.Wrapf(ErrMalformedRankings, "%s has no header", path)
		}
		return nil, errors.Wrapf(err, "read header of %s", path)
	}
	header = cleanHeader(header)

	nameCol, posCol, label, err := rankingLayout(header)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}

	rankings := model.NewPlatformRankings(label)
	positionCounts := make(map[string]int)
	overall := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Field count mismatches land here as well
			return nil, errors.Wrapf(ErrMalformedRankings, "%s: %v", path, err)
		}

		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		position := strings.ToUpper(strings.TrimSpace(row[posCol]))

		overall++
		positionCounts[position]++
		if _, seen := rankings.Ranks[name]; !seen {
			rankings.Order = append(rankings.Order, name)
		}
		rankings.Ranks[name] = model.RankPair{Overall: overall, Position: positionCounts[position]}
	}
	return rankings, nil
}

// rankingLayout checks the three-column layout and returns the Name and
// Position column indices and the platform label.
func rankingLayout(header []string) (nameCol, posCol int, label string, err error) {
	if len(header) != rankingColumns {
		return 0, 0, "", errors.Wrapf(ErrMalformedRankings, "expected %d columns, got %d", rankingColumns, len(header))
	}

	nameCol, posCol = -1, -1
	for i, h := range header {
		switch h {
		case columnName:
			if nameCol >= 0 {
				return 0, 0, "", errors.Wrap(ErrMalformedRankings, "duplicate Name column")
			}
			nameCol = i
		case columnPosition:
			if posCol >= 0 {
				return 0, 0, "", errors.Wrap(ErrMalformedRankings, "duplicate Position column")
			}
			posCol = i
		default:
			label = h
		}
	}
	if nameCol < 0 || posCol < 0 {
		return 0, 0, "", errors.Wrap(ErrMalformedRankings, "missing Name or Position column")
	}
	return nameCol, posCol, label, nil
}

// LoadPlatformRankings reads the ranking file in dir. A missing or empty
// directory gives empty rankings; with several files the last in sorted
// order wins.
func LoadPlatformRankings(dir string, log logrus.FieldLogger) (*model.PlatformRankings, error) {
	files, err := ListCSV(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		log.WithField(logging.FieldFile, dir).Debug("no platform rankings found")
		return model.NewPlatformRankings(""), nil
	}
	if len(files) > 1 {
		log.WithField(logging.FieldCount, len(files)).Warn("multiple platform ranking files, using the last")
	}

	path := files[len(files)-1]
	rankings, err := ParsePlatformRankings(path)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		logging.FieldFile:     path,
		logging.FieldPlatform: rankings.Label,
		logging.FieldCount:    rankings.Len(),
	}).Info("parsed platform rankings")
	return rankings, nil
}
