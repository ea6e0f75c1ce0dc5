package parser

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"draft-value/logging"
	"draft-value/model"
)

// ParseTeamRanks reads the team strength notes: one team per row, strongest
// first, extra columns ignored. The file is optional, so any problem reading
// it gives an empty table.
func ParseTeamRanks(path string, log logrus.FieldLogger) model.TeamRanks {
	ranks := make(model.TeamRanks)
	entry := log.WithField(logging.FieldFile, path)

	data, err := os.ReadFile(path)
	if err != nil {
		entry.WithError(err).Debug("team ranks unavailable")
		return ranks
	}
	if !utf8.Valid(data) {
		entry.Debug("team ranks are not valid UTF-8, ignoring")
		return ranks
	}
	data = bytes.TrimPrefix(data, []byte(utf8BOM))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rank := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			entry.WithError(err).Debug("team ranks unreadable, ignoring")
			return make(model.TeamRanks)
		}
		if len(row) == 0 {
			continue
		}
		team := normalizeTeam(row[0])
		if team == "" || team == "TEAM" {
			continue
		}
		if _, seen := ranks[team]; seen {
			continue
		}
		rank++
		ranks[team] = rank
	}
	entry.WithField(logging.FieldCount, len(ranks)).Debug("parsed team ranks")
	return ranks
}

// normalizeTeam is the team key shared by projections and team ranks.
func normalizeTeam(cell string) string {
	return strings.ToUpper(strings.TrimSpace(cell))
}
