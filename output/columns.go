// Package output renders evaluated category tables: intermediate CSVs, the
// draft workbook and the value curve charts.
package output

import (
	"strconv"

	"draft-value/model"
)

// Column headers.
const (
	ColName      = "Name"
	ColTeam      = "Team"
	ColPosition  = "Position"
	ColLow       = "Low"
	ColAvg       = "Avg"
	ColHigh      = "High"
	ColRange     = "Range"
	ColPosLow    = "Pos. Low"
	ColPosAvg    = "Pos. Avg"
	ColPosHigh   = "Pos. High"
	ColRankDelta = "Rank Delta"
)

// RankColumn is the header of the platform rank column, e.g. "ESPN Rank".
func RankColumn(label string) string {
	if label == "" {
		label = model.DefaultPlatformLabel
	}
	return label + " Rank"
}

// Headers returns the column headers of a table.
func Headers(t model.Table, label string) []string {
	headers := []string{ColName, ColTeam}
	if t.Combined {
		headers = append(headers, ColPosition)
	}
	headers = append(headers, ColLow, ColAvg, ColHigh, ColRange)
	if t.Combined {
		headers = append(headers, ColPosLow, ColPosAvg, ColPosHigh)
	}
	return append(headers, RankColumn(label), ColRankDelta)
}

// cell is one rendered value. Scores keep their number for the workbook.
type cell struct {
	text  string
	score *model.Score
	num   *int
}

// rowCells returns the cells of a row in Headers order.
func rowCells(t model.Table, r model.ValueRow) []cell {
	scoreCell := func(s model.Score) cell {
		return cell{text: s.Format(), score: &s}
	}
	intCell := func(v int) cell {
		return cell{text: strconv.Itoa(v), num: &v}
	}

	cells := []cell{{text: r.Name}, {text: r.Team}}
	if t.Combined {
		cells = append(cells, cell{text: r.Position})
	}
	cells = append(cells,
		scoreCell(r.Value.Low),
		scoreCell(r.Value.Average),
		scoreCell(r.Value.High),
		scoreCell(r.Range),
	)
	if t.Combined {
		cells = append(cells,
			scoreCell(r.Positional.Low),
			scoreCell(r.Positional.Average),
			scoreCell(r.Positional.High),
		)
	}
	return append(cells, intCell(r.PlatformRank), intCell(r.RankDelta))
}
