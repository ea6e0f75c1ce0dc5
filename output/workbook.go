package output

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"draft-value/model"
)

// ColDrafted is the draft-tracking column in front of every sheet.
const ColDrafted = "Drafted"

// Colours used by the workbook.
const (
	colorRed    = "#FF6347"
	colorWhite  = "#FFFFFF"
	colorGreen  = "#00FF00"
	colorHeader = "#D9D9D9"
	colorDone   = "#BFBFBF"
)

// positionColors fills the Position column of combined sheets.
var positionColors = map[string]string{
	"QB": "#E6B8B7",
	"RB": "#C4D79B",
	"WR": "#B7DEE8",
	"TE": "#FCD5B4",
}

const defaultPositionColor = "#EDEDED"

// WorkbookOptions controls workbook rendering.
type WorkbookOptions struct {
	// PlatformLabel names the platform rank column.
	PlatformLabel string
	// RoundSize is the number of picks per draft round; a border is drawn
	// under every RoundSize-th row.
	RoundSize int
	// TeamRanks colours team cells by strength. May be empty.
	TeamRanks model.TeamRanks
	// RunID is stamped into the document properties.
	RunID string
}

// WorkbookWriter renders category tables into one workbook, one sheet per table.
type WorkbookWriter struct {
	file *excelize.File
	opts WorkbookOptions

	headerStyle  int
	draftedStyle int
	scoreStyle   int
	doneStyle    int
	roundStyle   int

	positionStyles map[string]int
	teamStyles     map[string]int
}

// NewWorkbookWriter creates an empty workbook and registers its styles.
func NewWorkbookWriter(opts WorkbookOptions) (*WorkbookWriter, error) {
	if opts.RoundSize <= 0 {
		opts.RoundSize = 12
	}
	w := &WorkbookWriter{
		file:           excelize.NewFile(),
		opts:           opts,
		positionStyles: make(map[string]int),
		teamStyles:     make(map[string]int),
	}
	if err := w.registerStyles(); err != nil {
		_ = w.file.Close()
		return nil, err
	}
	return w, nil
}

// RenderWorkbook renders tables and returns the encoded .xlsx.
func RenderWorkbook(tables []model.Table, opts WorkbookOptions) ([]byte, error) {
	w, err := NewWorkbookWriter(opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = w.Close() }()

	for _, t := range tables {
		if err := w.AddTable(t); err != nil {
			return nil, err
		}
	}
	return w.Bytes()
}

func (w *WorkbookWriter) registerStyles() error {
	var err error
	if w.headerStyle, err = w.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorHeader}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return errors.Wrap(err, "create header style")
	}

	// The checkbox sits on top of its linked cell; hide the TRUE/FALSE text
	hidden := ";;;"
	if w.draftedStyle, err = w.file.NewStyle(&excelize.Style{CustomNumFmt: &hidden}); err != nil {
		return errors.Wrap(err, "create drafted style")
	}

	oneDecimal := "0.0"
	if w.scoreStyle, err = w.file.NewStyle(&excelize.Style{CustomNumFmt: &oneDecimal}); err != nil {
		return errors.Wrap(err, "create score style")
	}

	if w.doneStyle, err = w.file.NewConditionalStyle(&excelize.Style{
		Font: &excelize.Font{Strike: true, Color: "#7F7F7F"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorDone}},
	}); err != nil {
		return errors.Wrap(err, "create drafted row style")
	}

	if w.roundStyle, err = w.file.NewConditionalStyle(&excelize.Style{
		Border: []excelize.Border{{Type: "bottom", Color: "#000000", Style: 2}},
	}); err != nil {
		return errors.Wrap(err, "create round border style")
	}

	for pos, color := range positionColors {
		if w.positionStyles[pos], err = w.fillStyle(color); err != nil {
			return err
		}
	}

	n := len(w.opts.TeamRanks)
	for team, rank := range w.opts.TeamRanks {
		if w.teamStyles[team], err = w.fillStyle(teamColor(rank, n)); err != nil {
			return err
		}
	}
	return nil
}

func (w *WorkbookWriter) fillStyle(color string) (int, error) {
	id, err := w.file.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
	})
	if err != nil {
		return 0, errors.Wrapf(err, "create fill style %s", color)
	}
	return id, nil
}

// AddTable writes a table to its own sheet. The first table reuses the
// default sheet.
func (w *WorkbookWriter) AddTable(t model.Table) error {
	sheet := t.Category
	if err := w.addSheet(sheet); err != nil {
		return err
	}

	headers := append([]string{ColDrafted}, Headers(t, w.opts.PlatformLabel)...)
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := w.file.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return errors.Wrapf(err, "write header of %s", sheet)
	}
	lastCol := columnName(len(headers))
	if err := w.file.SetCellStyle(sheet, "A1", lastCol+"1", w.headerStyle); err != nil {
		return errors.Wrapf(err, "style header of %s", sheet)
	}

	nameWidth := len(ColName)
	for i, r := range t.Rows {
		row := i + 2
		if err := w.writeRow(sheet, row, rowCells(t, r)); err != nil {
			return err
		}
		if err := w.styleRow(sheet, row, headers, r); err != nil {
			return err
		}
		if err := w.addDraftToggle(sheet, row); err != nil {
			return err
		}
		nameWidth = max(nameWidth, len(r.Name))
	}

	if err := w.formatColumns(sheet, headers, len(t.Rows)); err != nil {
		return err
	}

	// Fit the Name column to the longest name
	nameCol := columnName(indexOf(headers, ColName) + 1)
	if err := w.file.SetColWidth(sheet, nameCol, nameCol, float64(nameWidth+2)); err != nil {
		return errors.Wrapf(err, "size name column of %s", sheet)
	}
	if err := w.file.SetColWidth(sheet, "A", "A", 9); err != nil {
		return errors.Wrapf(err, "size drafted column of %s", sheet)
	}

	return w.file.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *WorkbookWriter) addSheet(sheet string) error {
	if len(w.file.GetSheetList()) == 1 && w.file.GetSheetName(0) == "Sheet1" {
		if err := w.file.SetSheetName("Sheet1", sheet); err != nil {
			return errors.Wrapf(err, "rename default sheet to %s", sheet)
		}
		return nil
	}
	if _, err := w.file.NewSheet(sheet); err != nil {
		return errors.Wrapf(err, "create sheet %s", sheet)
	}
	return nil
}

func (w *WorkbookWriter) writeRow(sheet string, row int, cells []cell) error {
	if err := w.file.SetCellValue(sheet, cellName(1, row), false); err != nil {
		return errors.Wrapf(err, "write %s row %d", sheet, row)
	}
	for i, c := range cells {
		ref := cellName(i+2, row)
		var value interface{}
		switch {
		case c.score != nil:
			if !c.score.Valid {
				continue
			}
			// Store what the CSV shows, not the unrounded score
			v, err := strconv.ParseFloat(c.text, 64)
			if err != nil {
				return errors.Wrapf(err, "%s %s", sheet, ref)
			}
			value = v
		case c.num != nil:
			value = *c.num
		default:
			value = c.text
		}
		if err := w.file.SetCellValue(sheet, ref, value); err != nil {
			return errors.Wrapf(err, "write %s %s", sheet, ref)
		}
	}
	return nil
}

func (w *WorkbookWriter) styleRow(sheet string, row int, headers []string, r model.ValueRow) error {
	if err := w.file.SetCellStyle(sheet, cellName(1, row), cellName(1, row), w.draftedStyle); err != nil {
		return errors.Wrapf(err, "style %s row %d", sheet, row)
	}

	for i, h := range headers {
		ref := cellName(i+1, row)
		style, ok := 0, false
		switch h {
		case ColLow, ColAvg, ColHigh, ColRange, ColPosLow, ColPosAvg, ColPosHigh:
			style, ok = w.scoreStyle, true
		case ColPosition:
			style, ok = w.positionStyles[r.Position]
			if !ok {
				var err error
				if style, err = w.fillStyle(defaultPositionColor); err != nil {
					return err
				}
				w.positionStyles[r.Position] = style
				ok = true
			}
		case ColTeam:
			style, ok = w.teamStyles[r.Team]
		}
		if !ok {
			continue
		}
		if err := w.file.SetCellStyle(sheet, ref, ref, style); err != nil {
			return errors.Wrapf(err, "style %s %s", sheet, ref)
		}
	}
	return nil
}

// addDraftToggle puts a checkbox on the Drafted cell, linked to that cell.
func (w *WorkbookWriter) addDraftToggle(sheet string, row int) error {
	ref := cellName(1, row)
	err := w.file.AddFormControl(sheet, excelize.FormControl{
		Cell:     ref,
		Type:     excelize.FormControlCheckBox,
		CellLink: "$A$" + strconv.Itoa(row),
		Width:    60,
		Height:   18,
	})
	if err != nil {
		return errors.Wrapf(err, "add draft toggle %s %s", sheet, ref)
	}
	return nil
}

// formatColumns adds the colour scales, the drafted-row rule and the
// draft-round borders.
func (w *WorkbookWriter) formatColumns(sheet string, headers []string, rows int) error {
	if rows == 0 {
		return nil
	}
	last := rows + 1
	lastCol := columnName(len(headers))

	for i, h := range headers {
		var rule excelize.ConditionalFormatOptions
		switch h {
		case ColRange, RankColumn(w.opts.PlatformLabel):
			// Lower is better; spread over percentiles rather than min/max
			rule = excelize.ConditionalFormatOptions{
				Type:     "3_color_scale",
				Criteria: "=",
				MinType:  "percentile",
				MinValue: "0",
				MinColor: colorGreen,
				MidType:  "percentile",
				MidValue: "50",
				MidColor: colorWhite,
				MaxType:  "percentile",
				MaxValue: "100",
				MaxColor: colorRed,
			}
		case ColLow, ColAvg, ColHigh, ColPosLow, ColPosAvg, ColPosHigh, ColRankDelta:
			// Zero is the replacement player
			rule = excelize.ConditionalFormatOptions{
				Type:     "3_color_scale",
				Criteria: "=",
				MinType:  "min",
				MinColor: colorRed,
				MidType:  "num",
				MidValue: "0",
				MidColor: colorWhite,
				MaxType:  "max",
				MaxColor: colorGreen,
			}
		default:
			continue
		}
		col := columnName(i + 1)
		ref := fmt.Sprintf("%s2:%s%d", col, col, last)
		if err := w.file.SetConditionalFormat(sheet, ref, []excelize.ConditionalFormatOptions{rule}); err != nil {
			return errors.Wrapf(err, "colour scale %s %s", sheet, h)
		}
	}

	rowsRef := fmt.Sprintf("A2:%s%d", lastCol, last)
	doneStyle, roundStyle := w.doneStyle, w.roundStyle
	err := w.file.SetConditionalFormat(sheet, rowsRef, []excelize.ConditionalFormatOptions{
		{Type: "formula", Criteria: "$A2=TRUE", Format: &doneStyle},
		{Type: "formula", Criteria: fmt.Sprintf("MOD(ROW()-1,%d)=0", w.opts.RoundSize), Format: &roundStyle},
	})
	if err != nil {
		return errors.Wrapf(err, "row rules %s", sheet)
	}
	return nil
}

// Bytes stamps the document properties and encodes the workbook.
func (w *WorkbookWriter) Bytes() ([]byte, error) {
	if err := w.file.SetDocProps(&excelize.DocProperties{
		Title:       "Draft Sheet",
		Subject:     "Value over replacement by position",
		Creator:     "draft-value",
		Identifier:  w.opts.RunID,
		Description: "run " + w.opts.RunID,
	}); err != nil {
		return nil, errors.Wrap(err, "set document properties")
	}
	w.file.SetActiveSheet(0)

	buf, err := w.file.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "encode workbook")
	}
	return buf.Bytes(), nil
}

// Close releases the workbook.
func (w *WorkbookWriter) Close() error {
	return w.file.Close()
}

// teamColor places a team on a green (strongest) to red (weakest) gradient.
func teamColor(rank, teams int) string {
	if teams <= 1 {
		return "#63BE7B"
	}
	t := float64(rank-1) / float64(teams-1)
	green := [3]float64{0x63, 0xBE, 0x7B}
	white := [3]float64{0xFF, 0xFF, 0xFF}
	red := [3]float64{0xF8, 0x69, 0x6B}

	from, to, f := green, white, t*2
	if t > 0.5 {
		from, to, f = white, red, (t-0.5)*2
	}
	var rgb [3]int
	for i := range rgb {
		rgb[i] = int(from[i] + (to[i]-from[i])*f + 0.5)
	}
	return fmt.Sprintf("#%02X%02X%02X", rgb[0], rgb[1], rgb[2])
}

func columnName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
