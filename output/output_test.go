package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"draft-value/model"
)

func scores(low, avg, high float64) model.ScoreSet {
	return model.ScoreSet{Low: model.ScoreOf(low), Average: model.ScoreOf(avg), High: model.ScoreOf(high)}
}

func quarterbacks() model.Table {
	return model.Table{
		Category: "QB",
		Baseline: model.Baseline{Index: 1, Player: "Jared Goff", Average: model.ScoreOf(18.2)},
		Rows: []model.ValueRow{
			{
				Name: "Josh Allen", Team: "BUF", Position: "QB",
				Value: scores(5.26, 7.04, 9.96), Range: model.ScoreOf(4.71),
				PlatformRank: 2, RankDelta: 1,
			},
			{
				Name: "Smith, Jr", Position: "QB",
				Value:        model.ScoreSet{Low: model.ScoreOf(-1.04), Average: model.ScoreOf(0)},
				Range:        model.NoScore,
				PlatformRank: model.Unranked, RankDelta: -9999,
			},
		},
	}
}

func overall() model.Table {
	return model.Table{
		Category: "Overall",
		Combined: true,
		Baseline: model.Baseline{Index: 0, Player: "Bijan Robinson", Average: model.ScoreOf(3)},
		Rows: []model.ValueRow{
			{
				Name: "Bijan Robinson", Team: "ATL", Position: "RB",
				Value: scores(-1.5, 0, 2.24), Range: model.ScoreOf(3.76),
				Positional:   scores(1.5, 3, 5.24),
				PlatformRank: 1, RankDelta: 0,
			},
			{
				Name: "Puka Nacua", Team: "LAR", Position: "WR",
				Value: scores(-2, -0.4, 1), Range: model.ScoreOf(3),
				Positional:   scores(1, 2.6, 4),
				PlatformRank: 7, RankDelta: 5,
			},
		},
	}
}

func TestHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"Name", "Team", "Low", "Avg", "High", "Range", "ESPN Rank", "Rank Delta"},
		Headers(quarterbacks(), "ESPN"))
	assert.Equal(t,
		[]string{"Name", "Team", "Position", "Low", "Avg", "High", "Range", "Pos. Low", "Pos. Avg", "Pos. High", "Platform Rank", "Rank Delta"},
		Headers(overall(), ""))
}

func TestEncodeCSV(t *testing.T) {
	data, err := EncodeCSV(quarterbacks(), "ESPN")
	require.NoError(t, err)

	assert.Equal(t, "Name,Team,Low,Avg,High,Range,ESPN Rank,Rank Delta\n"+
		"Josh Allen,BUF,5.3,7.0,10.0,4.7,2,1\n"+
		"\"Smith, Jr\",,-1.0,0.0,,,-1,-9999\n", string(data))

	again, err := EncodeCSV(quarterbacks(), "ESPN")
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestEncodeCSVCombined(t *testing.T) {
	data, err := EncodeCSV(overall(), "Sleeper")
	require.NoError(t, err)

	assert.Equal(t, "Name,Team,Position,Low,Avg,High,Range,Pos. Low,Pos. Avg,Pos. High,Sleeper Rank,Rank Delta\n"+
		"Bijan Robinson,ATL,RB,-1.5,0.0,2.2,3.8,1.5,3.0,5.2,1,0\n"+
		"Puka Nacua,LAR,WR,-2.0,-0.4,1.0,3.0,1.0,2.6,4.0,7,5\n", string(data))
}

func TestCSVPath(t *testing.T) {
	assert.Equal(t, filepath.Join("output", "Flex.csv"), CSVPath("output", "Flex"))
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "QB.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	err := WriteAll([]Artifact{
		{Path: target, Data: []byte("new")},
		{Path: filepath.Join(dir, "fresh", "Flex.csv"), Data: []byte("flex")},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "QB.csv", entries[0].Name())

	info, err := os.Stat(filepath.Join(dir, "fresh", "Flex.csv"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteAllFailureTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "out", "QB.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(kept), 0o755))
	require.NoError(t, os.WriteFile(kept, []byte("old"), 0o644))
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := WriteAll([]Artifact{
		{Path: kept, Data: []byte("new")},
		{Path: filepath.Join(dir, "out", "RB.csv"), Data: []byte("rb")},
		{Path: filepath.Join(blocker, "draft.prom"), Data: []byte("metrics")},
	})
	require.Error(t, err)

	data, err := os.ReadFile(kept)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(filepath.Dir(kept))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "QB.csv", entries[0].Name())
}

func openWorkbook(t *testing.T, tables []model.Table, opts WorkbookOptions) *excelize.File {
	t.Helper()
	data, err := RenderWorkbook(tables, opts)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestRenderWorkbookLayout(t *testing.T) {
	f := openWorkbook(t, []model.Table{quarterbacks(), overall()}, WorkbookOptions{
		PlatformLabel: "ESPN",
		RoundSize:     12,
		TeamRanks:     model.TeamRanks{"BUF": 1, "ATL": 2, "LAR": 3},
		RunID:         "01J9ZQ3V6W6X8Y1T0R2S4P5N7M",
	})

	assert.Equal(t, []string{"QB", "Overall"}, f.GetSheetList())

	rows, err := f.GetRows("QB")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Drafted", "Name", "Team", "Low", "Avg", "High", "Range", "ESPN Rank", "Rank Delta"}, rows[0])

	name, err := f.GetCellValue("QB", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Josh Allen", name)

	drafted, err := f.GetCellValue("QB", "A2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "0", drafted)

	// Values are stored rounded like the CSV
	high, err := f.GetCellValue("QB", "F2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "10", high)

	// Unknown scores stay blank
	blank, err := f.GetCellValue("QB", "F3")
	require.NoError(t, err)
	assert.Equal(t, "", blank)

	delta, err := f.GetCellValue("QB", "I3")
	require.NoError(t, err)
	assert.Equal(t, "-9999", delta)

	header, err := f.GetRows("Overall")
	require.NoError(t, err)
	assert.Equal(t, "Position", header[0][3])
	assert.Equal(t, "Pos. High", header[0][10])
}

func TestRenderWorkbookDraftToggles(t *testing.T) {
	f := openWorkbook(t, []model.Table{quarterbacks()}, WorkbookOptions{PlatformLabel: "ESPN"})

	controls, err := f.GetFormControls("QB")
	require.NoError(t, err)
	require.Len(t, controls, 2)
	for i, c := range controls {
		assert.Equal(t, excelize.FormControlCheckBox, c.Type)
		assert.False(t, c.Checked)
		assert.Contains(t, []string{"A2", "A3"}, c.Cell, "control %d", i)
	}
	assert.ElementsMatch(t, []string{"$A$2", "$A$3"}, []string{controls[0].CellLink, controls[1].CellLink})
}

func TestRenderWorkbookConditionalFormats(t *testing.T) {
	f := openWorkbook(t, []model.Table{quarterbacks()}, WorkbookOptions{PlatformLabel: "ESPN", RoundSize: 10})

	formats, err := f.GetConditionalFormats("QB")
	require.NoError(t, err)

	// Low, Avg, High, Range, rank and delta columns
	for _, ref := range []string{"D2:D3", "E2:E3", "F2:F3", "G2:G3", "H2:H3", "I2:I3"} {
		require.Contains(t, formats, ref)
		require.Len(t, formats[ref], 1)
		assert.Equal(t, "3_color_scale", formats[ref][0].Type, ref)
	}
	assert.Equal(t, "percentile", formats["G2:G3"][0].MinType)
	assert.Equal(t, "num", formats["E2:E3"][0].MidType)

	rowRules := formats["A2:I3"]
	require.Len(t, rowRules, 2)
	assert.Equal(t, "formula", rowRules[0].Type)
	assert.Equal(t, "$A2=TRUE", rowRules[0].Criteria)
	assert.Equal(t, "MOD(ROW()-1,10)=0", rowRules[1].Criteria)
}

func TestRenderWorkbookSheetSetup(t *testing.T) {
	f := openWorkbook(t, []model.Table{quarterbacks()}, WorkbookOptions{RunID: "run-42"})

	panes, err := f.GetPanes("QB")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)

	width, err := f.GetColWidth("QB", "B")
	require.NoError(t, err)
	assert.Equal(t, float64(len("Josh Allen")+2), width)

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "run-42", props.Identifier)
}

func TestRenderWorkbookEmptyTable(t *testing.T) {
	f := openWorkbook(t, []model.Table{{Category: "K"}}, WorkbookOptions{})

	rows, err := f.GetRows("K")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	formats, err := f.GetConditionalFormats("K")
	require.NoError(t, err)
	assert.Empty(t, formats)
}

func TestTeamColor(t *testing.T) {
	assert.Equal(t, "#63BE7B", teamColor(1, 32))
	assert.Equal(t, "#F8696B", teamColor(32, 32))
	assert.Equal(t, "#FFFFFF", teamColor(2, 3))
	assert.Equal(t, "#63BE7B", teamColor(1, 1))
}

func TestRenderValueCurves(t *testing.T) {
	page, err := RenderValueCurves([]model.Table{quarterbacks(), overall()}, DefaultChartOptions())
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "Value Curves")
	assert.Contains(t, html, "Josh Allen")
	assert.Contains(t, html, "Puka Nacua")
	assert.Contains(t, html, "baseline Jared Goff (#2)")
}
