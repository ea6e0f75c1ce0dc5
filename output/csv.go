package output

import (
	"bytes"
	"encoding/csv"
	"path/filepath"

	"github.com/pkg/errors"

	"draft-value/model"
)

// EncodeCSV renders a table as the intermediate CSV. Scores are written
// with one decimal and blank when unknown.
func EncodeCSV(t model.Table, label string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Headers(t, label)); err != nil {
		return nil, errors.Wrap(err, "write CSV header")
	}
	for _, r := range t.Rows {
		cells := rowCells(t, r)
		record := make([]string, len(cells))
		for i, c := range cells {
			record[i] = c.text
		}
		if err := w.Write(record); err != nil {
			return nil, errors.Wrapf(err, "write CSV row %s", r.Name)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "flush CSV")
	}
	return buf.Bytes(), nil
}

// CSVPath is where a category's intermediate CSV goes.
func CSVPath(dir, category string) string {
	return filepath.Join(dir, category+".csv")
}
