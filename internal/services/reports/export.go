package reports

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// Export writes the summary as a semicolon-delimited text file with a
// fixed section order: period, totals, per-operator scan table,
// per-operator error table, daily breakdown. Pure formatting of the
// summary, no recomputation. The file appears atomically: content is
// written to a temp file and renamed, so a failed export never leaves
// a truncated file that parses as a valid report.
func Export(s Summary, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp report")
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	w.Comma = ';'

	rows := exportRows(s)
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "write report")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "close report")
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return errors.Wrap(err, "rename report")
	}
	return nil
}

func exportRows(s Summary) [][]string {
	itoa := strconv.Itoa
	rows := [][]string{
		{"period", s.Period},
		{},
		{"totals"},
		{"total scans", itoa(s.TotalScans)},
		{"total errors", itoa(s.TotalErrors)},
		{"unique scan operators", itoa(s.UniqueScanOperators)},
		{"unique error operators", itoa(s.UniqueErrorOperators)},
		{"top scanner", s.TopScanner.Operator, itoa(s.TopScanner.Count)},
		{"top error producer", s.TopErrorProducer.Operator, itoa(s.TopErrorProducer.Count)},
		{},
		{"scans by operator"},
		{"operator", "count"},
	}
	for _, e := range sortedCounts(s.ScanCounts) {
		rows = append(rows, []string{e.Operator, itoa(e.Count)})
	}
	rows = append(rows,
		[]string{},
		[]string{"errors by operator"},
		[]string{"operator", "count"},
	)
	for _, e := range sortedCounts(s.ErrorCounts) {
		rows = append(rows, []string{e.Operator, itoa(e.Count)})
	}
	rows = append(rows,
		[]string{},
		[]string{"daily breakdown"},
		[]string{"date", "scans", "errors", "top scanner", "top scanner count", "top error producer", "top error producer count"},
	)
	for _, d := range s.Daily {
		rows = append(rows, []string{
			d.Date,
			itoa(d.Scans),
			itoa(d.Errors),
			d.TopScanner.Operator,
			itoa(d.TopScanner.Count),
			d.TopErrorProducer.Operator,
			itoa(d.TopErrorProducer.Count),
		})
	}
	return rows
}
