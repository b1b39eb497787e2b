package reports

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// ExportXLSX mirrors Export into a spreadsheet: same data, same
// section order, one sheet. Offered for operators who hand the report
// to people who live in spreadsheets.
func ExportXLSX(s Summary, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return errors.Wrap(err, "new sheet")
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return errors.Wrap(err, "drop default sheet")
	}

	for i, row := range exportRows(s) {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return errors.Wrap(err, "cell name")
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return errors.Wrap(err, "set cell")
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, "save xlsx")
	}
	return nil
}
