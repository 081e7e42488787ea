package export

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/notas/core/report"
)

const xlsxSheet = "Notas"

// XLSX renders one sheet with numeric cells, empty when the student has no grade.
type XLSX struct{}

func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (XLSX) Filename() string { return BaseName + ".xlsx" }

func (XLSX) Render(w io.Writer, rows []report.Row) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}

	header := make([]interface{}, 0, len(Header))
	for _, h := range Header {
		header = append(header, h)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	if err = f.SetRowStyle(xlsxSheet, 1, 1, bold); err != nil {
		return errors.Wrap(err, "styling header")
	}

	for i, row := range rows {
		values := []interface{}{row.StudentName, row.ClassName, nil, nil, nil, nil, nil, ""}
		if g := row.Grade; g != nil {
			values[2], values[3], values[4], values[5] = g.Work, g.Project, g.Exam1, g.Exam2
			values[6] = g.Mean
			values[7] = g.Qualitative
		}
		if err = f.SetSheetRow(xlsxSheet, "A"+strconv.Itoa(i+2), &values); err != nil {
			return errors.Wrapf(err, "writing row %d", i+2)
		}
	}
	if err = f.SetColWidth(xlsxSheet, "A", "B", 28); err != nil {
		return errors.Wrap(err, "sizing columns")
	}

	if _, err = f.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing xlsx")
	}
	return nil
}
