package export

import (
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core/report"
)

var (
	pdfWidths     = []float64{42, 28, 17, 17, 14, 14, 15, 35} // mm, 182 total on A4 portrait
	pdfHeadFill   = [3]int{74, 85, 104}
	pdfFontSize   = 8.0
	pdfLineHeight = 6.0
)

// PDF renders an A4 table with the report title.
type PDF struct{}

func (PDF) ContentType() string { return "application/pdf" }
func (PDF) Filename() string    { return BaseName + ".pdf" }

func (PDF) Render(w io.Writer, rows []report.Row) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252 for the core fonts

	header := func() {
		pdf.SetFont("Helvetica", "B", pdfFontSize)
		pdf.SetFillColor(pdfHeadFill[0], pdfHeadFill[1], pdfHeadFill[2])
		pdf.SetTextColor(255, 255, 255)
		for i, h := range Header {
			pdf.CellFormat(pdfWidths[i], pdfLineHeight+1, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", pdfFontSize)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.SetHeaderFuncMode(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	}, true)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, tr(Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	header()

	for i, row := range rows {
		fill := i%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for j, cell := range Record(row) {
			align := "L"
			if j >= 2 && j <= 6 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[j], pdfLineHeight, fit(pdf, tr(cell), pdfWidths[j]), "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "writing pdf")
	}
	return nil
}

// fit truncates s with an ellipsis to the cell width.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	const pad = 2
	if pdf.GetStringWidth(s) <= width-pad {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width-pad {
		s = s[:len(s)-1]
	}
	return s + "..."
}
