// Package export renders the grade report as downloadable documents.
package export

import (
	"fmt"
	"io"

	"github.com/trezcool/notas/core/report"
)

const (
	Title    = "Relatório de Notas dos Alunos"
	Missing  = "N/L"
	BaseName = "relatorio_notas"
)

var Header = []string{"Aluno", "Turma", "Trabalho", "Projeto", "Av. 1", "Av. 2", "Média", "Qualitativo"}

// Renderer writes report rows in one document format.
type Renderer interface {
	Render(w io.Writer, rows []report.Row) error
	ContentType() string
	Filename() string
}

// Record formats one row the way every renderer prints it.
func Record(row report.Row) []string {
	rec := []string{row.StudentName, row.ClassName, Missing, Missing, Missing, Missing, Missing, ""}
	if g := row.Grade; g != nil {
		rec[2] = fmt.Sprintf("%.1f", g.Work)
		rec[3] = fmt.Sprintf("%.1f", g.Project)
		rec[4] = fmt.Sprintf("%.1f", g.Exam1)
		rec[5] = fmt.Sprintf("%.1f", g.Exam2)
		rec[6] = fmt.Sprintf("%.2f", g.Mean)
		rec[7] = g.Qualitative
	}
	return rec
}

// ByFormat returns the renderer for "pdf" or "xlsx".
func ByFormat(format string) (Renderer, bool) {
	switch format {
	case "pdf":
		return PDF{}, true
	case "xlsx":
		return XLSX{}, true
	}
	return nil, false
}
