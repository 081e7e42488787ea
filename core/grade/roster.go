package grade

import (
	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/student"
)

// Source tells whether a row's grade came from the store or was synthesized.
type Source string

const (
	SourceExisting    Source = "existing"
	SourcePlaceholder Source = "placeholder"
)

var ErrStudentNotInRoster = core.NewNotFoundError("student is not in the roster")

// Row pairs a student with its grade record.
type Row struct {
	Student student.Student `json:"student"`
	Grade   Grade           `json:"grade"`
	Source  Source          `json:"source"`
}

// Roster is the editable working set for one class. Edits stay local until saved.
type Roster struct {
	ClassID string `json:"class_id"`
	Rows    []Row  `json:"rows"`
}

// Join pairs every student with its grade from grades, or a placeholder.
func Join(classID string, students []student.Student, grades []Grade) *Roster {
	byID := make(map[string]Grade, len(grades))
	for _, g := range grades {
		byID[g.ID] = g
	}

	roster := &Roster{ClassID: classID, Rows: make([]Row, 0, len(students))}
	for _, std := range students {
		if g, ok := byID[std.ID]; ok {
			roster.Rows = append(roster.Rows, Row{Student: std, Grade: g, Source: SourceExisting})
			continue
		}
		roster.Rows = append(roster.Rows, Row{
			Student: std,
			Grade:   NewPlaceholder(std.ID, std.ClassID),
			Source:  SourcePlaceholder,
		})
	}
	return roster
}

func (r *Roster) Len() int { return len(r.Rows) }

// Set applies a field edit to the row of studentID.
func (r *Roster) Set(studentID, field string, value interface{}) (Grade, error) {
	for i := range r.Rows {
		if r.Rows[i].Student.ID != studentID {
			continue
		}
		g, err := r.Rows[i].Grade.Set(field, value)
		if err != nil {
			return Grade{}, err
		}
		r.Rows[i].Grade = g
		return g, nil
	}
	return Grade{}, ErrStudentNotInRoster
}

// Apply runs every edit in order and stops at the first failure.
func (r *Roster) Apply(edits ...Edit) error {
	for _, e := range edits {
		if _, err := r.Set(e.StudentID, e.Field, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Grades returns the records to hand to a batch save.
func (r *Roster) Grades() []Grade {
	grades := make([]Grade, 0, len(r.Rows))
	for _, row := range r.Rows {
		grades = append(grades, row.Grade)
	}
	return grades
}

// Synced replaces the local records with saved ones and marks every row existing.
func (r *Roster) Synced(saved []Grade) {
	byID := make(map[string]Grade, len(saved))
	for _, g := range saved {
		byID[g.ID] = g
	}
	for i := range r.Rows {
		if g, ok := byID[r.Rows[i].Student.ID]; ok {
			r.Rows[i].Grade = g
			r.Rows[i].Source = SourceExisting
		}
	}
}
