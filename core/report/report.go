package report

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/class"
	"github.com/trezcool/notas/core/grade"
	"github.com/trezcool/notas/core/student"
)

const (
	MsgLoadFailed = "failed to load report"

	// UnknownClass is shown for students whose class no longer exists.
	UnknownClass = "N/A"
)

// Sort keys
const (
	KeyName      = "name"
	KeyClassName = "class_name"
	KeyMean      = "mean"
)

// Row is one student of the report. Grade is nil when no record was ever saved.
type Row struct {
	StudentID   string       `json:"student_id"`
	StudentName string       `json:"student_name"`
	ClassID     string       `json:"class_id"`
	ClassName   string       `json:"class_name"`
	Grade       *grade.Grade `json:"grade"`
}

type (
	ClassQuerier interface {
		QueryClasses(ctx context.Context) ([]class.Class, error)
	}
	StudentQuerier interface {
		QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error)
	}
	GradeQuerier interface {
		QueryGrades(ctx context.Context) ([]grade.Grade, error)
	}

	Service struct {
		classes  ClassQuerier
		students StudentQuerier
		grades   GradeQuerier
	}
)

func NewService(classes ClassQuerier, students StudentQuerier, grades GradeQuerier) *Service {
	return &Service{classes: classes, students: students, grades: grades}
}

// FullReport joins every student with its class name and grade, in student store order.
func (svc *Service) FullReport(ctx context.Context) ([]Row, error) {
	var (
		classes  []class.Class
		students []student.Student
		grades   []grade.Grade
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		classes, err = svc.classes.QueryClasses(gctx)
		return errors.Wrap(err, "querying classes")
	})
	g.Go(func() (err error) {
		students, err = svc.students.QueryStudents(gctx, student.QueryFilter{})
		return errors.Wrap(err, "querying students")
	})
	g.Go(func() (err error) {
		grades, err = svc.grades.QueryGrades(gctx)
		return errors.Wrap(err, "querying grades")
	})
	if err := g.Wait(); err != nil {
		return nil, core.NewWorkflowError(MsgLoadFailed, err)
	}
	return Join(classes, students, grades), nil
}

// Query runs FullReport then applies search and ordering.
func (svc *Service) Query(ctx context.Context, search string, orderings ...core.Ordering) ([]Row, error) {
	rows, err := svc.FullReport(ctx)
	if err != nil {
		return nil, err
	}
	rows = Filter(rows, search)
	for i := len(orderings) - 1; i >= 0; i-- {
		Sort(rows, orderings[i].Field, orderings[i].Ascending)
	}
	return rows, nil
}

func Join(classes []class.Class, students []student.Student, grades []grade.Grade) []Row {
	classNames := make(map[string]string, len(classes))
	for _, cls := range classes {
		classNames[cls.ID] = cls.Name
	}
	gradesByID := make(map[string]grade.Grade, len(grades))
	for _, g := range grades {
		gradesByID[g.ID] = g
	}

	rows := make([]Row, 0, len(students))
	for _, std := range students {
		row := Row{StudentID: std.ID, StudentName: std.Name, ClassID: std.ClassID, ClassName: UnknownClass}
		if name, ok := classNames[std.ClassID]; ok {
			row.ClassName = name
		}
		if g, ok := gradesByID[std.ID]; ok {
			g := g
			row.Grade = &g
		}
		rows = append(rows, row)
	}
	return rows
}

// Filter keeps rows whose student name contains search, ignoring case.
func Filter(rows []Row, search string) []Row {
	search = strings.ToLower(core.CleanString(search))
	if search == "" {
		return rows
	}
	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.StudentName), search) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// IsSortKey reports whether key is accepted by Sort.
func IsSortKey(key string) bool {
	switch key {
	case KeyName, KeyClassName, KeyMean:
		return true
	}
	return false
}

// Sort orders rows in place by key; rows without a grade come first when sorting by mean ascending.
// Unknown keys leave rows untouched.
func Sort(rows []Row, key string, ascending bool) {
	var less func(a, b Row) bool
	switch key {
	case KeyName:
		less = func(a, b Row) bool { return strings.ToLower(a.StudentName) < strings.ToLower(b.StudentName) }
	case KeyClassName:
		less = func(a, b Row) bool { return strings.ToLower(a.ClassName) < strings.ToLower(b.ClassName) }
	case KeyMean:
		less = func(a, b Row) bool {
			switch {
			case a.Grade == nil:
				return b.Grade != nil
			case b.Grade == nil:
				return false
			}
			return a.Grade.Mean < b.Grade.Mean
		}
	default:
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if ascending {
			return less(rows[i], rows[j])
		}
		return less(rows[j], rows[i])
	})
}
