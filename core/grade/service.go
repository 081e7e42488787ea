package grade

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/student"
)

// Workflow messages shown to the user.
const (
	MsgLoadFailed = "failed to load roster"
	MsgSaveFailed = "failed to save grades"
)

type (
	Repository interface {
		// QueryGradesByIDs returns the records keyed by ids. An empty ids does not reach the store.
		QueryGradesByIDs(ctx context.Context, ids []string) ([]Grade, error)
		QueryGrades(ctx context.Context) ([]Grade, error)
		// UpsertGrades writes every record in one atomic commit, replacing prior content,
		// and returns them with the store assigned LastUpdated.
		UpsertGrades(ctx context.Context, grades []Grade) ([]Grade, error)
	}

	// StudentQuerier is the part of student.Repository the roster depends on.
	StudentQuerier interface {
		QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error)
	}

	Service struct {
		repo     Repository
		students StudentQuerier
		validate *validator.Validate
	}
)

func NewService(repo Repository, students StudentQuerier, validate *validator.Validate) *Service {
	return &Service{repo: repo, students: students, validate: validate}
}

// LoadRoster builds the working set of classID. An empty classID gives an empty roster.
func (svc *Service) LoadRoster(ctx context.Context, classID string) (*Roster, error) {
	classID = core.CleanString(classID)
	if classID == "" {
		return &Roster{Rows: []Row{}}, nil
	}

	students, err := svc.students.QueryStudents(ctx, student.QueryFilter{ClassID: classID})
	if err != nil {
		return nil, core.NewWorkflowError(MsgLoadFailed, errors.Wrap(err, "querying students"))
	}
	ids := make([]string, 0, len(students))
	for _, std := range students {
		ids = append(ids, std.ID)
	}

	var grades []Grade
	if len(ids) > 0 {
		if grades, err = svc.repo.QueryGradesByIDs(ctx, ids); err != nil {
			return nil, core.NewWorkflowError(MsgLoadFailed, errors.Wrap(err, "querying grades"))
		}
	}
	return Join(classID, students, grades), nil
}

// SaveAll commits grades in one atomic batch. An empty batch is a no-op.
func (svc *Service) SaveAll(ctx context.Context, grades []Grade) ([]Grade, error) {
	if len(grades) == 0 {
		return []Grade{}, nil
	}

	batch, err := prepareBatch(grades)
	if err != nil {
		return nil, err
	}
	saved, err := svc.repo.UpsertGrades(ctx, batch)
	if err != nil {
		return nil, core.NewWorkflowError(MsgSaveFailed, errors.Wrap(err, "upserting grades"))
	}
	return saved, nil
}

// EditRoster loads the roster of classID, applies edits in order and saves the whole roster.
func (svc *Service) EditRoster(ctx context.Context, classID string, edits []Edit) (*Roster, error) {
	for i := range edits {
		if err := svc.validate.Struct(edits[i]); err != nil {
			return nil, err
		}
	}

	roster, err := svc.LoadRoster(ctx, classID)
	if err != nil {
		return nil, err
	}
	if err := roster.Apply(edits...); err != nil {
		return nil, err
	}
	saved, err := svc.SaveAll(ctx, roster.Grades())
	if err != nil {
		return nil, err
	}
	roster.Synced(saved)
	return roster, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Grade, error) {
	grades, err := svc.repo.QueryGrades(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	return grades, nil
}

// prepareBatch validates and normalizes a copy of grades; the client timestamp is dropped.
func prepareBatch(grades []Grade) ([]Grade, error) {
	seen := make(map[string]struct{}, len(grades))
	batch := make([]Grade, 0, len(grades))

	for i, g := range grades {
		g.StudentID = core.CleanString(g.StudentID)
		g.ClassID = core.CleanString(g.ClassID)
		g.ID = core.CleanString(g.ID)

		field := func(name string) string { return fmt.Sprintf("grades[%d].%s", i, name) }
		switch {
		case g.StudentID == "":
			return nil, core.NewValidationError(nil, core.FieldError{Field: field("student_id"), Error: "this field is required"})
		case g.ClassID == "":
			return nil, core.NewValidationError(nil, core.FieldError{Field: field("class_id"), Error: "this field is required"})
		case g.ID != "" && g.ID != g.StudentID:
			return nil, core.NewValidationError(nil, core.FieldError{Field: field("id"), Error: "must equal student_id"})
		}
		if _, dup := seen[g.StudentID]; dup {
			return nil, core.NewValidationError(nil, core.FieldError{Field: field("student_id"), Error: "duplicate student in batch"})
		}
		seen[g.StudentID] = struct{}{}

		g.ID = g.StudentID
		g.LastUpdated = time.Time{}
		g.Normalize()
		batch = append(batch, g)
	}
	return batch, nil
}
