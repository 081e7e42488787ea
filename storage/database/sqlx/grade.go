package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/grade"
)

type gradeRepository struct {
	db *sqlx.DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *sqlx.DB) *gradeRepository {
	return &gradeRepository{db: db}
}

type gradeRow struct {
	ID          string    `db:"id"`
	StudentID   string    `db:"student_id"`
	ClassID     string    `db:"class_id"`
	Work        float64   `db:"work"`
	Project     float64   `db:"project"`
	Exam1       float64   `db:"exam1"`
	Exam2       float64   `db:"exam2"`
	Qualitative string    `db:"qualitative"`
	Mean        float64   `db:"mean"`
	Sum         float64   `db:"sum"`
	LastUpdated null.Time `db:"last_updated"`
}

func (r gradeRow) grade() grade.Grade {
	g := grade.Grade{
		ID:          r.ID,
		StudentID:   r.StudentID,
		ClassID:     r.ClassID,
		Work:        r.Work,
		Project:     r.Project,
		Exam1:       r.Exam1,
		Exam2:       r.Exam2,
		Qualitative: r.Qualitative,
		Mean:        r.Mean,
		Sum:         r.Sum,
	}
	if r.LastUpdated.Valid {
		g.LastUpdated = r.LastUpdated.Time.UTC()
	}
	return g
}

func toGrades(rows []gradeRow) []grade.Grade {
	grades := make([]grade.Grade, 0, len(rows))
	for _, r := range rows {
		grades = append(grades, r.grade())
	}
	return grades
}

const gradeColumns = `id, student_id, class_id, work, project, exam1, exam2, qualitative, mean, sum, last_updated`

func (repo *gradeRepository) QueryGradesByIDs(ctx context.Context, ids []string) ([]grade.Grade, error) {
	if len(ids) == 0 {
		return []grade.Grade{}, nil
	}

	q, args, err := sqlx.In(`SELECT `+gradeColumns+` FROM notas WHERE id IN (?) ORDER BY created_at, id`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building grades query")
	}
	var rows []gradeRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, trapErr(err, core.NewNotFoundError("grade not found"), "querying grades")
	}
	return toGrades(rows), nil
}

func (repo *gradeRepository) QueryGrades(ctx context.Context) ([]grade.Grade, error) {
	var rows []gradeRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT `+gradeColumns+` FROM notas ORDER BY created_at, id`); err != nil {
		return nil, trapErr(err, core.NewNotFoundError("grade not found"), "querying grades")
	}
	return toGrades(rows), nil
}

// UpsertGrades writes the batch in one transaction. now() is the transaction start time,
// so every record of the batch shares the same stamp.
func (repo *gradeRepository) UpsertGrades(ctx context.Context, grades []grade.Grade) (saved []grade.Grade, err error) {
	if len(grades) == 0 {
		return []grade.Grade{}, nil
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, core.NewStoreUnavailableError(err, "starting transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO notas (id, student_id, class_id, work, project, exam1, exam2, qualitative, mean, sum, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (id) DO UPDATE SET
			student_id = EXCLUDED.student_id,
			class_id = EXCLUDED.class_id,
			work = EXCLUDED.work,
			project = EXCLUDED.project,
			exam1 = EXCLUDED.exam1,
			exam2 = EXCLUDED.exam2,
			qualitative = EXCLUDED.qualitative,
			mean = EXCLUDED.mean,
			sum = EXCLUDED.sum,
			last_updated = EXCLUDED.last_updated
		RETURNING last_updated`)
	if err != nil {
		return nil, core.NewStoreUnavailableError(err, "preparing upsert")
	}
	defer func() { _ = stmt.Close() }()

	saved = make([]grade.Grade, 0, len(grades))
	for _, g := range grades {
		var stamp null.Time
		err = stmt.QueryRowxContext(ctx,
			g.ID, g.StudentID, g.ClassID, g.Work, g.Project, g.Exam1, g.Exam2, g.Qualitative, g.Mean, g.Sum,
		).Scan(&stamp)
		if err != nil {
			return nil, core.NewStoreUnavailableError(err, "upserting grade")
		}
		g.LastUpdated = stamp.Time.UTC()
		saved = append(saved, g)
	}

	if err = tx.Commit(); err != nil {
		return nil, core.NewStoreUnavailableError(err, "committing grades")
	}
	return saved, nil
}
