package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/notas/core/student"
)

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *sqlx.DB) *studentRepository {
	return &studentRepository{db: db}
}

const studentColumns = `id, name, class_id`

type studentRow struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	ClassID string `db:"class_id"`
}

func (r studentRow) student() student.Student {
	return student.Student{ID: r.ID, Name: r.Name, ClassID: r.ClassID}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	std.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx, `INSERT INTO alunos (id, name, class_id) VALUES (:id, :name, :class_id)`, studentRow(std))
	if err != nil {
		return student.Student{}, trapErr(err, student.ErrNotFound, "inserting student")
	}
	return std, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	q := `SELECT ` + studentColumns + ` FROM alunos`
	var args []interface{}
	if filter.ClassID != "" {
		q += ` WHERE class_id = $1`
		args = append(args, filter.ClassID)
	}
	q += ` ORDER BY created_at, id`

	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, trapErr(err, student.ErrNotFound, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, r.student())
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	var row studentRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+studentColumns+` FROM alunos WHERE id = $1`, id)
	if err != nil {
		return student.Student{}, trapErr(err, student.ErrNotFound, "getting student")
	}
	return row.student(), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	res, err := repo.db.NamedExecContext(ctx, `UPDATE alunos SET name = :name, class_id = :class_id WHERE id = :id`, studentRow(std))
	if err != nil {
		return student.Student{}, trapErr(err, student.ErrNotFound, "updating student")
	}
	if err = trapAffected(res, student.ErrNotFound, "updating student"); err != nil {
		return student.Student{}, err
	}
	return std, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM alunos WHERE id = $1`, id)
	if err != nil {
		return trapErr(err, student.ErrNotFound, "deleting student")
	}
	return trapAffected(res, student.ErrNotFound, "deleting student")
}
