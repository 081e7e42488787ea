package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/notas/core/professor"
)

type professorRepository struct {
	db *sqlx.DB
}

var _ professor.Repository = (*professorRepository)(nil) // interface compliance check

func NewProfessorRepository(db *sqlx.DB) *professorRepository {
	return &professorRepository{db: db}
}

type professorRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	IsProfessor  bool      `db:"is_professor"`
	IsActive     bool      `db:"is_active"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    null.Time `db:"last_login"`
}

func newProfessorRow(prof professor.Professor) professorRow {
	return professorRow{
		ID:           prof.ID,
		Name:         prof.Name,
		Email:        prof.Email,
		IsProfessor:  prof.IsProfessor,
		IsActive:     prof.IsActive,
		PasswordHash: prof.PasswordHash,
		CreatedAt:    prof.CreatedAt.UTC(),
		UpdatedAt:    prof.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(prof.LastLogin.UTC(), !prof.LastLogin.IsZero()),
	}
}

func (r professorRow) professor() professor.Professor {
	return professor.Professor{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		IsProfessor:  r.IsProfessor,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		LastLogin:    r.LastLogin.Time.UTC(),
	}
}

const professorColumns = `id, name, email, is_professor, is_active, password_hash, created_at, updated_at, last_login`

func (repo *professorRepository) CreateProfessor(ctx context.Context, prof professor.Professor) (professor.Professor, error) {
	prof.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO professores (`+professorColumns+`)
		VALUES (:id, :name, :email, :is_professor, :is_active, :password_hash, :created_at, :updated_at, :last_login)`,
		newProfessorRow(prof),
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return professor.Professor{}, professor.ErrEmailExists
	}
	if err != nil {
		return professor.Professor{}, trapErr(err, professor.ErrNotFound, "inserting professor")
	}
	return prof, nil
}

func (repo *professorRepository) get(ctx context.Context, where string, arg interface{}) (professor.Professor, error) {
	var row professorRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+professorColumns+` FROM professores WHERE `+where, arg); err != nil {
		return professor.Professor{}, trapErr(err, professor.ErrNotFound, "getting professor")
	}
	return row.professor(), nil
}

func (repo *professorRepository) GetProfessorByID(ctx context.Context, id string) (professor.Professor, error) {
	return repo.get(ctx, "id = $1", id)
}

func (repo *professorRepository) GetProfessorByEmail(ctx context.Context, email string) (professor.Professor, error) {
	return repo.get(ctx, "email = $1", email)
}

func (repo *professorRepository) UpdateProfessor(ctx context.Context, prof professor.Professor) (professor.Professor, error) {
	res, err := repo.db.NamedExecContext(ctx, `
		UPDATE professores SET
			name = :name, is_professor = :is_professor, is_active = :is_active,
			password_hash = :password_hash, updated_at = :updated_at, last_login = :last_login
		WHERE id = :id`,
		newProfessorRow(prof),
	)
	if err != nil {
		return professor.Professor{}, trapErr(err, professor.ErrNotFound, "updating professor")
	}
	if err = trapAffected(res, professor.ErrNotFound, "updating professor"); err != nil {
		return professor.Professor{}, err
	}
	return prof, nil
}
