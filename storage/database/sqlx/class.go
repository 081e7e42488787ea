package sqlxrepos

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/notas/core/class"
)

type classRepository struct {
	db *sqlx.DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *sqlx.DB) *classRepository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	cls.ID = uuid.NewString()
	_, err := repo.db.NamedExecContext(ctx, `INSERT INTO turmas (id, name) VALUES (:id, :name)`, cls)
	if err != nil {
		return class.Class{}, trapErr(err, class.ErrNotFound, "inserting class")
	}
	return cls, nil
}

func (repo *classRepository) QueryClasses(ctx context.Context) ([]class.Class, error) {
	classes := make([]class.Class, 0)
	err := repo.db.SelectContext(ctx, &classes, `SELECT id, name FROM turmas ORDER BY created_at, id`)
	if err != nil {
		return nil, trapErr(err, class.ErrNotFound, "querying classes")
	}
	return classes, nil
}

func (repo *classRepository) GetClass(ctx context.Context, id string) (class.Class, error) {
	var cls class.Class
	err := repo.db.GetContext(ctx, &cls, `SELECT id, name FROM turmas WHERE id = $1`, id)
	if err != nil {
		return class.Class{}, trapErr(err, class.ErrNotFound, "getting class")
	}
	return cls, nil
}

func (repo *classRepository) UpdateClass(ctx context.Context, cls class.Class) (class.Class, error) {
	res, err := repo.db.NamedExecContext(ctx, `UPDATE turmas SET name = :name WHERE id = :id`, cls)
	if err != nil {
		return class.Class{}, trapErr(err, class.ErrNotFound, "updating class")
	}
	if err = trapAffected(res, class.ErrNotFound, "updating class"); err != nil {
		return class.Class{}, err
	}
	return cls, nil
}

func (repo *classRepository) DeleteClass(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM turmas WHERE id = $1`, id)
	if err != nil {
		return trapErr(err, class.ErrNotFound, "deleting class")
	}
	return trapAffected(res, class.ErrNotFound, "deleting class")
}
