package inmemdb

import (
	"context"

	"github.com/trezcool/notas/core/student"
)

type studentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if err := repo.db.check("creating student"); err != nil {
		return student.Student{}, err
	}

	std.ID = repo.db.NewID()
	repo.db.student.put(std.ID, std)
	return std, nil
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if err := repo.db.check("querying students"); err != nil {
		return nil, err
	}

	all := repo.db.student.all()
	if filter.ClassID == "" {
		return all, nil
	}
	students := make([]student.Student, 0, len(all))
	for _, std := range all {
		if std.ClassID == filter.ClassID {
			students = append(students, std)
		}
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if err := repo.db.check("getting student"); err != nil {
		return student.Student{}, err
	}

	if std, ok := repo.db.student.get(id); ok {
		return std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) UpdateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if err := repo.db.check("updating student"); err != nil {
		return student.Student{}, err
	}

	if _, ok := repo.db.student.get(std.ID); !ok {
		return student.Student{}, student.ErrNotFound
	}
	repo.db.student.put(std.ID, std)
	return std, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if err := repo.db.check("deleting student"); err != nil {
		return err
	}

	if !repo.db.student.delete(id) {
		return student.ErrNotFound
	}
	return nil
}
