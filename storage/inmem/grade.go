package inmemdb

import (
	"context"

	"github.com/trezcool/notas/core/grade"
)

type gradeRepository struct {
	db *DB
}

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) QueryGradesByIDs(_ context.Context, ids []string) ([]grade.Grade, error) {
	if len(ids) == 0 {
		return []grade.Grade{}, nil
	}

	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if err := repo.db.check("querying grades"); err != nil {
		return nil, err
	}

	grades := make([]grade.Grade, 0, len(ids))
	for _, id := range ids {
		if g, ok := repo.db.grade.get(id); ok {
			grades = append(grades, g)
		}
	}
	return grades, nil
}

func (repo *gradeRepository) QueryGrades(context.Context) ([]grade.Grade, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if err := repo.db.check("querying grades"); err != nil {
		return nil, err
	}
	return repo.db.grade.all(), nil
}

// UpsertGrades holds the write lock for the whole batch: either every record is stored or none.
func (repo *gradeRepository) UpsertGrades(_ context.Context, grades []grade.Grade) ([]grade.Grade, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if err := repo.db.check("upserting grades"); err != nil {
		return nil, err
	}

	now := repo.db.NowFunc().UTC()
	saved := make([]grade.Grade, 0, len(grades))
	for _, g := range grades {
		g.LastUpdated = now
		saved = append(saved, g)
	}
	for _, g := range saved {
		repo.db.grade.put(g.ID, g)
	}
	return saved, nil
}
