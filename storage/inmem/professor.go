package inmemdb

import (
	"context"

	"github.com/trezcool/notas/core/professor"
)

type professorRepository struct {
	db *DB
}

func NewProfessorRepository(db *DB) professor.Repository {
	return &professorRepository{db: db}
}

func (repo *professorRepository) CreateProfessor(_ context.Context, prof professor.Professor) (professor.Professor, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if err := repo.db.check("creating professor"); err != nil {
		return professor.Professor{}, err
	}

	for _, p := range repo.db.professor.all() {
		if p.Email == prof.Email {
			return professor.Professor{}, professor.ErrEmailExists
		}
	}
	prof.ID = repo.db.NewID()
	repo.db.professor.put(prof.ID, prof)
	return prof, nil
}

func (repo *professorRepository) GetProfessorByID(_ context.Context, id string) (professor.Professor, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if err := repo.db.check("getting professor"); err != nil {
		return professor.Professor{}, err
	}

	if prof, ok := repo.db.professor.get(id); ok {
		return prof, nil
	}
	return professor.Professor{}, professor.ErrNotFound
}

func (repo *professorRepository) GetProfessorByEmail(_ context.Context, email string) (professor.Professor, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if err := repo.db.check("getting professor"); err != nil {
		return professor.Professor{}, err
	}

	for _, prof := range repo.db.professor.all() {
		if prof.Email == email {
			return prof, nil
		}
	}
	return professor.Professor{}, professor.ErrNotFound
}

func (repo *professorRepository) UpdateProfessor(_ context.Context, prof professor.Professor) (professor.Professor, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if err := repo.db.check("updating professor"); err != nil {
		return professor.Professor{}, err
	}

	if _, ok := repo.db.professor.get(prof.ID); !ok {
		return professor.Professor{}, professor.ErrNotFound
	}
	repo.db.professor.put(prof.ID, prof)
	return prof, nil
}
