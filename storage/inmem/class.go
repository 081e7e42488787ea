package inmemdb

import (
	"context"

	"github.com/trezcool/notas/core/class"
)

type classRepository struct {
	db *DB
}

func NewClassRepository(db *DB) class.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(_ context.Context, cls class.Class) (class.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if err := repo.db.check("creating class"); err != nil {
		return class.Class{}, err
	}

	cls.ID = repo.db.NewID()
	repo.db.class.put(cls.ID, cls)
	return cls, nil
}

func (repo *classRepository) QueryClasses(context.Context) ([]class.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if err := repo.db.check("querying classes"); err != nil {
		return nil, err
	}
	return repo.db.class.all(), nil
}

func (repo *classRepository) GetClass(_ context.Context, id string) (class.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	if err := repo.db.check("getting class"); err != nil {
		return class.Class{}, err
	}

	if cls, ok := repo.db.class.get(id); ok {
		return cls, nil
	}
	return class.Class{}, class.ErrNotFound
}

func (repo *classRepository) UpdateClass(_ context.Context, cls class.Class) (class.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if err := repo.db.check("updating class"); err != nil {
		return class.Class{}, err
	}

	if _, ok := repo.db.class.get(cls.ID); !ok {
		return class.Class{}, class.ErrNotFound
	}
	repo.db.class.put(cls.ID, cls)
	return cls, nil
}

func (repo *classRepository) DeleteClass(_ context.Context, id string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()
	if err := repo.db.check("deleting class"); err != nil {
		return err
	}

	if !repo.db.class.delete(id) {
		return class.ErrNotFound
	}
	return nil
}
