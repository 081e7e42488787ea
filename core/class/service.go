package class

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("class not found")
)

type (
	Repository interface {
		// CreateClass stores a new Class; the store assigns its ID.
		CreateClass(ctx context.Context, cls Class) (Class, error)
		QueryClasses(ctx context.Context) ([]Class, error)
		GetClass(ctx context.Context, id string) (Class, error)
		UpdateClass(ctx context.Context, cls Class) (Class, error)
		DeleteClass(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	if err := nc.Validate(svc.validate); err != nil {
		return Class{}, err
	}
	cls, err := svc.repo.CreateClass(ctx, Class{Name: nc.Name})
	if err != nil {
		return Class{}, errors.Wrap(err, "creating class")
	}
	return cls, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Class, error) {
	classes, err := svc.repo.QueryClasses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classes, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Class, error) {
	if id == "" {
		return Class{}, ErrNotFound
	}
	return svc.repo.GetClass(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id string, uc UpdateClass) (Class, error) {
	if err := uc.Validate(svc.validate); err != nil {
		return Class{}, err
	}
	if id == "" {
		return Class{}, ErrNotFound
	}
	cls, err := svc.repo.UpdateClass(ctx, Class{ID: id, Name: uc.Name})
	if err != nil {
		return Class{}, errors.Wrap(err, "updating class")
	}
	return cls, nil
}

// Delete removes the Class only: students still referencing it are left as they are.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrNotFound
	}
	return errors.Wrap(svc.repo.DeleteClass(ctx, id), "deleting class")
}
