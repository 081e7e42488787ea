package professor

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("professor not found")
	ErrEmailExists        = errors.New("a professor with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		CreateProfessor(ctx context.Context, prof Professor) (Professor, error)
		GetProfessorByID(ctx context.Context, id string) (Professor, error)
		GetProfessorByEmail(ctx context.Context, email string) (Professor, error)
		UpdateProfessor(ctx context.Context, prof Professor) (Professor, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

var nowFunc = time.Now // mockable

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, np NewProfessor) (Professor, error) {
	if err := np.Validate(svc.validate); err != nil {
		return Professor{}, err
	}
	if _, err := svc.repo.GetProfessorByEmail(ctx, np.Email); err == nil {
		return Professor{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if !core.IsNotFound(err) {
		return Professor{}, errors.Wrap(err, "checking email uniqueness")
	}

	now := nowFunc().UTC()
	prof := Professor{
		Name:        np.Name,
		Email:       np.Email,
		IsProfessor: true,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := prof.SetPassword(np.Password); err != nil {
		return Professor{}, errors.Wrap(err, "hashing password")
	}
	prof, err := svc.repo.CreateProfessor(ctx, prof)
	if err != nil {
		return Professor{}, errors.Wrap(err, "creating professor")
	}
	return prof, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Professor, error) {
	if id == "" {
		return Professor{}, ErrNotFound
	}
	return svc.repo.GetProfessorByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Professor, error) {
	return svc.repo.GetProfessorByEmail(ctx, core.CleanString(email, true /* lower */))
}

// Authenticate checks credentials and records the login time.
func (svc *Service) Authenticate(ctx context.Context, creds LoginCredentials) (Professor, error) {
	if err := creds.Validate(svc.validate); err != nil {
		return Professor{}, err
	}
	prof, err := svc.repo.GetProfessorByEmail(ctx, creds.Email)
	if err != nil {
		if core.IsNotFound(err) {
			return Professor{}, ErrInvalidCredentials
		}
		return Professor{}, err
	}
	if !prof.IsActive || prof.CheckPassword(creds.Password) != nil {
		return Professor{}, ErrInvalidCredentials
	}
	return svc.SetLastLogin(ctx, prof)
}

func (svc *Service) SetLastLogin(ctx context.Context, prof Professor) (Professor, error) {
	prof.LastLogin = nowFunc().UTC()
	return svc.repo.UpdateProfessor(ctx, prof)
}

func (svc *Service) SetPassword(ctx context.Context, prof Professor, sp SetPassword) (Professor, error) {
	sp.Name, sp.Email = prof.Name, prof.Email
	if err := sp.Validate(svc.validate); err != nil {
		return Professor{}, err
	}
	if err := prof.SetPassword(sp.Password); err != nil {
		return Professor{}, errors.Wrap(err, "hashing password")
	}
	prof.UpdatedAt = nowFunc().UTC()
	return svc.repo.UpdateProfessor(ctx, prof)
}
