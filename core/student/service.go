package student

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/class"
)

var (
	// errors
	ErrNotFound      = core.NewNotFoundError("student not found")
	errClassNotFound = errors.New("selected class does not exist")
)

type (
	Repository interface {
		// CreateStudent stores a new Student; the store assigns its ID.
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// QueryStudents returns students in store order, restricted to filter.ClassID when set.
		QueryStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudent(ctx context.Context, id string) error
	}

	// ClassFinder is the part of class.Repository students depend on.
	ClassFinder interface {
		GetClass(ctx context.Context, id string) (class.Class, error)
		QueryClasses(ctx context.Context) ([]class.Class, error)
	}

	Service struct {
		repo     Repository
		classes  ClassFinder
		validate *validator.Validate
	}
)

func NewService(repo Repository, classes ClassFinder, validate *validator.Validate) *Service {
	return &Service{repo: repo, classes: classes, validate: validate}
}

// Create adds a Student to an existing Class.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if _, err := svc.classes.GetClass(ctx, ns.ClassID); err != nil {
		if core.IsNotFound(err) {
			return Student{}, core.NewValidationError(errClassNotFound, core.FieldError{Field: "class_id", Error: errClassNotFound.Error()})
		}
		return Student{}, errors.Wrap(err, "finding class by ID")
	}

	std, err := svc.repo.CreateStudent(ctx, Student{Name: ns.Name, ClassID: ns.ClassID})
	if err != nil {
		return Student{}, errors.Wrap(err, "creating student")
	}
	return std, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Student, error) {
	filter.Clean()
	students, err := svc.repo.QueryStudents(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

// QueryListings returns students with their class names; a dangling class reference yields an empty name.
func (svc *Service) QueryListings(ctx context.Context, filter QueryFilter) ([]Listing, error) {
	students, err := svc.Query(ctx, filter)
	if err != nil {
		return nil, err
	}
	classes, err := svc.classes.QueryClasses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}

	names := make(map[string]string, len(classes))
	for _, cls := range classes {
		names[cls.ID] = cls.Name
	}
	listings := make([]Listing, 0, len(students))
	for _, std := range students {
		listings = append(listings, Listing{Student: std, ClassName: names[std.ClassID]})
	}
	return listings, nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Student, error) {
	if id == "" {
		return Student{}, ErrNotFound
	}
	return svc.repo.GetStudent(ctx, id)
}

// Update replaces name and class of a Student. The class reference is not checked again.
func (svc *Service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	if err := us.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if id == "" {
		return Student{}, ErrNotFound
	}
	std, err := svc.repo.UpdateStudent(ctx, Student{ID: id, Name: us.Name, ClassID: us.ClassID})
	if err != nil {
		return Student{}, errors.Wrap(err, "updating student")
	}
	return std, nil
}

// Delete removes the Student only; its grade record is kept.
func (svc *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrNotFound
	}
	return errors.Wrap(svc.repo.DeleteStudent(ctx, id), "deleting student")
}
