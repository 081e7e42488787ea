package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/notas/core"
)

// Student is a person ("aluno") enrolled in exactly one class.
type Student struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ClassID string `json:"class_id"`
}

// Listing is a Student with its class name resolved, for display.
type Listing struct {
	Student
	ClassName string `json:"class_name,omitempty"`
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	Name    string `json:"name" validate:"required"`
	ClassID string `json:"class_id" validate:"required,opaque_id"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.ClassID = core.CleanString(ns.ClassID)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name    string `json:"name" validate:"required"`
	ClassID string `json:"class_id" validate:"required,opaque_id"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	us.Name = core.CleanString(us.Name)
	us.ClassID = core.CleanString(us.ClassID)
	return validate.Struct(us)
}

type QueryFilter struct {
	ClassID string `query:"class_id"`
}

func (qf *QueryFilter) Clean() {
	qf.ClassID = core.CleanString(qf.ClassID)
}
