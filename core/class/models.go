package class

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/notas/core"
)

// Class is a named grouping of students ("turma").
type Class struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name string `json:"name" validate:"required"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

// UpdateClass defines what information may be provided to modify an existing Class.
type UpdateClass struct {
	Name string `json:"name" validate:"required"`
}

func (uc *UpdateClass) Validate(validate *validator.Validate) error {
	uc.Name = core.CleanString(uc.Name)
	return validate.Struct(uc)
}
