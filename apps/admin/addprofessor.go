package main

import (
	"context"

	"github.com/trezcool/notas/core/professor"
)

func (cli *commandLine) addProfessor(name, email, pwd string) error {
	prof, err := cli.profSvc.Create(context.Background(), professor.NewProfessor{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	if err != nil {
		return err
	}
	logger.Printf("professor %s created (id: %s)", prof.Email, prof.ID)
	return nil
}
