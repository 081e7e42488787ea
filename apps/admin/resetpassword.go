package main

import (
	"context"

	"github.com/trezcool/notas/core/professor"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	prof, err := cli.profSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	_, err = cli.profSvc.SetPassword(ctx, prof, professor.SetPassword{Password: pwd, PasswordConfirm: pwd})
	return err
}
