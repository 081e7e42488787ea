package main

import (
	"fmt"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/storage/database"
)

var gooseRunFunc = database.Migrate // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.engine != core.EnginePostgres || cli.db == nil {
		return fmt.Errorf("migrations only apply to the %s store (using %s)", core.EnginePostgres, cli.engine)
	}
	return gooseRunFunc(cli.db, args[0], args[1:]...)
}
