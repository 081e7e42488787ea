package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/professor"
	"github.com/trezcool/notas/storage"
	"github.com/trezcool/notas/storage/database"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()
	ctx := context.Background()

	// set up store
	stores, err := storage.Open(ctx, conf)
	errAndDie(err)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	professor.RegisterValidators(validate, translator)

	cli := commandLine{
		profSvc: professor.NewService(stores.Professors, validate),
		engine:  stores.Engine,
	}
	if stores.Engine == core.EnginePostgres {
		db, err := database.Open(ctx, conf)
		errAndDie(err)
		cli.db = db.DB
	}

	code := 0
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		code = 1
	}
	if cli.db != nil {
		_ = cli.db.Close()
	}
	_ = stores.Close()
	os.Exit(code)
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
