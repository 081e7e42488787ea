package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/notas/core"
	"github.com/trezcool/notas/core/professor"
	"github.com/trezcool/notas/storage/inmem"
	"github.com/trezcool/notas/tests"
)

var profRepo professor.Repository

func setup(t *testing.T) *commandLine {
	logger = log.New(io.Discard, "", 0)

	// set up store & repos
	profRepo = inmemdb.NewProfessorRepository(inmemdb.Open())

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	professor.RegisterValidators(validate, translator)

	// start CLI
	return &commandLine{
		profSvc: professor.NewService(profRepo, validate),
		engine:  core.EnginePostgres,
		db:      new(sql.DB),
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

type extra struct {
	pwd string
}

func mockPassword(tt cliTest) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		if extra, ok := tt.extra.(extra); ok {
			return []byte(extra.pwd), nil
		}
		return nil, nil
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_terms", "sql"}},
	}
	for _, tt := range tests {
		tt := tt
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				assert.NoError(t, err)
			}
		})
	}

	t.Run("not postgres", func(t *testing.T) {
		redisCli := *cli
		redisCli.engine, redisCli.db = core.EngineRedis, nil
		err := redisCli.run([]string{"admin", "migrate", "up"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "migrations only apply to the postgres store")
	})
}

func Test_commandLine_addProfessor(t *testing.T) {
	cli := setup(t)
	_ = testutil.CreateProfessor(t, profRepo, "Taken", "taken@test.br", testutil.Password, true, true)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addprofessor"}, wantErr: errHelp},
		{name: "no name", args: []string{"addprofessor", "-email", "new@test.br"}, extra: extra{pwd: testutil.Password}, wantErr: errHelp},
		{name: "no password", args: []string{"addprofessor", "-email", "new@test.br", "-name", "New"}, wantErr: errHelp},
		{name: "weak password", args: []string{"addprofessor", "-email", "new@test.br", "-name", "New"}, extra: extra{pwd: "12345678"}, wantErrStr: "validation"},
		{name: "email taken", args: []string{"addprofessor", "-email", "TAKEN@test.br", "-name", "Other"}, extra: extra{pwd: testutil.Password}, wantErrStr: professor.ErrEmailExists.Error()},
		{name: "created", args: []string{"addprofessor", "-email", "New@Test.br", "-name", " Nova Prof "}, extra: extra{pwd: testutil.Password}},
	}
	for _, tt := range tests {
		tt := tt
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr == "validation":
				assert.True(t, core.IsValidation(err), "%v", err)
			case tt.wantErrStr != "":
				require.Error(t, err)
				assert.Equal(t, tt.wantErrStr, err.Error())
			default:
				require.NoError(t, err)
			}
		})
	}

	prof, err := cli.profSvc.GetByEmail(context.Background(), "new@test.br")
	require.NoError(t, err)
	assert.Equal(t, "Nova Prof", prof.Name)
	assert.True(t, prof.IsProfessor)
	assert.True(t, prof.IsActive)
	assert.NoError(t, prof.CheckPassword(testutil.Password))
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	prof := testutil.CreateProfessor(t, profRepo, "Prof", "prof@test.br", testutil.Password, true, true)
	newPwd := "Zr7$wq!Lm3pT"

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.br"}, wantErr: errHelp},
		{name: "professor not found", args: []string{"resetpassword", "-email", "lol@test.br"}, extra: extra{pwd: newPwd}, wantErr: professor.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", prof.Email}, extra: extra{pwd: newPwd}},
	}
	for _, tt := range tests {
		tt := tt
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
		})
	}

	refreshed, err := profRepo.GetProfessorByID(context.Background(), prof.ID)
	require.NoError(t, err)
	assert.NotEqual(t, prof.PasswordHash, refreshed.PasswordHash)
	assert.NoError(t, refreshed.CheckPassword(newPwd))
}
