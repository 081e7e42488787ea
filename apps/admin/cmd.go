package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/notas/core/professor"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	profSvc *professor.Service
	engine  string
	db      *sql.DB // postgres only
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addprofessor -email EMAIL -name NAME - create a professor account")
	fmt.Println("  resetpassword -email EMAIL - reset a professor's password")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command against the postgres store")
}

// promptPassword reads a password from the terminal, without echo.
func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addProfessorCmd := flag.NewFlagSet("addprofessor", flag.ContinueOnError)
	addProfessorEmail := addProfessorCmd.String("email", "", "The professor's email. The password will be prompted next.")
	addProfessorName := addProfessorCmd.String("name", "", "The professor's full name.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The professor's email. The password will be prompted next.")

	switch args[1] {
	case "addprofessor":
		if err := addProfessorCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addProfessorEmail == "" || *addProfessorName == "" {
			addProfessorCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addProfessorCmd.Usage()
			return errHelp
		}
		return cli.addProfessor(*addProfessorName, *addProfessorEmail, pwd)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail, pwd)

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	default:
		cli.printUsage()
		return errHelp
	}
}
