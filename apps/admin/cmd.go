package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/mergington/activities/core"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  hashpassword -username USERNAME -name DISPLAY_NAME [-role teacher|admin] - hash a teacher's password for the seed file")
	fmt.Fprintln(cli.out, "  checkseed [-file PATH] - validate a seed file (the bundled seed by default)")
	fmt.Fprintln(cli.out, "  days [-file PATH] - list the distinct meeting days of the seeded activities")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	hashPasswordCmd := flag.NewFlagSet("hashpassword", flag.ExitOnError)
	hashPasswordUname := hashPasswordCmd.String("username", "", "The teacher's username. The password will be prompted next.")
	hashPasswordName := hashPasswordCmd.String("name", "", "The teacher's display name.")
	hashPasswordRole := hashPasswordCmd.String("role", "teacher", "The teacher's role: teacher or admin.")

	checkSeedCmd := flag.NewFlagSet("checkseed", flag.ExitOnError)
	checkSeedFile := checkSeedCmd.String("file", "", "Path of the seed file (YAML).")

	daysCmd := flag.NewFlagSet("days", flag.ExitOnError)
	daysFile := daysCmd.String("file", "", "Path of the seed file (YAML).")

	switch args[1] {
	case "hashpassword":
		if err := hashPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *hashPasswordUname == "" || *hashPasswordName == "" {
			hashPasswordCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			hashPasswordCmd.Usage()
			return errHelp
		}
		return cli.hashPassword(*hashPasswordUname, *hashPasswordName, *hashPasswordRole, string(pwd))
	case "checkseed":
		if err := checkSeedCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.checkSeed(*checkSeedFile)
	case "days":
		if err := daysCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.days(*daysFile)
	default:
		cli.printUsage()
		return errHelp
	}
}

// validationError flattens validation errors into a single readable error.
func (cli *commandLine) validationError(err error) error {
	var msgs []string
	switch vErr := err.(type) {
	case validator.ValidationErrors:
		for _, fErr := range vErr {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fErr.Namespace(), fErr.Translate(cli.translator)))
		}
	case *core.ValidationError:
		for _, fErr := range vErr.Fields {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fErr.Field, fErr.Error))
		}
	default:
		return err
	}
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, "; "))
}
