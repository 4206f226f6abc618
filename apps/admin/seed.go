package main

import (
	"fmt"
	"strings"

	"github.com/mergington/activities/core"
	"github.com/mergington/activities/storage/docrepos"
	"github.com/mergington/activities/storage/docstore"
)

func (cli *commandLine) loadSeed(path string) (core.Seed, error) {
	seed, err := core.LoadSeed(path)
	if err != nil {
		return core.Seed{}, err
	}
	if err := seed.Validate(cli.validate); err != nil {
		return core.Seed{}, cli.validationError(err)
	}
	return seed, nil
}

func (cli *commandLine) checkSeed(path string) error {
	seed, err := cli.loadSeed(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "seed OK: %d activities, %d teachers\n", len(seed.Activities), len(seed.Teachers))
	return nil
}

// days seeds a throwaway store and runs the days aggregation on it.
func (cli *commandLine) days(path string) error {
	seed, err := cli.loadSeed(path)
	if err != nil {
		return err
	}

	store := docstore.New(nopLogger{})
	acts := docrepos.NewActivityRepository(store)
	if err := docrepos.Seed(acts, docrepos.NewTeacherRepository(store), core.Seed{Activities: seed.Activities}, nopLogger{}); err != nil {
		return err
	}
	days, err := acts.Days()
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, strings.Join(days, "\n"))
	return nil
}

// nopLogger discards store logs.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}
