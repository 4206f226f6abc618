package main

import (
	"context"
	"expvar"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"go.uber.org/dig"

	dig_container "github.com/mergington/activities/apps/api/di/dig"
	echoapi "github.com/mergington/activities/apps/api/echo"
	"github.com/mergington/activities/core"
	"github.com/mergington/activities/core/activity"
	"github.com/mergington/activities/core/teacher"
	"github.com/mergington/activities/storage/docrepos"
)

func main() {
	graph := flag.Bool("graph", false, "print the dependency graph (DOT) and exit")
	flag.Parse()

	c := dig_container.New()
	if *graph {
		must(dig.Visualize(c, os.Stdout))
		return
	}

	must(c.Invoke(func(
		conf *core.Config,
		logger core.Logger,
		validate *validator.Validate,
		translator ut.Translator,
		activityRepo activity.Repository,
		teacherRepo teacher.Repository,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
		defer logger.Info("Application stopped")

		core.InitValidators(validate, translator)
		teacher.InitValidators(validate, translator)

		if err := core.ParseEmailTemplates(); err != nil {
			logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
		}

		seed, err := core.LoadSeed(conf.SeedFile)
		if err != nil {
			logger.Fatal(fmt.Sprintf("loading seed: %v", err), err)
		}
		if err := seed.Validate(validate); err != nil {
			logger.Fatal(fmt.Sprintf("invalid seed: %v", err), err)
		}
		if err := docrepos.Seed(activityRepo, teacherRepo, seed, logger); err != nil {
			logger.Fatal(fmt.Sprintf("seeding store: %v", err), err)
		}

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start API Service

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			logger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
