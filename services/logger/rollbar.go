package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/mergington/activities/core"
	"github.com/mergington/activities/core/teacher"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// splitPerson separates the first identified Teacher from the other args.
// Teachers are never forwarded as extras since they carry a password hash.
func splitPerson(args []interface{}) (person teacher.Teacher, rest []interface{}) {
	rest = make([]interface{}, 0, len(args))
	for _, arg := range args {
		t, ok := arg.(teacher.Teacher)
		if !ok {
			rest = append(rest, arg)
			continue
		}
		if person.Username == "" {
			person = t
		}
	}
	return person, rest
}

// expected fmt: msg | error, map[string]interface{}, teacher.Teacher
func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	person, rest := splitPerson(args)
	if person.Username != "" {
		rollbar.SetPerson(person.Username, person.DisplayName, "")
	} else {
		rollbar.ClearPerson()
	}
	return append([]interface{}{msg}, rest...)
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	person, rest := splitPerson(args)
	if person.Username != "" {
		msg += " [teacher: " + person.Username + "]"
	}
	l.std.Println(msg)
	for _, arg := range rest {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print(msg, args)
	l.std.Fatal(msg)
}
