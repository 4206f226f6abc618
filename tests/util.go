package testutil

import (
	"fmt"
	"sync"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/mergington/activities/core"
	"github.com/mergington/activities/core/activity"
	"github.com/mergington/activities/core/teacher"
)

// LogEntry is a message recorded by Logger.
type LogEntry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger is a core.Logger recording every message instead of printing it.
type Logger struct {
	mu      sync.Mutex
	entries []LogEntry
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger { return new(Logger) }

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.log("fatal", msg, args)
	panic(fmt.Sprintf("fatal: %s", msg))
}

// Entries returns the recorded messages of the given level, or all of them when level is "".
func (l *Logger) Entries(level string) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := make([]LogEntry, 0, len(l.entries))
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			res = append(res, e)
		}
	}
	return res
}

// NewValidator returns a validator with every custom validator of the app registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	teacher.InitValidators(validate, translator)
	return validate, translator
}

// FastPasswordHashing makes argon2id hashing cheap for the duration of the test.
func FastPasswordHashing(t *testing.T) {
	orig := teacher.ArgonParams
	teacher.ArgonParams.Memory = 1024
	teacher.ArgonParams.Time = 1
	teacher.ArgonParams.Threads = 1
	t.Cleanup(func() { teacher.ArgonParams = orig })
}

func CreateTeacher(t *testing.T, repo teacher.Repository, uname, name, role, pwd string) teacher.Teacher {
	tch := teacher.Teacher{
		Username:    uname,
		DisplayName: name,
		Role:        role,
	}
	if pwd != "" {
		if err := tch.SetPassword(pwd); err != nil {
			t.Fatalf("CreateTeacher() failed: %v", err)
		}
	}
	tch, err := repo.CreateTeacher(tch)
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tch
}

func CreateActivity(t *testing.T, repo activity.Repository, name string, maxParticipants int, days []string, start, end string, participants ...string) activity.Activity {
	act := activity.Activity{
		Name:        name,
		Description: name + " description",
		Schedule:    fmt.Sprintf("%v, %s - %s", days, start, end),
		ScheduleDetails: activity.ScheduleDetails{
			Days:      days,
			StartTime: start,
			EndTime:   end,
		},
		MaxParticipants: maxParticipants,
		Participants:    append([]string{}, participants...),
	}
	act, err := repo.CreateActivity(act)
	if err != nil {
		t.Fatalf("CreateActivity() failed: %v", err)
	}
	return act
}
