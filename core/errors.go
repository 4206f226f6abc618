package core

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when a request or the seed fails checks that the
// validator tags cannot express (taken usernames, duplicate seed entries).
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// Error returns the wrapped error message, or the sorted field errors when there is none.
func (err ValidationError) Error() string {
	if err.Err != nil {
		return err.Err.Error()
	}
	msgs := make([]string, 0, len(err.Fields))
	for _, fErr := range err.Fields {
		msgs = append(msgs, fErr.Field+": "+fErr.Error)
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

// FieldMap indexes field errors by field name. Later errors on a field are
// appended to the first one.
func (err ValidationError) FieldMap() map[string]string {
	m := make(map[string]string, len(err.Fields))
	for _, fErr := range err.Fields {
		if prev, ok := m[fErr.Field]; ok {
			m[fErr.Field] = prev + "; " + fErr.Error
			continue
		}
		m[fErr.Field] = fErr.Error
	}
	return m
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
