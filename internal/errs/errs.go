// Package errs attaches failure kinds to errors.
//
// A kind is a sentinel error. [Mark] keeps the cause's message as the error
// text and makes the kind visible to both the standard library errors.Is and
// github.com/cockroachdb/errors.Is.
package errs

import (
	cr "github.com/cockroachdb/errors"
)

type kindError struct {
	cause error
	kind  error
}

func (e *kindError) Error() string { return e.cause.Error() }

// Unwrap exposes the cause, so errors.As still reaches typed causes.
func (e *kindError) Unwrap() error { return e.cause }

func (e *kindError) Is(target error) bool { return target == e.kind }

// Mark attaches kind to err. A nil err yields kind itself.
func Mark(err error, kind error) error {
	if err == nil {
		return kind
	}
	return &kindError{cause: err, kind: kind}
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

func Newf(format string, args ...any) error {
	return cr.Newf(format, args...)
}
