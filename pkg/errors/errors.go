// Package errors wraps github.com/go-errors/errors so SDK failures carry a
// stack trace while staying compatible with the standard errors.Is/As.
package errors

import (
	stderrors "errors"

	goerrors "github.com/go-errors/errors"
)

// New returns an error with the given message and the caller's stack.
func New(msg string) error {
	return goerrors.Wrap(stderrors.New(msg), 1)
}

// Errorf formats an error, supports %w, and records the caller's stack.
func Errorf(format string, args ...interface{}) error {
	return goerrors.Wrap(goerrors.Errorf(format, args...).Err, 1)
}

// Wrap attaches a stack trace to err. Nil stays nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, 1)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling Unwrap on err.
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Stack returns the recorded stack of err, or an empty string when err was
// not created by this package.
func Stack(err error) string {
	var ge *goerrors.Error
	if stderrors.As(err, &ge) {
		return string(ge.Stack())
	}
	return ""
}
