// Package usererr has errors that carry a message meant for the person using
// refa, separate from the technical message returned by Error().
package usererr

import (
	"errors"
	"fmt"
)

// userError is an error caused by something the user asked for. It includes
// a human-readable message to show to the user as well as a typical more
// technical "error message" style message.
type userError struct {
	msg   string
	human string
	wrap  error
}

func (e *userError) Error() string {
	return e.msg
}

// Unwrap gives the error that the userError wraps, if it wraps one.
func (e *userError) Unwrap() error {
	return e.wrap
}

// New returns an error that has both the message to show the user and the
// technical description of the error. If technical is empty, one is made
// from human.
func New(human, technical string) error {
	return Wrap(nil, human, technical)
}

// Newf returns an error with a formatted user message and an automatically
// generated technical description.
func Newf(humanFormat string, a ...interface{}) error {
	return New(fmt.Sprintf(humanFormat, a...), "")
}

// Wrap returns an error that has both the message to show the user and the
// technical description of the error, and that wraps e. If technical is empty
// it is taken from e, or made from human if e is nil.
func Wrap(e error, human, technical string) error {
	if technical == "" {
		if e != nil {
			technical = e.Error()
		} else {
			technical = fmt.Sprintf("user error: %s", human)
		}
	}
	return &userError{
		msg:   technical,
		human: human,
		wrap:  e,
	}
}

// Wrapf is like Wrap with a formatted user message and a technical message
// taken from e.
func Wrapf(e error, humanFormat string, a ...interface{}) error {
	return Wrap(e, fmt.Sprintf(humanFormat, a...), "")
}

// Message gets the message to display to the user for the given error. If
// any error in its chain was made by this package, that error's user message
// is returned. Otherwise, err.Error() is returned.
func Message(err error) string {
	var uErr *userError
	if errors.As(err, &uErr) {
		return uErr.human
	}
	return err.Error()
}
