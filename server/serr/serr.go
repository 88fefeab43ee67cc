// Package serr holds the errors returned by the refa server service layer.
// Its Error type can carry several causes at once, and errors.Is reports true
// for any of them.
package serr

import "errors"

var (
	ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")
	ErrPermissions    = errors.New("you don't have permission to do that")
	ErrNotFound       = errors.New("the requested entity could not be found")
	ErrAlreadyExists  = errors.New("resource with same identifying information already exists")
	ErrDB             = errors.New("an error occured with the DB")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
)

// Error is an error with a message and zero or more causes. Calling
// errors.Is on an Error with any of its causes returns true.
//
// If Error has at least one cause, Error() gives its message followed by the
// message of the first cause.
//
// Use New or WrapDB to create one.
type Error struct {
	msg   string
	cause []error
}

// Error returns the message of the Error joined with that of its first cause.
// If there is no message, only the first cause's message is returned.
func (e Error) Error() string {
	if e.msg == "" && len(e.cause) > 0 {
		return e.cause[0].Error()
	}

	if len(e.cause) > 0 {
		return e.msg + ": " + e.cause[0].Error()
	}

	return e.msg
}

// Unwrap returns the causes of Error, or nil if it has none.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is returns whether target is an Error with the same message and causes as
// e. Causes are checked by errors.Is through Unwrap.
func (e Error) Is(target error) bool {
	errTarget, ok := target.(Error)
	if !ok || e.msg != errTarget.msg || len(e.cause) != len(errTarget.cause) {
		return false
	}

	for i := range e.cause {
		if e.cause[i] != errTarget.cause[i] {
			return false
		}
	}
	return true
}

// WrapDB creates a new Error that has err and ErrDB as its causes. msg may be
// left as "".
func WrapDB(msg string, err error) Error {
	return Error{
		msg:   msg,
		cause: []error{err, ErrDB},
	}
}

// New creates a new Error with the given message and causes. Causes are
// optional, but errors.Is only matches the ones given here.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	for _, c := range causes {
		if c != nil {
			err.cause = append(err.cause, c)
		}
	}
	return err
}
