package rakuten

import (
	"errors"
	"fmt"
)

// Sentinel errors for Rakuten Books API operations.
var (
	ErrNotFound     = errors.New("rakuten: no listing for isbn")
	ErrRateLimited  = errors.New("rakuten: rate limited by server")
	ErrUnauthorized = errors.New("rakuten: application id rejected")
	ErrBadRequest   = errors.New("rakuten: bad request")
	ErrServer       = errors.New("rakuten: server error")
	ErrTimeout      = errors.New("rakuten: request timed out")
	ErrInvalidISBN  = errors.New("rakuten: invalid isbn format")
	ErrMalformed    = errors.New("rakuten: malformed response")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op   string // Operation: "lookup"
	ISBN string
	Err  error
}

func (e *Error) Error() string {
	if e.ISBN != "" {
		return fmt.Sprintf("rakuten %s [%s]: %v", e.Op, e.ISBN, e.Err)
	}
	return fmt.Sprintf("rakuten %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, isbn string, err error) error {
	return &Error{Op: op, ISBN: isbn, Err: err}
}
