package service

import (
	"errors"
	"fmt"

	"helpdesk/internal/repository"
)

// Error kinds. Handlers map them to HTTP statuses with errors.Is; the message
// of a kinded error is safe to show to the caller.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
)

// ErrInvalidCredentials is the only login failure. It never says which part
// of the credentials was wrong.
var ErrInvalidCredentials error = &kindError{kind: ErrUnauthenticated, msg: "invalid credentials"}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func invalid(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...any) error {
	return &kindError{kind: ErrForbidden, msg: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &kindError{kind: ErrNotFound, msg: what + " not found"}
}

// storeErr turns repository sentinels into caller-facing errors; anything
// else passes through as an internal failure.
func storeErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrDuplicate):
		return invalid("%s already exists", what)
	case errors.Is(err, repository.ErrReferenced):
		return invalid("%s references a missing record or is still in use", what)
	case errors.Is(err, repository.ErrNotFound):
		return notFound(what)
	}
	return err
}
