package services

import (
	"errors"
	"fmt"

	"perfect-match-backend/internal/repository"
)

// Error kinds. Match them with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrConflict    = errors.New("conflict")
	ErrPersistence = errors.New("persistence failure")
)

// Error carries a kind, a message safe to show to clients and the cause
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func conflictError(msg string, cause error) error {
	return &Error{Kind: ErrConflict, Message: msg, Err: cause}
}

func persistenceError(op string, cause error) error {
	return &Error{Kind: ErrPersistence, Message: "failed to " + op, Err: cause}
}

// fromStore maps a repository error onto a service error kind
func fromStore(op string, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &Error{Kind: ErrNotFound, Message: notFoundMsg, Err: err}
	case errors.Is(err, repository.ErrConflict):
		return &Error{Kind: ErrConflict, Message: "failed to " + op, Err: err}
	default:
		return persistenceError(op, err)
	}
}
