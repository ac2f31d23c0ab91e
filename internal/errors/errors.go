// Package errors defines the typed errors surfaced by page controllers.
package errors

import (
	stderrors "errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type ErrorType string

const (
	ErrTypeValidation   ErrorType = "VALIDATION"
	ErrTypeNotFound     ErrorType = "NOT_FOUND"
	ErrTypePersistence  ErrorType = "PERSISTENCE"
	ErrTypeActionFailed ErrorType = "ACTION_FAILED"
	ErrTypeInternal     ErrorType = "INTERNAL"
)

type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
	Stack   []byte
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func (e *DomainError) StackTrace() []byte {
	return e.Stack
}

func New(errType ErrorType, message string, err error) *DomainError {
	var stack []byte
	if err != nil {
		if stackErr, ok := err.(*goerrors.Error); ok {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

// Validation reports a form that cannot be saved as entered.
func Validation(message string) *DomainError {
	return New(ErrTypeValidation, message, nil)
}

func NotFound(message string, err error) *DomainError {
	return New(ErrTypeNotFound, message, err)
}

func Persistence(message string, err error) *DomainError {
	return New(ErrTypePersistence, message, err)
}

// ActionFailed reports a guarded mutation that left state unchanged.
func ActionFailed(message string, err error) *DomainError {
	return New(ErrTypeActionFailed, message, err)
}

func Internal(message string, err error) *DomainError {
	return New(ErrTypeInternal, message, err)
}

// TypeOf returns the type of the first DomainError in err's chain, or
// ErrTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Type
	}
	return ErrTypeInternal
}

// Is reports whether err carries a DomainError of the given type.
func Is(err error, t ErrorType) bool {
	var de *DomainError
	return stderrors.As(err, &de) && de.Type == t
}

// MessageOf returns the message of the first DomainError in err's chain, or
// err's text when there is none.
func MessageOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
