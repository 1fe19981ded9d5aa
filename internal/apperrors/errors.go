package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates that a debit would leave an account balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrTransport indicates that the backing store or a remote collaborator could not be reached.
var ErrTransport = errors.New("transport error")

// ErrConflict indicates that a conditional write lost against a concurrent writer,
// or that a resource is not in the state the operation requires.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected failure inside the application.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Kind is the retry bucket an error falls into.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindNotFound          Kind = "not_found"
	KindTransport         Kind = "transport"
	KindConflict          Kind = "conflict"
	KindUnknown           Kind = "unknown"
)

// Classify maps err onto the taxonomy used by the sync engine and the handlers.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation), errors.Is(err, ErrDuplicate):
		return KindValidation
	case errors.Is(err, ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrTransport):
		return KindTransport
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindUnknown
	}
}

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
