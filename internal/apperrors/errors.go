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

// ErrStoreUnavailable indicates the backing store could not be reached, timed out,
// or failed to commit. It is the only error callers may retry.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrInvalidCredentials indicates a username/secret pair did not verify.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnauthorized indicates the request carried no usable identity.
var ErrUnauthorized = errors.New("unauthorized")

var (
	// ErrInvalidAmount is returned for amounts that are zero, negative or finer than cents.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInsufficientFunds is returned when a debit would take a balance below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnknownAccount is returned when a username does not resolve to an account.
	ErrUnknownAccount = errors.New("unknown account")

	ErrDuplicateUsername = fmt.Errorf("username already exists: %w", ErrDuplicate)
	ErrSelfTransfer      = fmt.Errorf("cannot transfer to the same account: %w", ErrValidation)
	ErrImmutableField    = fmt.Errorf("field cannot be changed: %w", ErrValidation)

	// ErrConcurrentUpdate is returned by a compare-and-swap balance write when
	// the stored balance no longer matches the expected one.
	ErrConcurrentUpdate = fmt.Errorf("balance changed concurrently: %w", ErrStoreUnavailable)
)

// AppError carries an HTTP-ish status code and a human message alongside the
// underlying cause.
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

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
