// Package apperror defines the error kinds the service layer returns.
//
// There are two levels of sentinel. Category sentinels (ErrNotFound,
// ErrValidation, ...) decide how a failure is presented, e.g. which HTTP
// status a handler writes. Domain kinds (ErrDuplicateIdentity,
// ErrEmptyContent, ...) wrap a category, so both of these hold:
//
//	errors.Is(err, apperror.ErrDuplicateIdentity)
//	errors.Is(err, apperror.ErrConflict)
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("Validation Error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrDuplicateIdentity  = fmt.Errorf("duplicate identity: %w", ErrConflict)
	ErrUsernameTaken      = fmt.Errorf("username taken: %w", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrEmptyContent       = fmt.Errorf("empty content: %w", ErrValidation)
)

type AppError struct {
	Err     error  // actual error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// DuplicateIdentity is returned by registration when the email or the
// username already belongs to someone.
func DuplicateIdentity() *AppError {
	return &AppError{
		Err:     ErrDuplicateIdentity,
		Message: "user already exists",
	}
}

// UsernameTaken is returned by a profile edit that would collide with
// another user's username.
func UsernameTaken(username string) *AppError {
	return &AppError{
		Err:     ErrUsernameTaken,
		Message: fmt.Sprintf("username %s is already taken", username),
		Field:   "username",
	}
}

func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid credentials",
	}
}

// EmptyContent is returned when a post or comment is blank after trimming.
func EmptyContent(field string) *AppError {
	return &AppError{
		Err:     ErrEmptyContent,
		Message: fmt.Sprintf("%s must not be empty", field),
		Field:   field,
	}
}

// Unauthorized returns an AppError for a caller with no valid session.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
