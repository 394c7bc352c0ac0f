package util

import (
	"errors"
	"net/http"
)

// ErrorKind classifies service failures for HTTP mapping.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindConflict
	KindValidation
	KindUnauthorized
	KindForbidden
	KindInternal
)

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func NotFoundError(msg string) *AppError   { return &AppError{Kind: KindNotFound, Message: msg} }
func ConflictError(msg string) *AppError   { return &AppError{Kind: KindConflict, Message: msg} }
func ValidationError(msg string) *AppError { return &AppError{Kind: KindValidation, Message: msg} }
func ForbiddenError(msg string) *AppError  { return &AppError{Kind: KindForbidden, Message: msg} }

func InternalError(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

var (
	ErrInvalidCredentials = &AppError{Kind: KindUnauthorized, Message: "invalid email or password"}
	ErrAccountInactive    = &AppError{Kind: KindUnauthorized, Message: "account is inactive"}
	ErrEmailRegistered    = &AppError{Kind: KindConflict, Message: "email already registered"}
	ErrAttemptNotFound    = &AppError{Kind: KindNotFound, Message: "attempt not found"}
	ErrInstanceNotFound   = &AppError{Kind: KindNotFound, Message: "exam instance not found"}
	ErrTemplateNotFound   = &AppError{Kind: KindNotFound, Message: "exam template not found"}
	ErrDuplicateAttempt   = &AppError{Kind: KindConflict, Message: "an attempt for this exam already exists"}
	ErrWindowClosed       = &AppError{Kind: KindValidation, Message: "exam window is not open"}
	ErrRoleNotEligible    = &AppError{Kind: KindForbidden, Message: "role not eligible for this exam"}
	ErrNotAttemptOwner    = &AppError{Kind: KindForbidden, Message: "attempt does not belong to caller"}
	ErrAttemptFinished    = &AppError{Kind: KindValidation, Message: "attempt is no longer in progress"}
)
