// Package errors defines the typed business errors shared by every module.
// Services declare their sentinels with the constructors below; the HTTP
// layer maps each Kind to a status code in one place.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a business error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindPermission
	KindNotFound
	KindStateConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	case KindStateConflict:
		return "state_conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// AppError is a business rule violation with a stable numeric code and a
// user facing message. Fields carries field level validation messages.
type AppError struct {
	Kind    Kind
	Code    int
	Message string
	Fields  map[string]string
}

func (e *AppError) Error() string { return e.Message }

// Is matches on Code so that a sentinel and a copy enriched with fields
// compare equal under errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithField returns a copy of e carrying one more field message.
func (e *AppError) WithField(field, msg string) *AppError {
	fields := make(map[string]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields[field] = msg
	return &AppError{Kind: e.Kind, Code: e.Code, Message: e.Message, Fields: fields}
}

// WithMessage returns a copy of e with a more specific message.
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	return &AppError{Kind: e.Kind, Code: e.Code, Message: fmt.Sprintf(format, args...), Fields: e.Fields}
}

func Validation(code int, msg string) *AppError {
	return &AppError{Kind: KindValidation, Code: code, Message: msg}
}

func Permission(code int, msg string) *AppError {
	return &AppError{Kind: KindPermission, Code: code, Message: msg}
}

func NotFound(code int, msg string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: msg}
}

func StateConflict(code int, msg string) *AppError {
	return &AppError{Kind: KindStateConflict, Code: code, Message: msg}
}

func Unauthorized(code int, msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: code, Message: msg}
}

// As extracts an *AppError from err.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
