package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrTemplateNotFound ErrorCode = iota + 2000
	ErrDraftNotFound
	ErrTemplateRendering
	ErrBadRequest
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Unavailable marks failures caused by the backing store rather than by
	// missing data. Callers may retry these; plain not-found must not be retried.
	Unavailable bool  `json:"unavailable,omitempty"`
	Err         error `json:"-"`
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

// Error constructors
func NewTemplateNotFound(tenantID int64, slug string) *AppError {
	return &AppError{
		Code:    ErrTemplateNotFound,
		Message: fmt.Sprintf("template %q not found for tenant %d", slug, tenantID),
	}
}

func NewStoreUnavailable(err error) *AppError {
	return &AppError{
		Code:        ErrTemplateNotFound,
		Message:     "template store unavailable",
		Unavailable: true,
		Err:         err,
	}
}

func NewDraftNotFound(tenantID int64, slug string) *AppError {
	return &AppError{
		Code:    ErrDraftNotFound,
		Message: fmt.Sprintf("template %q has no draft for tenant %d", slug, tenantID),
	}
}

func NewRenderingError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrTemplateRendering,
		Message: message,
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal error",
		Err:     err,
	}
}

// Code reports the taxonomy code of err, or ErrInternal for foreign errors.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

func IsTemplateNotFound(err error) bool {
	return Code(err) == ErrTemplateNotFound
}

func IsDraftNotFound(err error) bool {
	return Code(err) == ErrDraftNotFound
}

func IsRenderingError(err error) bool {
	return Code(err) == ErrTemplateRendering
}

// IsRetryable reports whether the failure came from the backing store and may
// succeed on retry.
func IsRetryable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Unavailable
	}
	return false
}
