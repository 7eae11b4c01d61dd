package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindInactiveResource
	KindForbidden
	KindConflict
	KindNoticeWindow
	KindInternal
)

// AppError represents an application error
type AppError struct {
	Kind    Kind   `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
	// HoursLeft is set on notice-window errors so the caller can tell the
	// client how much time remains before the appointment starts.
	HoursLeft *float64 `json:"hours_left,omitempty"`
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

func Validation(message string, err error) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Err: err}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func Inactive(resource string) *AppError {
	return &AppError{Kind: KindInactiveResource, Message: fmt.Sprintf("%s is not active", resource)}
}

func Forbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

func Conflict(message string, err error) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Err: err}
}

func NoticeWindow(message string, hoursLeft float64) *AppError {
	return &AppError{Kind: KindNoticeWindow, Message: message, HoursLeft: &hoursLeft}
}

func Internal(err error) *AppError {
	return &AppError{Kind: KindInternal, Message: "internal server error", Err: err}
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// From extracts an AppError from err, wrapping unknown errors as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
