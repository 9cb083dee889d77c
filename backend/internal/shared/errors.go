// ============================================================================
// backend/internal/shared/errors.go
// Service error taxonomy shared by all domain services
// ============================================================================

package shared

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a service failure so the gateway can pick the right
// HTTP status without inspecting message text.
type ErrorCode int

const (
	CodeInvalidArgument ErrorCode = iota + 1
	CodeUnauthenticated
	CodeNotFound
	CodeAlreadyExists
	CodeFailedPrecondition
	CodeUnavailable
	CodeInternal
)

// String returns the code name for logs.
func (c ErrorCode) String() string {
	switch c {
	case CodeInvalidArgument:
		return "InvalidArgument"
	case CodeUnauthenticated:
		return "Unauthenticated"
	case CodeNotFound:
		return "NotFound"
	case CodeAlreadyExists:
		return "AlreadyExists"
	case CodeFailedPrecondition:
		return "FailedPrecondition"
	case CodeUnavailable:
		return "Unavailable"
	default:
		return "Internal"
	}
}

// ServiceError is the error type every domain service returns across the
// service boundary.
type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a ServiceError with the given code and message.
func NewError(code ErrorCode, message string) error {
	return &ServiceError{Code: code, Message: message}
}

// NewErrorf creates a ServiceError with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...interface{}) error {
	return &ServiceError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Constructors for the common cases.

func ErrInvalidArgument(message string) error { return NewError(CodeInvalidArgument, message) }
func ErrUnauthenticated(message string) error { return NewError(CodeUnauthenticated, message) }
func ErrNotFound(message string) error        { return NewError(CodeNotFound, message) }
func ErrAlreadyExists(message string) error   { return NewError(CodeAlreadyExists, message) }
func ErrInternal(message string) error        { return NewError(CodeInternal, message) }

// CodeOf extracts the ErrorCode from an error chain. Unclassified errors
// (driver faults, context errors) report as Internal.
func CodeOf(err error) ErrorCode {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return CodeInternal
}

// MessageOf extracts the user-facing message from an error chain.
// Unclassified errors get a generic message so internals never leak.
func MessageOf(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "Server error"
}
