package analysis

import (
	"context"
	"errors"
	"fmt"
)

// ErrorKind represents the category of an analysis failure
type ErrorKind int

const (
	// ErrKindTransport indicates the remote call itself failed (network, API status, timeout)
	ErrKindTransport ErrorKind = iota
	// ErrKindMalformed indicates the call succeeded but the body could not be interpreted
	ErrKindMalformed
	// ErrKindUnexpected indicates any other failure on the analysis path
	ErrKindUnexpected
)

// User-facing messages shown in the error screen
const (
	// MalformedMessage is shown when the service answers with something unusable
	MalformedMessage = "AI가 너무 놀라운 사진을 보고 당황했습니다. 다시 시도해볼까요?"

	// GenericMessage is shown when a failure carries no message of its own
	GenericMessage = "분석 중 예기치 못한 상황이 발생했습니다."

	// TimeoutMessage is shown when the request deadline expires
	TimeoutMessage = "분석 시간이 너무 오래 걸렸어요. 잠시 후 다시 시도해주세요."
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrKindTransport:
		return "Transport Error"
	case ErrKindMalformed:
		return "Malformed Response"
	case ErrKindUnexpected:
		return "Unexpected Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// ServiceError is returned by Analyzer implementations
type ServiceError struct {
	Kind    ErrorKind // Category of error
	Message string    // Internal description for logs
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text to show the user for this error
func (e *ServiceError) UserMessage() string {
	switch e.Kind {
	case ErrKindMalformed:
		return MalformedMessage
	case ErrKindTransport:
		if errors.Is(e.Err, context.DeadlineExceeded) {
			return TimeoutMessage
		}
		if e.Err != nil && e.Err.Error() != "" {
			return e.Err.Error()
		}
		return e.Message
	default:
		return GenericMessage
	}
}

// NewTransportError wraps a failed remote call. Context errors keep their
// identity so callers can still use errors.Is(err, context.DeadlineExceeded).
func NewTransportError(message string, err error) *ServiceError {
	return &ServiceError{
		Kind:    ErrKindTransport,
		Message: message,
		Err:     err,
	}
}

// NewMalformedError creates an error for an uninterpretable response
func NewMalformedError(message string, err error) *ServiceError {
	return &ServiceError{
		Kind:    ErrKindMalformed,
		Message: message,
		Err:     err,
	}
}

// NewUnexpectedError creates an error for anything outside the other kinds
func NewUnexpectedError(message string, err error) *ServiceError {
	return &ServiceError{
		Kind:    ErrKindUnexpected,
		Message: message,
		Err:     err,
	}
}

// IsTransportError checks if an error is a transport error
func IsTransportError(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Kind == ErrKindTransport
}

// IsMalformedError checks if an error is a malformed-response error
func IsMalformedError(err error) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Kind == ErrKindMalformed
}

// IsTimeout reports whether the failure was a deadline expiry
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// UserMessage returns the user-facing message for any error on the analysis
// path, falling back to GenericMessage when the error carries none.
func UserMessage(err error) string {
	if err == nil {
		return GenericMessage
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		if msg := svcErr.UserMessage(); msg != "" {
			return msg
		}
		return GenericMessage
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericMessage
}
