package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the kind of failure raised by the template engine
type ErrorType int

const (
	// ErrorTypeInvalidArgument is raised when a caller supplies a value that violates an operation's contract
	ErrorTypeInvalidArgument ErrorType = iota
	// ErrorTypeInvalidState is raised when an operation is not permitted in the template's current state
	ErrorTypeInvalidState
	// ErrorTypeMalformedInput marks tolerated input problems (reported, never fatal to the engine)
	ErrorTypeMalformedInput
	// ErrorTypeCompressionError is raised by body content-coding
	ErrorTypeCompressionError
	// ErrorTypeConfig is raised while loading prototype definitions
	ErrorTypeConfig
)

// Sentinels usable with errors.Is
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidState    = errors.New("invalid state")
	ErrMalformedInput  = errors.New("malformed input")
	ErrCompression     = errors.New("compression failed")
	ErrConfig          = errors.New("invalid configuration")
)

// String returns the name of the error type
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeInvalidArgument:
		return "invalid argument"
	case ErrorTypeInvalidState:
		return "invalid state"
	case ErrorTypeMalformedInput:
		return "malformed input"
	case ErrorTypeCompressionError:
		return "compression"
	case ErrorTypeConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Error represents a structured template engine error
type Error struct {
	Type    ErrorType
	Message string
	Context string
	Err     error
}

func (e *Error) Error() string {
	msg := "reqtemplate: " + e.Message
	if e.Context != "" {
		msg = fmt.Sprintf("%s (context: %s)", msg, e.Context)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to the error type
func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Type == ErrorTypeInvalidArgument
	case ErrInvalidState:
		return e.Type == ErrorTypeInvalidState
	case ErrMalformedInput:
		return e.Type == ErrorTypeMalformedInput
	case ErrCompression:
		return e.Type == ErrorTypeCompressionError
	case ErrConfig:
		return e.Type == ErrorTypeConfig
	}
	return false
}

// NewError creates a new Error
func NewError(errType ErrorType, message, context string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Context: context,
		Err:     cause,
	}
}

// InvalidArgument creates an ErrorTypeInvalidArgument error
func InvalidArgument(message, context string) *Error {
	return NewError(ErrorTypeInvalidArgument, message, context, nil)
}

// InvalidState creates an ErrorTypeInvalidState error
func InvalidState(message, context string) *Error {
	return NewError(ErrorTypeInvalidState, message, context, nil)
}

// IsInvalidArgument reports whether err is an invalid argument error
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsInvalidState reports whether err is an invalid state error
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsTemplateError checks if an error originates from this module
func IsTemplateError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
