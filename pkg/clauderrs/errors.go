// Package clauderrs provides the error taxonomy for the Claude agent SDK.
// This package defines error categories, codes, and typed error variants so
// callers always observe typed errors rather than raw failures from the
// underlying transport.
package clauderrs

import (
	"errors"
	"fmt"
	"maps"
)

// ErrorCategory represents different categories of errors that can occur
// in the SDK.
type ErrorCategory string

const (
	// CategoryTransport represents transport-level errors.
	CategoryTransport ErrorCategory = "transport"
	// CategoryProcess represents subprocess-related errors.
	CategoryProcess ErrorCategory = "process"
	// CategoryProtocol represents protocol-level errors.
	CategoryProtocol ErrorCategory = "protocol"
	// CategoryValidation represents configuration validation errors.
	CategoryValidation ErrorCategory = "validation"
)

// ErrorCode represents specific error codes within each category.
type ErrorCode string

// Transport error codes.
const (
	ErrCodeNotConnected    ErrorCode = "not_connected"
	ErrCodeWriteFailed     ErrorCode = "write_failed"
	ErrCodeReadFailed      ErrorCode = "read_failed"
	ErrCodeTransportClosed ErrorCode = "transport_closed"
	ErrCodeBadWorkingDir   ErrorCode = "bad_working_dir"
)

// Process error codes.
const (
	ErrCodeCLINotFound   ErrorCode = "cli_not_found"
	ErrCodeProcessSpawn  ErrorCode = "process_spawn_failed"
	ErrCodeProcessExited ErrorCode = "process_exited"
)

// Protocol error codes.
const (
	ErrCodeBufferExceeded  ErrorCode = "buffer_exceeded"
	ErrCodeMissingType     ErrorCode = "missing_type_field"
	ErrCodeUnknownType     ErrorCode = "unknown_message_type"
	ErrCodeMalformedRecord ErrorCode = "malformed_record"
)

// Validation error codes.
const (
	ErrCodeInvalidConfig ErrorCode = "invalid_config"
)

// SDKError is the base interface for all SDK errors.
type SDKError interface {
	error
	// Code returns the error code.
	Code() ErrorCode
	// Category returns the error category.
	Category() ErrorCategory
	// Unwrap returns the underlying error.
	Unwrap() error
	// Metadata returns additional error metadata.
	Metadata() map[string]any
}

// BaseError provides the base implementation for SDK errors.
type BaseError struct {
	code     ErrorCode
	category ErrorCategory
	message  string
	cause    error
	metadata map[string]any
}

// NewBaseError creates a new base error.
func NewBaseError(
	category ErrorCategory,
	code ErrorCode,
	message string,
	cause error,
) *BaseError {
	return &BaseError{
		code:     code,
		category: category,
		message:  message,
		cause:    cause,
		metadata: make(map[string]any),
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.category, e.message, e.cause)
	}

	return fmt.Sprintf("%s: %s", e.category, e.message)
}

// Code returns the error code.
func (e *BaseError) Code() ErrorCode {
	return e.code
}

// Category returns the error category.
func (e *BaseError) Category() ErrorCategory {
	return e.category
}

// Unwrap returns the underlying error.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Metadata returns the error metadata.
func (e *BaseError) Metadata() map[string]any {
	return e.metadata
}

// WithMetadata adds metadata to the error.
func (e *BaseError) WithMetadata(key string, value any) *BaseError {
	e.metadata[key] = value

	return e
}

// WithMetadataMap adds multiple metadata items to the error.
func (e *BaseError) WithMetadataMap(metadata map[string]any) *BaseError {
	maps.Copy(e.metadata, metadata)

	return e
}

// NotFoundError indicates the Claude CLI binary could not be located.
// It carries human-facing installation guidance, since a missing binary is
// otherwise indistinguishable from a generic spawn failure.
type NotFoundError struct {
	*BaseError
}

// NewNotFoundError creates a CLI-not-found error with install guidance.
func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		BaseError: NewBaseError(
			CategoryProcess,
			ErrCodeCLINotFound,
			message,
			nil,
		),
	}
}

// ConnectionError indicates the transport is not usable: not connected,
// already torn down, bad working directory, or a prior fatal write failure.
type ConnectionError struct {
	*BaseError
}

// NewConnectionError creates a transport connection error.
func NewConnectionError(
	code ErrorCode,
	message string,
	cause error,
) *ConnectionError {
	return &ConnectionError{
		BaseError: NewBaseError(CategoryTransport, code, message, cause),
	}
}

// ProcessError indicates the CLI subprocess exited with a non-zero status.
type ProcessError struct {
	*BaseError

	// ExitCode is the subprocess exit status.
	ExitCode int

	// Stderr holds captured diagnostic output, when available.
	Stderr string
}

// NewProcessError creates a process exit error.
func NewProcessError(exitCode int, stderr string, cause error) *ProcessError {
	return &ProcessError{
		BaseError: NewBaseError(
			CategoryProcess,
			ErrCodeProcessExited,
			fmt.Sprintf("process exited with status %d", exitCode),
			cause,
		),
		ExitCode: exitCode,
		Stderr:   stderr,
	}
}

// JSONDecodeError indicates a single frame's accumulated buffer exceeded
// the configured size ceiling before becoming parseable.
type JSONDecodeError struct {
	*BaseError

	// Limit is the configured maximum buffer size in bytes.
	Limit int
}

// NewJSONDecodeError creates a buffer-overflow decode error.
func NewJSONDecodeError(limit int) *JSONDecodeError {
	return &JSONDecodeError{
		BaseError: NewBaseError(
			CategoryProtocol,
			ErrCodeBufferExceeded,
			fmt.Sprintf("JSON buffer exceeded %d bytes", limit),
			nil,
		),
		Limit: limit,
	}
}

// MessageParseError indicates a structurally unrecognized protocol record
// (missing or unknown type tag) or an invalid configuration combination.
type MessageParseError struct {
	*BaseError

	// Raw holds the offending record, when parsing produced the error.
	Raw map[string]any
}

// NewMessageParseError creates a protocol parse error.
func NewMessageParseError(
	code ErrorCode,
	message string,
	raw map[string]any,
) *MessageParseError {
	return &MessageParseError{
		BaseError: NewBaseError(CategoryProtocol, code, message, nil),
		Raw:       raw,
	}
}

// NewInvalidConfigError creates a configuration validation error.
func NewInvalidConfigError(message string) *MessageParseError {
	return &MessageParseError{
		BaseError: NewBaseError(
			CategoryValidation,
			ErrCodeInvalidConfig,
			message,
			nil,
		),
	}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError

	return errors.As(err, &target)
}

// IsConnectionError reports whether err is a ConnectionError.
func IsConnectionError(err error) bool {
	var target *ConnectionError

	return errors.As(err, &target)
}

// IsProcessError reports whether err is a ProcessError.
func IsProcessError(err error) bool {
	var target *ProcessError

	return errors.As(err, &target)
}

// IsJSONDecodeError reports whether err is a JSONDecodeError.
func IsJSONDecodeError(err error) bool {
	var target *JSONDecodeError

	return errors.As(err, &target)
}

// IsMessageParseError reports whether err is a MessageParseError.
func IsMessageParseError(err error) bool {
	var target *MessageParseError

	return errors.As(err, &target)
}
