// Package errors provides the error taxonomy for the seopilot pipeline.
//
// Errors fall into two groups:
//
// Sentinel errors name a condition and are compared with [Is]:
//   - ErrOracleUnreachable: the ranking oracle failed its startup health check
//   - ErrSourceMissing: the work-item source does not exist
//   - ErrUnparsableScore: a row's priority score is missing or not a finite number
//   - ErrUnknownAction, ErrUnknownPageType, ErrUnknownProvider: a work item cannot be routed
//   - ErrInvocationFailed, ErrTimeout: an external operation did not succeed
//
// Typed errors carry context and are extracted with [As]:
//   - ObservationError: a rank lookup for one keyword failed
//   - InvocationError: an external operation exited with a nonzero status
//   - TimeoutError: an operation exceeded its deadline
//   - ValidationError: invalid input
//
// # Usage
//
//	err := errors.NewObservationError("psychiatrist orlando", cause)
//
//	var obsErr *errors.ObservationError
//	if errors.As(err, &obsErr) {
//	    logger.Warn("lookup failed", "keyword", obsErr.Keyword)
//	}
//
//	if errors.Is(err, errors.ErrTimeout) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityInfo is for conditions that are expected during a normal run.
	SeverityInfo Severity = iota
	// SeverityWarning is for recoverable problems affecting a single item.
	SeverityWarning
	// SeverityError is for failures of a requested operation.
	SeverityError
	// SeverityCritical is for failures that halt the run.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Oracle and source sentinel errors
var (
	// ErrOracleUnreachable indicates the ranking oracle failed its health check.
	ErrOracleUnreachable = New("ranking oracle unreachable")
	// ErrSourceMissing indicates the work-item source does not exist.
	ErrSourceMissing = New("task source missing")
	// ErrUnparsableScore indicates a priority score that is missing or not a finite number.
	ErrUnparsableScore = New("unparsable priority score")
)

// Routing sentinel errors
var (
	// ErrUnknownAction indicates an action text that matches no handler.
	ErrUnknownAction = New("unknown action")
	// ErrUnknownPageType indicates a landing page URL of no recognized type.
	ErrUnknownPageType = New("unknown landing page type")
	// ErrUnknownProvider indicates an insurance page whose provider cannot be resolved.
	ErrUnknownProvider = New("unknown insurance provider")
)

// Invocation sentinel errors
var (
	// ErrInvocationFailed indicates an external operation did not succeed.
	ErrInvocationFailed = New("external invocation failed")
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message   string
	cause     error
	severity  Severity
	retryable bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// classified is implemented by every typed error in this package.
type classified interface {
	error
	Severity() Severity
	IsRetryable() bool
}

// -----------------------------------------------------------------------------
// ObservationError
// -----------------------------------------------------------------------------

// ObservationError reports a failed rank lookup for a single keyword.
// The keyword is omitted from downstream aggregation; it is never treated
// as unranked.
//
// Example:
//
//	err := errors.NewObservationError("psychiatry orlando", io.ErrUnexpectedEOF)
//	fmt.Println(err) // "observation error [keyword=psychiatry orlando]: unexpected EOF"
type ObservationError struct {
	baseError
	Keyword    string
	StatusCode int
}

// NewObservationError creates a new ObservationError for keyword.
func NewObservationError(keyword string, cause error) *ObservationError {
	return &ObservationError{
		baseError: baseError{
			message:   "rank lookup failed",
			cause:     cause,
			severity:  SeverityWarning,
			retryable: true,
		},
		Keyword: keyword,
	}
}

// WithStatusCode records the HTTP status returned by the oracle.
func (e *ObservationError) WithStatusCode(code int) *ObservationError {
	e.StatusCode = code
	return e
}

// Error returns the formatted error message.
func (e *ObservationError) Error() string {
	parts := []string{fmt.Sprintf("keyword=%s", e.Keyword)}
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	prefix := fmt.Sprintf("observation error [%s]", strings.Join(parts, ", "))
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ObservationError) Is(target error) bool {
	_, ok := target.(*ObservationError)
	return ok
}

// -----------------------------------------------------------------------------
// InvocationError
// -----------------------------------------------------------------------------

// InvocationError reports an external operation that exited unsuccessfully.
// Stderr holds the error text captured from the operation.
//
// Example:
//
//	err := errors.NewInvocationError("optimize-landing", cause).
//	    WithExitCode(2).
//	    WithStderr("page not found")
type InvocationError struct {
	baseError
	Operation string
	ExitCode  int
	Stderr    string
}

// NewInvocationError creates a new InvocationError for operation.
func NewInvocationError(operation string, cause error) *InvocationError {
	return &InvocationError{
		baseError: baseError{
			message:  "invocation failed",
			cause:    cause,
			severity: SeverityError,
		},
		Operation: operation,
		ExitCode:  -1,
	}
}

// WithExitCode records the exit status of the operation.
func (e *InvocationError) WithExitCode(code int) *InvocationError {
	e.ExitCode = code
	return e
}

// WithStderr records the error text the operation produced.
func (e *InvocationError) WithStderr(stderr string) *InvocationError {
	e.Stderr = strings.TrimSpace(stderr)
	return e
}

// Error returns the formatted error message.
func (e *InvocationError) Error() string {
	parts := []string{fmt.Sprintf("op=%s", e.Operation)}
	if e.ExitCode >= 0 {
		parts = append(parts, fmt.Sprintf("exit=%d", e.ExitCode))
	}
	msg := fmt.Sprintf("invocation error [%s]", strings.Join(parts, ", "))
	switch {
	case e.Stderr != "":
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	case e.cause != nil:
		msg = fmt.Sprintf("%s: %v", msg, e.cause)
	default:
		msg = fmt.Sprintf("%s: %s", msg, e.message)
	}
	return msg
}

// Is checks if this error matches the target.
func (e *InvocationError) Is(target error) bool {
	if _, ok := target.(*InvocationError); ok {
		return true
	}
	if target == ErrInvocationFailed {
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// TimeoutError
// -----------------------------------------------------------------------------

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("fix-tech-issues", 30*time.Second)
//	fmt.Println(err) // "timeout error: fix-tech-issues (timeout: 30s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:   operation,
			severity:  SeverityError,
			retryable: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	return target == ErrTimeout || target == ErrInvocationFailed
}

// -----------------------------------------------------------------------------
// ValidationError
// -----------------------------------------------------------------------------

// ValidationError represents invalid input.
//
// Example:
//
//	err := errors.NewValidationError("keyword must not be empty").WithField("keyword")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:  message,
			severity: SeverityWarning,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	return target == ErrInvalidInput
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// that may succeed on a later run.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var c classified
	if As(err, &c) {
		return c.IsRetryable()
	}
	return Is(err, ErrTimeout)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that are not classified by this package.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityInfo
	}
	if Is(err, ErrOracleUnreachable) {
		return SeverityCritical
	}
	var c classified
	if As(err, &c) {
		return c.Severity()
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
