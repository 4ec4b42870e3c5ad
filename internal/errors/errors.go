package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// Configuration errors - missing or invalid configuration
	ErrorTypeConfig ErrorType = iota
	// Validation errors - invalid arguments or thresholds
	ErrorTypeValidation
	// Parse errors - source text is not valid Python
	ErrorTypeParse
	// Resource limit errors - input exceeded a configured bound
	ErrorTypeResourceLimit
	// Network errors - listener or connection failures
	ErrorTypeNetwork
	// FileSystem errors - reading sources from disk
	ErrorTypeFileSystem
	// External errors - GitHub and other remote services
	ErrorTypeExternal
	// Internal errors - unexpected analyzer state
	ErrorTypeInternal
)

var typeNames = map[ErrorType]string{
	ErrorTypeConfig:        "CONFIG",
	ErrorTypeValidation:    "VALIDATION",
	ErrorTypeParse:         "PARSE",
	ErrorTypeResourceLimit: "RESOURCE_LIMIT",
	ErrorTypeNetwork:       "NETWORK",
	ErrorTypeFileSystem:    "FILESYSTEM",
	ErrorTypeExternal:      "EXTERNAL",
	ErrorTypeInternal:      "INTERNAL",
}

func (t ErrorType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Severity represents how critical an error is
type Severity int

const (
	// SeverityLow - can continue with degraded functionality
	SeverityLow Severity = iota
	// SeverityMedium - one input failed, the rest of a batch continues
	SeverityMedium
	// SeverityHigh - the requested operation failed
	SeverityHigh
	// SeverityCritical - the process cannot continue
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Error is a categorized error carrying an optional cause and context
type Error struct {
	Type     ErrorType
	Severity Severity
	Message  string
	Cause    error
	Context  map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Is matches any *Error of the same type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsFatal returns true if this error should stop execution
func (e *Error) IsFatal() bool {
	return e.Severity == SeverityCritical
}

// DetailedString returns a multi-line description with cause and context
func (e *Error) DetailedString() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] [%s] %s\n", e.Severity, e.Type, e.Message)

	if e.Cause != nil {
		fmt.Fprintf(&sb, "Caused by: %v\n", e.Cause)
	}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("Context:\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s: %v\n", k, e.Context[k])
		}
	}
	return sb.String()
}

// New creates a new error with the given type, severity, and message
func New(errType ErrorType, severity Severity, message string) *Error {
	return &Error{Type: errType, Severity: severity, Message: message}
}

// Wrap wraps err with a type and message. A nil err yields nil.
func Wrap(err error, errType ErrorType, severity Severity, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Type: errType, Severity: severity, Message: message, Cause: err}
}

// ConfigError creates a configuration error
func ConfigError(message string) *Error {
	return New(ErrorTypeConfig, SeverityCritical, message)
}

// ValidationError creates a validation error
func ValidationError(message string) *Error {
	return New(ErrorTypeValidation, SeverityHigh, message)
}

// ValidationErrorf creates a validation error with formatting
func ValidationErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeValidation, SeverityHigh, fmt.Sprintf(format, args...))
}

// ParseError wraps a syntax error in the analyzed source
func ParseError(err error, message string) *Error {
	return Wrap(err, ErrorTypeParse, SeverityMedium, message)
}

// ResourceLimitError wraps a resource limit violation
func ResourceLimitError(err error, message string) *Error {
	return Wrap(err, ErrorTypeResourceLimit, SeverityMedium, message)
}

// NetworkError wraps a network error
func NetworkError(err error, message string) *Error {
	return Wrap(err, ErrorTypeNetwork, SeverityHigh, message)
}

// NetworkErrorf wraps a network error with formatting
func NetworkErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeNetwork, SeverityHigh, fmt.Sprintf(format, args...))
}

// FileSystemErrorf wraps a filesystem error with formatting
func FileSystemErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeFileSystem, SeverityHigh, fmt.Sprintf(format, args...))
}

// ExternalErrorf wraps an external service error with formatting
func ExternalErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeExternal, SeverityMedium, fmt.Sprintf(format, args...))
}

// InternalError wraps an unexpected failure
func InternalError(err error, message string) *Error {
	return Wrap(err, ErrorTypeInternal, SeverityCritical, message)
}

// IsFatal checks if an error is fatal (should stop execution)
func IsFatal(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.IsFatal()
	}
	return false
}

// GetSeverity returns the severity of an error
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityLow
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Severity
	}
	return SeverityMedium
}

// GetType returns the type of an error; untyped errors are internal
func GetType(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err or anything it wraps is an *Error of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsInput reports whether err was caused by the analyzed input rather than
// by the analyzer: a syntax error, an exceeded bound or a rejected argument.
func IsInput(err error) bool {
	switch GetType(err) {
	case ErrorTypeParse, ErrorTypeResourceLimit, ErrorTypeValidation:
		return err != nil
	}
	return false
}
