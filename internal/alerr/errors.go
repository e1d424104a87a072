// Package alerr provides standardized error handling for linkdb.
// All errors have stable, machine-readable codes, a severity, structured context,
// and proper wrapping.
package alerr

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// Code represents a stable, machine-readable error code.
// Format: E{category}{number} where category is 1-7 and number is 001-999.
type Code string

// Error codes organized by category.
const (
	// Schema errors (E1xxx) - the backing store does not follow the naming conventions
	ErrInvalidLinkTable  Code = "E1001" // Table is neither a data table nor a valid A_B junction
	ErrDateFieldType     Code = "E1002" // date_added/date_updated column is not a timestamp
	ErrInvalidTableName  Code = "E1003" // Unknown table name
	ErrInvalidColumnName Code = "E1004" // Unknown column name
	ErrSchemaEmpty       Code = "E1005" // The driver reported no tables

	// Validation errors (E2xxx) - problems with submitted or requested values
	ErrRequiredField      Code = "E2001" // Required field missing from a submission
	ErrInvalidDate        Code = "E2002" // Date is not mm-dd-yyyy or does not exist
	ErrInvalidTime        Code = "E2003" // Time is not hh:mm
	ErrInvalidNumber      Code = "E2004" // Integer/Numeric value does not parse
	ErrInvalidEnumValue   Code = "E2005" // Value not among the declared enumeration values
	ErrInvalidRowID       Code = "E2006" // Row id does not exist in the table
	ErrInvalidTableInForm Code = "E2007" // Only data tables can be rendered or submitted
	ErrFormTableCount     Code = "E2008" // Table names and ids have different lengths

	// Write errors (E3xxx) - statements that ran but did not do what was expected
	ErrNoRowsAffected Code = "E3001" // Expected write touched zero rows
	ErrRowNotFound    Code = "E3002" // Row to delete does not exist

	// SQL errors (E4xxx) - problems with database operations
	ErrSQLExecution  Code = "E4001" // SQL statement failed to execute
	ErrSQLConnection Code = "E4002" // Database connection failed

	// Introspection errors (E6xxx) - problems with database introspection
	ErrIntrospection    Code = "E6001" // Database introspection failed
	EUnsupportedDialect Code = "E6003" // Dialect not supported for operation

	// Configuration errors (E7xxx)
	ErrConfigInvalid         Code = "E7001" // Configuration file or flags are invalid
	ErrMessageCatalogInvalid Code = "E7002" // Message catalog entry is malformed

	// Internal errors (E9xxx) - unexpected internal errors
	EInternalError Code = "E9001" // Internal error
)

// Error is the standard error type for linkdb.
// It provides structured error information with codes, context, and wrapping support.
type Error struct {
	code     Code           // Machine-readable error code
	message  string         // Human-readable error message
	severity Severity       // How the caller must react
	context  map[string]any // Structured context data
	args     []string       // Positional arguments for catalog messages
	cause    error          // Wrapped underlying error
	stack    string         // Stack trace for debugging
}

// Error returns the formatted error string.
// Format:
//
//	[E2001] required field 'Title' is missing
//	  column: title
//	  table: book
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.code, e.message))

	// Context in sorted order for deterministic output
	if len(e.context) > 0 {
		keys := make([]string, 0, len(e.context))
		for k := range e.context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			b.WriteString(fmt.Sprintf("\n  %s: %v", k, e.context[k]))
		}
	}

	if e.cause != nil {
		b.WriteString(fmt.Sprintf("\n  cause: %v", e.cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error for errors.Unwrap compatibility.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether the target error matches this error.
// It matches if target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}

	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.code == targetErr.code
	}

	return false
}

// GetCode returns the error code.
func (e *Error) GetCode() Code {
	return e.code
}

// GetMessage returns the error message.
func (e *Error) GetMessage() string {
	return e.message
}

// SetMessage replaces the error message.
func (e *Error) SetMessage(msg string) {
	e.message = msg
}

// GetSeverity returns the severity of the error.
func (e *Error) GetSeverity() Severity {
	return e.severity
}

// WithSeverity overrides the default severity of the error's code.
func (e *Error) WithSeverity(s Severity) *Error {
	e.severity = s
	return e
}

// GetContext returns the error context map.
func (e *Error) GetContext() map[string]any {
	return e.context
}

// GetCause returns the underlying cause error.
func (e *Error) GetCause() error {
	return e.cause
}

// GetStack returns the stack trace.
func (e *Error) GetStack() string {
	return e.stack
}

// With adds a key-value pair to the error context.
// Returns the error for method chaining.
func (e *Error) With(key string, value any) *Error {
	if e.context == nil {
		e.context = make(map[string]any)
	}
	e.context[key] = value
	return e
}

// WithTable adds table context to the error.
func (e *Error) WithTable(table string) *Error {
	return e.With("table", table)
}

// WithColumn adds column context to the error.
func (e *Error) WithColumn(name string) *Error {
	return e.With("column", name)
}

// WithSQL adds SQL statement context to the error.
func (e *Error) WithSQL(sql string) *Error {
	return e.With("sql", sql)
}

// WithNote adds a note to the error (displayed as "note: ...").
func (e *Error) WithNote(note string) *Error {
	notes, _ := e.context["notes"].([]string)
	notes = append(notes, note)
	return e.With("notes", notes)
}

// WithHelp adds a help suggestion to the error (displayed as "help: ...").
func (e *Error) WithHelp(help string) *Error {
	helps, _ := e.context["helps"].([]string)
	helps = append(helps, help)
	return e.With("helps", helps)
}

// Notes returns all notes attached to this error.
func (e *Error) Notes() []string {
	notes, _ := e.context["notes"].([]string)
	return notes
}

// Helps returns all help suggestions attached to this error.
func (e *Error) Helps() []string {
	helps, _ := e.context["helps"].([]string)
	return helps
}

// captureStack captures a stack trace for debugging.
func captureStack(skip int) string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if strings.Contains(frame.File, "runtime/") {
			if !more {
				break
			}
			continue
		}
		b.WriteString(fmt.Sprintf("%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line))
		if !more {
			break
		}
	}
	return b.String()
}

// New creates a new Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{
		code:     code,
		message:  msg,
		severity: DefaultSeverity(code),
		context:  make(map[string]any),
		stack:    captureStack(3),
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		code:     code,
		message:  fmt.Sprintf(format, args...),
		severity: DefaultSeverity(code),
		context:  make(map[string]any),
		stack:    captureStack(3),
	}
}

// Wrap creates a new Error that wraps an existing error.
func Wrap(code Code, err error, msg string) *Error {
	if err == nil {
		return New(code, msg)
	}
	return &Error{
		code:     code,
		message:  msg,
		severity: DefaultSeverity(code),
		context:  make(map[string]any),
		cause:    err,
		stack:    captureStack(3),
	}
}

// Wrapf creates a new Error that wraps an existing error with a formatted message.
func Wrapf(code Code, err error, format string, args ...any) *Error {
	return Wrap(code, err, fmt.Sprintf(format, args...))
}

// GetErrorCode extracts the error code from an error chain.
// Returns empty string if no code is found.
func GetErrorCode(err error) Code {
	if err == nil {
		return ""
	}

	var alerr *Error
	if errors.As(err, &alerr) {
		return alerr.code
	}

	return ""
}

// Is checks if an error has the specified code.
func Is(err error, code Code) bool {
	return GetErrorCode(err) == code
}

// WrapSQL creates an ErrSQLExecution error for a failed statement.
// Example: WrapSQL(err, "run query", "SELECT ...") -> "failed to run query"
func WrapSQL(err error, op, query string) *Error {
	return Wrap(ErrSQLExecution, err, "failed to "+op).WithSQL(query)
}
