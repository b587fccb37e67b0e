package errors

import (
	"errors"
	"fmt"
)

// Severity classifies how far a failure propagates.
type Severity int

const (
	SeverityLow Severity = iota + 1
	SeverityMedium
	SeverityHigh
	SeverityCritical
	SeverityFatal
)

// Exit codes for contacts-cli
const (
	ExitSuccess  = 0
	ExitGeneral  = 1
	ExitHigh     = 2
	ExitCritical = 3
	ExitFatal    = 4
)

var severityNames = map[Severity]string{
	SeverityLow:      "LOW",
	SeverityMedium:   "MEDIUM",
	SeverityHigh:     "HIGH",
	SeverityCritical: "CRITICAL",
	SeverityFatal:    "FATAL",
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

// Error is the base error type for contacts-cli
type Error struct {
	Severity Severity
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error
func New(severity Severity, message string) *Error {
	return &Error{
		Severity: severity,
		Message:  message,
	}
}

// Newf creates a new Error with a formatted message
func Newf(severity Severity, format string, args ...any) *Error {
	return New(severity, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an Error
func Wrap(severity Severity, message string, cause error) *Error {
	return &Error{
		Severity: severity,
		Message:  message,
		Cause:    cause,
	}
}

// SeverityOf returns the severity of the first Error in err's chain, or 0
// when the chain carries none.
func SeverityOf(err error) Severity {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Severity
	}
	return 0
}

// HasSeverity reports whether any Error in err's chain has the given severity.
func HasSeverity(err error, severity Severity) bool {
	for err != nil {
		var tagged *Error
		if !errors.As(err, &tagged) {
			return false
		}
		if tagged.Severity == severity {
			return true
		}
		err = tagged.Cause
	}
	return false
}

// ExitCode extracts the exit code from an error
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch SeverityOf(err) {
	case SeverityHigh:
		return ExitHigh
	case SeverityCritical:
		return ExitCritical
	case SeverityFatal:
		return ExitFatal
	default:
		return ExitGeneral
	}
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
