// Package errors provides severity-tagged errors for contacts-cli.
//
// # Severities
//
// Every failure raised by the configuration subsystem carries a Severity:
//
//	SeverityLow      // informational, never blocks (privileged port warning)
//	SeverityMedium   // recoverable usage error (bad --format, bad log level)
//	SeverityHigh     // operation cannot proceed (config read before load, reload failure)
//	SeverityCritical // initialization failure, the service is unusable
//	SeverityFatal    // process-level, reserved for the application boundary
//
// # Constructors
//
//	errors.New(errors.SeverityHigh, "configuration not loaded")
//	errors.Wrap(errors.SeverityCritical, "load configuration", err)
//
// # Inspecting errors
//
// SeverityOf returns the severity of the outermost tagged error while
// HasSeverity searches the whole chain, so a CRITICAL load failure caused by
// a HIGH invalid port satisfies both checks:
//
//	errors.SeverityOf(err) == errors.SeverityCritical
//	errors.HasSeverity(err, errors.SeverityHigh)
//
// ExitCode maps an error chain onto the process exit status.
package errors
