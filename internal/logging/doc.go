// Package logging builds the zap loggers used across contacts-cli and keeps
// their level in step with the configured log level.
package logging
