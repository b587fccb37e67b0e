// Package application provides application initialization and dependency wiring.
// It builds the configuration manager, the configuration service and the
// health checker from one set of options, and keeps the logger level in step
// with the loaded configuration. The CLI receives a single App instead of
// reaching for process-wide state.
package application
