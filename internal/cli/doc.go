// Package cli implements the contacts-cli command surface on kingpin.
//
// Commands read configuration through the application's configuration
// service. Errors are printed once, as "error: ...", and returned so the
// entry point can map their severity to an exit code.
package cli
