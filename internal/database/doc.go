// Package database turns the optional database block of the configuration
// into a PostgreSQL connection string and probes whether it is reachable.
// Application data itself lives in the hosted backend; this package only
// backs the health command.
package database
