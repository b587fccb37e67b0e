// Package health reports whether the configuration service is usable.
//
// A Checker combines:
//
//	service readiness      - the service and its manager both hold a snapshot
//	process details        - environment, uptime, memory, goroutines
//	database reachability  - optional, only when a database block is configured
//
// Status is HEALTHY only when the service is ready and, if requested, the
// database answered a ping.
package health
