// Package service wraps a config.Manager with the lifecycle the rest of
// contacts-cli relies on: initialization and cleanup, typed key access,
// environment-conditional values, reload with change watchers, periodic
// drift detection against the process environment, and redacted output.
//
// A Service owns its own copy of the snapshot. It is refreshed only by
// Initialize and Reload, so callers should re-read through Get or Snapshot
// rather than hold on to a value across a reload.
package service
