// Package config resolves the contacts-cli configuration from environment
// variables. It holds the data model, the environment readers that coerce raw
// strings into typed fields, the rule set that validates a candidate
// configuration, and the Manager that owns the current validated snapshot.
package config
