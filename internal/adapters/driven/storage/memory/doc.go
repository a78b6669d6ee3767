// Package memory provides in-memory implementations of the configuration
// and run ledger ports for tests and dry runs.
package memory
