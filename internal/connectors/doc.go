// Package connectors holds the sources batches arrive from. The inbox
// connector watches a directory for batch files.
package connectors
