package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConsistency indicates an internal invariant was violated.
	// It is a defect rather than a user error and fails the affected record.
	ErrConsistency = errors.New("consistency violation")

	// Catalog Errors.

	// ErrCatalogNotConfigured indicates the external catalog has no URL or API key.
	ErrCatalogNotConfigured = errors.New("catalog not configured")

	// ErrLoadFailed indicates a load submission was rejected or returned no load id.
	ErrLoadFailed = errors.New("load failed")

	// ErrLoadTimeout indicates a load did not reach a terminal state within the attempt budget.
	ErrLoadTimeout = errors.New("load timed out")

	// ErrNoReleasePackage indicates no open release package exists, even after creation.
	ErrNoReleasePackage = errors.New("no open release package")

	// ErrMultipleReleasePackages indicates the catalog returned more than one open package.
	ErrMultipleReleasePackages = errors.New("multiple open release packages")
)

// ConsistencyError describes an invariant violation with context.
type ConsistencyError struct {
	Detail string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConsistency, e.Detail)
}

// Unwrap allows errors.Is(err, ErrConsistency).
func (e *ConsistencyError) Unwrap() error {
	return ErrConsistency
}

// NewConsistencyError formats a ConsistencyError.
func NewConsistencyError(format string, args ...any) error {
	return &ConsistencyError{Detail: fmt.Sprintf(format, args...)}
}
