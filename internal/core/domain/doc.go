// Package domain defines the core business entities for PNLD ingestion.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TextChunk: A classified segment of offence wording
//   - TerminalEntry: A fill-in-the-blank placeholder and its metadata
//   - Menu / MenuOption: A multi-choice placeholder and its options
//   - BaselineRecord: The previously accepted offence held by the catalog
//   - Decision: The outcome of comparing a submission with its baseline
//   - Message / SourceFile: Per-file diagnostics and status
//   - OffenceRevision: The assembled record submitted to the catalog
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
