// Package sqlite provides the SQLite-backed run ledger.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Each ingest run is stored with its source file outcomes and
// messages so "pnld runs" can show past results.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.pnld/data/ledger.db
package sqlite
