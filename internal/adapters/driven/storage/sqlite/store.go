package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pnld-ingest/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pnld-ingest/internal/core/domain"
	"github.com/custodia-labs/pnld-ingest/internal/core/ports/driven"
)

// DatabaseFile is the ledger file name inside the data directory.
const DatabaseFile = "ledger.db"

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store owns the SQLite connection.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the ledger in dataDir and applies pending
// migrations. An empty dataDir uses ~/.pnld/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".pnld", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RunLedger returns the run ledger backed by this store. Closing the ledger
// closes the store.
func (s *Store) RunLedger() driven.RunLedger {
	return &runLedger{store: s}
}

// migrate applies every *.up.sql newer than the recorded version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_runs.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// runLedger implements driven.RunLedger.
type runLedger struct {
	store *Store
}

var _ driven.RunLedger = (*runLedger)(nil)

// Record stores the run, replacing any earlier record with the same ID.
func (l *runLedger) Record(ctx context.Context, report *domain.BatchReport) error {
	if report == nil || report.RunID == "" {
		return domain.ErrInvalidInput
	}
	sum := report.Summary()

	tx, err := l.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range []string{"messages", "source_files", "runs"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = ?", sum.RunID); err != nil {
			return fmt.Errorf("replacing run: %w", err)
		}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (run_id, release_package_id, dry_run, started_at, finished_at, files, scheduled, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, sum.RunID, sum.ReleasePackageID, sum.DryRun,
		formatTime(sum.StartedAt), formatTime(sum.FinishedAt),
		sum.Files, sum.Scheduled, sum.Failed)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	for i, sf := range report.SourceFiles {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO source_files (run_id, seq, source_file_id, status, message_count, offence_revision_id)
			VALUES (?, ?, ?, ?, ?, ?)
		`, sum.RunID, i, sf.ID, string(sf.Status), sf.MessageCount, sf.OffenceRevisionID)
		if err != nil {
			return fmt.Errorf("saving source file %s: %w", sf.ID, err)
		}
	}

	for i, m := range report.Messages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO messages (run_id, seq, source_file_id, code, type, text)
			VALUES (?, ?, ?, ?, ?, ?)
		`, sum.RunID, i, m.SourceFileID, m.Code, string(m.Type), m.Text)
		if err != nil {
			return fmt.Errorf("saving message %s: %w", m.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// List returns runs newest first.
func (l *runLedger) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	query := `
		SELECT run_id, release_package_id, dry_run, started_at, finished_at, files, scheduled, failed
		FROM runs ORDER BY started_at DESC, run_id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunSummary
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, sum)
	}
	return runs, rows.Err()
}

// Get returns one run with its files and messages in recorded order.
func (l *runLedger) Get(ctx context.Context, runID string) (*domain.RunDetail, error) {
	row := l.store.db.QueryRowContext(ctx, `
		SELECT run_id, release_package_id, dry_run, started_at, finished_at, files, scheduled, failed
		FROM runs WHERE run_id = ?
	`, runID)
	sum, err := scanSummary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	detail := &domain.RunDetail{Summary: sum}

	files, err := l.store.db.QueryContext(ctx, `
		SELECT source_file_id, status, message_count, offence_revision_id
		FROM source_files WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading source files: %w", err)
	}
	defer files.Close()
	for files.Next() {
		var sf domain.SourceFile
		var status string
		if err := files.Scan(&sf.ID, &status, &sf.MessageCount, &sf.OffenceRevisionID); err != nil {
			return nil, fmt.Errorf("scanning source file: %w", err)
		}
		sf.Status = domain.SourceStatus(status)
		detail.SourceFiles = append(detail.SourceFiles, sf)
	}
	if err := files.Err(); err != nil {
		return nil, err
	}

	msgs, err := l.store.db.QueryContext(ctx, `
		SELECT source_file_id, code, type, text
		FROM messages WHERE run_id = ? ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading messages: %w", err)
	}
	defer msgs.Close()
	for msgs.Next() {
		var m domain.Message
		var typ string
		if err := msgs.Scan(&m.SourceFileID, &m.Code, &typ, &m.Text); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Type = domain.MessageType(typ)
		detail.Messages = append(detail.Messages, m)
	}
	return detail, msgs.Err()
}

// Close closes the underlying store.
func (l *runLedger) Close() error {
	return l.store.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (domain.RunSummary, error) {
	var sum domain.RunSummary
	var started, finished string
	if err := row.Scan(&sum.RunID, &sum.ReleasePackageID, &sum.DryRun, &started, &finished,
		&sum.Files, &sum.Scheduled, &sum.Failed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sum, err
		}
		return sum, fmt.Errorf("scanning run: %w", err)
	}
	sum.StartedAt = parseTime(started)
	sum.FinishedAt = parseTime(finished)
	return sum, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
