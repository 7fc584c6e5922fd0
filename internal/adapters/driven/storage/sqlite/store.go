package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/domain"
	"github.com/Sitecore/Sitecore.JsonDataProvider/internal/core/ports/driven"
)

// DefaultFileName is the journal file created when no path is configured.
const DefaultFileName = "journal.db"

// Journal is a SQLite-backed commit journal.
type Journal struct {
	db   *sql.DB
	path string
}

// Ensure Journal implements the interface.
var _ driven.CommitJournal = (*Journal)(nil)

// NewJournal opens or creates the journal database at path.
// If path is empty, defaults to ~/.jsonstore/journal.db.
func NewJournal(path string) (*Journal, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".jsonstore", DefaultFileName)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	j := &Journal{
		db:   db,
		path: path,
	}

	if err := j.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// migrate runs all pending migrations.
func (j *Journal) migrate(fsys embed.FS) error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := j.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_commits.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := j.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// Record appends a commit record.
func (j *Journal) Record(ctx context.Context, record domain.CommitRecord) error {
	committedAt := record.CommittedAt
	if committedAt.IsZero() {
		committedAt = time.Now()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO commits (mapping, operation, item_id, bytes, digest, committed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.Mapping, string(record.Operation), record.ItemID.String(), record.Bytes, record.Digest,
		committedAt.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("recording commit: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. An empty mapping
// matches every mapping; a limit of zero or less returns all records.
func (j *Journal) Recent(ctx context.Context, mapping string, limit int) ([]domain.CommitRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, mapping, operation, item_id, bytes, digest, committed_at
		FROM commits
		WHERE ? = '' OR mapping = ?
		ORDER BY id DESC
		LIMIT ?
	`, mapping, mapping, limit)
	if err != nil {
		return nil, fmt.Errorf("querying commits: %w", err)
	}
	defer rows.Close()

	var records []domain.CommitRecord
	for rows.Next() {
		record, err := scanCommit(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating commits: %w", err)
	}
	return records, nil
}

func scanCommit(rows *sql.Rows) (domain.CommitRecord, error) {
	var (
		record    domain.CommitRecord
		operation string
		itemID    string
		nanos     int64
	)
	if err := rows.Scan(&record.ID, &record.Mapping, &operation, &itemID, &record.Bytes, &record.Digest, &nanos); err != nil {
		return domain.CommitRecord{}, fmt.Errorf("scanning commit: %w", err)
	}
	id, err := domain.ParseID(itemID)
	if err != nil {
		return domain.CommitRecord{}, fmt.Errorf("commit %d: %w", record.ID, err)
	}
	record.Operation = domain.Operation(operation)
	record.ItemID = id
	record.CommittedAt = time.Unix(0, nanos).UTC()
	return record, nil
}
