package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteJournal stores entries in a SQLite database through the pure-Go
// modernc.org/sqlite driver.
//
// path may be a file path or ":memory:". A single connection is used, so an
// in-memory database lives exactly as long as the journal.
//
// Example:
//
//	j, err := journal.NewSQLiteJournal("./runs.db")
//	if err != nil {
//	    return err
//	}
//	defer j.Close()
type SQLiteJournal struct {
	sqlJournal
	path string
}

// NewSQLiteJournal opens or creates the database at path and ensures the
// journal table exists.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// One writer at a time; also keeps ":memory:" on a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS fngraph_journal (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			node_id TEXT NOT NULL,
			status TEXT NOT NULL,
			err_text TEXT NOT NULL DEFAULT '',
			duration_ns INTEGER NOT NULL,
			at_ns INTEGER NOT NULL,
			UNIQUE(run_id, seq)
		)
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create fngraph_journal table: %w", err)
	}

	return &SQLiteJournal{sqlJournal: sqlJournal{db: db, duplicate: sqliteDuplicate}, path: path}, nil
}

func sqliteDuplicate(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// Path returns the database path the journal was opened with.
func (j *SQLiteJournal) Path() string {
	return j.path
}

// Append implements Journal.
func (j *SQLiteJournal) Append(ctx context.Context, e Entry) error {
	return j.append(ctx, e)
}

// Entries implements Journal.
func (j *SQLiteJournal) Entries(ctx context.Context, runID string) ([]Entry, error) {
	return j.entries(ctx, runID)
}

// Latest implements Journal.
func (j *SQLiteJournal) Latest(ctx context.Context, runID string) (Entry, error) {
	return j.latest(ctx, runID)
}

// Close implements Journal.
func (j *SQLiteJournal) Close() error {
	return j.close()
}
