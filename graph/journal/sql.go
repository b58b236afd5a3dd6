package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// sqlJournal is the database/sql implementation shared by the SQLite and
// MySQL journals. Both drivers accept "?" placeholders, so only the schema
// differs between them.
type sqlJournal struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool

	// duplicate reports whether a driver error is a (run_id, seq)
	// uniqueness violation.
	duplicate func(error) bool
}

// Timestamps and durations are stored as integer nanoseconds so both
// dialects round-trip them without driver-specific time parsing.
func (s *sqlJournal) append(ctx context.Context, e Entry) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fngraph_journal (run_id, seq, node_id, status, err_text, duration_ns, at_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Seq, e.NodeID, string(e.Status), e.Error, int64(e.Duration), e.At.UnixNano(),
	)
	if err != nil {
		if s.duplicate != nil && s.duplicate(err) {
			return fmt.Errorf("%w: run %s seq %d", ErrDuplicateEntry, e.RunID, e.Seq)
		}
		return fmt.Errorf("failed to append journal entry %s/%d: %w", e.RunID, e.Seq, err)
	}
	return nil
}

func (s *sqlJournal) entries(ctx context.Context, runID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, seq, node_id, status, err_text, duration_ns, at_ns
		 FROM fngraph_journal WHERE run_id = ? ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal rows: %w", err)
	}
	return out, nil
}

func (s *sqlJournal) latest(ctx context.Context, runID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return Entry{}, ErrClosed
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, seq, node_id, status, err_text, duration_ns, at_ns
		 FROM fngraph_journal WHERE run_id = ? ORDER BY seq DESC LIMIT 1`, runID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func (s *sqlJournal) close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e          Entry
		status     string
		durationNs int64
		atNs       int64
	)
	if err := sc.Scan(&e.RunID, &e.Seq, &e.NodeID, &status, &e.Error, &durationNs, &atNs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("failed to scan journal entry: %w", err)
	}
	e.Status = Status(status)
	e.Duration = time.Duration(durationNs)
	e.At = time.Unix(0, atNs).UTC()
	return e, nil
}
