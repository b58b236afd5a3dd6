package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// erDupEntry is the server error number for a duplicate unique key.
const erDupEntry = 1062

// MySQLJournal stores entries in MySQL (or a wire-compatible server such as
// MariaDB or Aurora MySQL).
//
// Example DSN: "user:password@tcp(localhost:3306)/fngraph".
type MySQLJournal struct {
	sqlJournal
}

// NewMySQLJournal connects to dsn, verifies the connection and ensures the
// journal table exists.
func NewMySQLJournal(ctx context.Context, dsn string) (*MySQLJournal, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS fngraph_journal (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id VARCHAR(64) NOT NULL,
			seq INT NOT NULL,
			node_id VARCHAR(255) NOT NULL,
			status VARCHAR(16) NOT NULL,
			err_text TEXT NOT NULL,
			duration_ns BIGINT NOT NULL,
			at_ns BIGINT NOT NULL,
			UNIQUE KEY idx_run_seq (run_id, seq)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create fngraph_journal table: %w", err)
	}

	return &MySQLJournal{sqlJournal: sqlJournal{db: db, duplicate: mysqlDuplicate}}, nil
}

func mysqlDuplicate(err error) bool {
	var merr *mysql.MySQLError
	return errors.As(err, &merr) && merr.Number == erDupEntry
}

// Ping verifies the connection is alive.
func (j *MySQLJournal) Ping(ctx context.Context) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrClosed
	}
	return j.db.PingContext(ctx)
}

// Append implements Journal.
func (j *MySQLJournal) Append(ctx context.Context, e Entry) error {
	return j.append(ctx, e)
}

// Entries implements Journal.
func (j *MySQLJournal) Entries(ctx context.Context, runID string) ([]Entry, error) {
	return j.entries(ctx, runID)
}

// Latest implements Journal.
func (j *MySQLJournal) Latest(ctx context.Context, runID string) (Entry, error) {
	return j.latest(ctx, runID)
}

// Close implements Journal.
func (j *MySQLJournal) Close() error {
	return j.close()
}
