// Package history persists REPL entries in a SQL database so earlier sessions
// can be inspected later. sqlite3, mysql and postgres are supported.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type Status string

const (
	StatusOK           Status = "ok"
	StatusCompileError Status = "compile_error"
	StatusRuntimeError Status = "runtime_error"
)

var ErrUnsupportedDriver = errors.New("unsupported history driver")

// Entry is one line submitted to the REPL and how it ended.
type Entry struct {
	ID        int64
	SessionID string
	Source    string
	Status    Status
	Message   string
	CreatedAt time.Time
}

type dialect struct {
	schema string
	// dollar placeholders ($1, $2, ...) instead of ?
	dollar bool
}

var dialects = map[string]dialect{
	"sqlite3": {
		schema: `CREATE TABLE IF NOT EXISTS lox_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	entry TEXT NOT NULL,
	status TEXT NOT NULL,
	message TEXT NOT NULL,
	created_at INTEGER NOT NULL
)`,
	},
	"mysql": {
		schema: `CREATE TABLE IF NOT EXISTS lox_history (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	session_id VARCHAR(36) NOT NULL,
	entry TEXT NOT NULL,
	status VARCHAR(16) NOT NULL,
	message TEXT NOT NULL,
	created_at BIGINT NOT NULL
)`,
	},
	"postgres": {
		schema: `CREATE TABLE IF NOT EXISTS lox_history (
	id BIGSERIAL PRIMARY KEY,
	session_id VARCHAR(36) NOT NULL,
	entry TEXT NOT NULL,
	status VARCHAR(16) NOT NULL,
	message TEXT NOT NULL,
	created_at BIGINT NOT NULL
)`,
		dollar: true,
	},
}

// Store records entries for a single session.
type Store struct {
	db        *sql.DB
	dialect   dialect
	sessionID string
}

// Open connects to dsn with the named driver, creates the history table when
// it is missing and starts a new session.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s history: %w", driver, err)
	}
	if driver == "sqlite3" {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history table: %w", err)
	}

	s := &Store{db: db, dialect: d, sessionID: uuid.NewString()}
	slog.Debug("history opened",
		slog.String("driver", driver),
		slog.String("session", s.sessionID))
	return s, nil
}

func (s *Store) SessionID() string {
	return s.sessionID
}

// Record appends e to the current session. SessionID and CreatedAt are
// filled in when empty.
func (s *Store) Record(ctx context.Context, e Entry) (err error) {
	if e.SessionID == "" {
		e.SessionID = s.sessionID
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, s.rebind(
		"INSERT INTO lox_history (session_id, entry, status, message, created_at) VALUES (?, ?, ?, ?, ?)"),
		e.SessionID, e.Source, string(e.Status), e.Message, e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("recording history: %w", err)
	}
	return tx.Commit()
}

// Recent returns up to limit entries from every session, oldest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT id, session_id, entry, status, message, created_at FROM lox_history ORDER BY id DESC LIMIT ?"),
		limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var status string
		var created int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Source, &status, &e.Message, &created); err != nil {
			return nil, err
		}
		e.Status = Status(status)
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders for drivers that number their parameters.
func (s *Store) rebind(query string) string {
	if !s.dialect.dollar {
		return query
	}
	var out strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(n))
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
