package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// SQLite implements Journal on a local SQLite file or a remote libsql database
type SQLite struct {
	db *sql.DB
}

// Open opens the journal at dsn. libsql:// and http(s):// URLs use the libsql
// driver; anything else is treated as a local SQLite path.
func Open(dsn string) (*SQLite, error) {
	driver := "sqlite"
	if isRemote(dsn) {
		driver = "libsql"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return &SQLite{db: db}, nil
}

func isRemote(dsn string) bool {
	for _, scheme := range []string{"libsql://", "http://", "https://", "wss://", "ws://"} {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}

// Initialize creates the events table
func (s *SQLite) Initialize(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			op TEXT NOT NULL,
			name TEXT NOT NULL,
			version TEXT NOT NULL DEFAULT '',
			detail TEXT NOT NULL DEFAULT '',
			at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}
	return nil
}

// Record appends ev and fills in its ID
func (s *SQLite) Record(ctx context.Context, ev *Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO events (op, name, version, detail, at)
		VALUES (?, ?, ?, ?, ?)
	`, string(ev.Op), ev.Name, ev.Version, ev.Detail, ev.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		ev.ID = id
	}
	return nil
}

// List returns up to limit events (all when limit <= 0), newest first
func (s *SQLite) List(ctx context.Context, name string, limit int) ([]*Event, error) {
	query := `SELECT id, op, name, version, detail, at FROM events`
	args := []any{}
	if name != "" {
		query += ` WHERE name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		ev := &Event{}
		var op, at string
		if err := rows.Scan(&ev.ID, &op, &ev.Name, &ev.Version, &ev.Detail, &at); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Op = Op(op)
		if ev.At, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("failed to parse event time: %w", err)
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}
