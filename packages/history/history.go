// Package history keeps a SQLite log of resolutions and probe runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/abdul-hamid-achik/hitbase/packages/core/target"
	"github.com/abdul-hamid-achik/hitbase/packages/probe"
)

const schema = `
CREATE TABLE IF NOT EXISTS resolutions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  TEXT NOT NULL,
	strategy    TEXT NOT NULL,
	environment TEXT NOT NULL,
	base_url    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS probes (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	url         TEXT NOT NULL,
	ready       INTEGER NOT NULL,
	attempts    INTEGER NOT NULL,
	passed      INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	last_status INTEGER NOT NULL,
	p95_us      INTEGER NOT NULL
);`

// Entry is one logged event, newest first when listed
type Entry struct {
	Kind    string    // "resolve" or "probe"
	At      time.Time
	URL     string
	Detail  string
	Success bool
}

// Store is a history database
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens (creating if needed) a history store.
// Supported formats:
// - sqlite://path/to/history.db
// - sqlite:./history.db
func Open(connectionString string) (*Store, error) {
	dsn, err := parseConnectionString(connectionString)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history: %w", err)
	}

	return &Store{db: db, queryTimeout: 30 * time.Second}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordResolution logs a resolved record
func (s *Store) RecordResolution(ctx context.Context, strategy target.Strategy, environment string, rec target.Record) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolutions (created_at, strategy, environment, base_url) VALUES (?, ?, ?, ?)`,
		formatTime(time.Now()), string(strategy), environment, rec.BaseURL)
	if err != nil {
		return fmt.Errorf("recording resolution: %w", err)
	}
	return nil
}

// RecordProbe logs a probe report
func (s *Store) RecordProbe(ctx context.Context, report *probe.Report) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO probes (id, created_at, url, ready, attempts, passed, failed, last_status, p95_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, formatTime(report.StartedAt), report.URL, report.Ready,
		report.Attempts, report.Passed, report.Failed, report.LastStatus,
		report.Latency.P95.Microseconds())
	if err != nil {
		return fmt.Errorf("recording probe: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT 'resolve', created_at, base_url, strategy || ' ' || environment, 1 FROM resolutions
		UNION ALL
		SELECT 'probe', created_at, url,
		       passed || '/' || attempts || ' passed, p95 ' || p95_us || 'us',
		       CASE WHEN ready = 1 AND failed = 0 AND attempts > 0 THEN 1 ELSE 0 END
		FROM probes
		ORDER BY 2 DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e  Entry
			at string
		)
		if err := rows.Scan(&e.Kind, &at, &e.URL, &e.Detail, &e.Success); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// fixed width so lexical order matches time order
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

func parseConnectionString(connStr string) (string, error) {
	connStr = strings.TrimSpace(connStr)

	switch {
	case strings.HasPrefix(connStr, "sqlite://"):
		connStr = strings.TrimPrefix(connStr, "sqlite://")
	case strings.HasPrefix(connStr, "sqlite:"):
		connStr = strings.TrimPrefix(connStr, "sqlite:")
	default:
		return "", fmt.Errorf("unsupported history store %q (expected sqlite:path)", connStr)
	}
	if connStr == "" {
		return "", fmt.Errorf("history path is empty")
	}
	return connStr, nil
}
