// Package store keeps the activity log in an in-memory SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/verte-zerg/symphony/internal/activity"
	"github.com/verte-zerg/symphony/internal/soundbank"

	_ "modernc.org/sqlite" // SQLite driver.
)

const memoryDSN = "file::memory:"

// Payload discriminators stored in the entries table.
const (
	payloadNone   = ""
	payloadNote   = "note"
	payloadPoint  = "point"
	payloadMotion = "motion"
	payloadScroll = "scroll"
	payloadFocus  = "focus"
)

// Store is an append-only activity log. Entries are never updated; the log
// can only be cleared as a whole.
type Store struct {
	db *sql.DB
}

// Open creates an empty in-memory log. The data lives as long as the Store.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database and discards the log.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			wall_clock TEXT NOT NULL,
			monotonic_ms INTEGER NOT NULL,
			kind TEXT NOT NULL,
			details TEXT NOT NULL,
			tag TEXT NOT NULL,
			payload TEXT NOT NULL,
			bank INTEGER NOT NULL DEFAULT 0,
			key TEXT NOT NULL DEFAULT '',
			x INTEGER NOT NULL DEFAULT 0,
			y INTEGER NOT NULL DEFAULT 0,
			width INTEGER NOT NULL DEFAULT 0,
			position INTEGER NOT NULL DEFAULT 0,
			focus INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_kind ON entries(kind);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

type row struct {
	payload  string
	bank     int
	key      string
	x, y     int
	width    int
	position int
	focus    int
}

func encodePayload(p activity.Payload) row {
	switch v := p.(type) {
	case activity.Note:
		return row{payload: payloadNote, bank: int(v.Bank), key: v.Key}
	case activity.Point:
		return row{payload: payloadPoint, x: v.X, y: v.Y}
	case activity.Motion:
		return row{payload: payloadMotion, x: v.X, y: v.Y, width: v.Width}
	case activity.ScrollPos:
		return row{payload: payloadScroll, position: v.Position}
	case activity.Focus:
		return row{payload: payloadFocus, focus: int(v.Change)}
	default:
		return row{payload: payloadNone}
	}
}

func (r row) decode() activity.Payload {
	switch r.payload {
	case payloadNote:
		return activity.Note{Bank: soundbank.Bank(r.bank), Key: r.key}
	case payloadPoint:
		return activity.Point{X: r.x, Y: r.y}
	case payloadMotion:
		return activity.Motion{X: r.x, Y: r.y, Width: r.width}
	case payloadScroll:
		return activity.ScrollPos{Position: r.position}
	case payloadFocus:
		return activity.Focus{Change: activity.FocusChange(r.focus)}
	default:
		return nil
	}
}

// Append adds e to the end of the log.
func (s *Store) Append(ctx context.Context, e activity.Entry) error {
	r := encodePayload(e.Payload)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (wall_clock, monotonic_ms, kind, details, tag, payload, bank, key, x, y, width, position, focus)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.WallClock.Format(time.RFC3339Nano),
		e.MonotonicMs,
		string(e.Kind),
		e.Details,
		e.Tag,
		r.payload,
		r.bank,
		r.key,
		r.x,
		r.y,
		r.width,
		r.position,
		r.focus,
	)
	if err != nil {
		return fmt.Errorf("failed to append entry: %w", err)
	}
	return nil
}

// Entries returns the whole log in append order.
func (s *Store) Entries(ctx context.Context) ([]activity.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT wall_clock, monotonic_ms, kind, details, tag, payload, bank, key, x, y, width, position, focus
		 FROM entries
		 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []activity.Entry
	for rows.Next() {
		var e activity.Entry
		var wall, kind string
		var r row
		if err := rows.Scan(&wall, &e.MonotonicMs, &kind, &e.Details, &e.Tag, &r.payload, &r.bank, &r.key, &r.x, &r.y, &r.width, &r.position, &r.focus); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, wall)
		if err != nil {
			return nil, err
		}
		e.WallClock = parsed
		e.Kind = activity.Kind(kind)
		e.Payload = r.decode()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Len returns the number of entries.
func (s *Store) Len(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("failed to clear log: %w", err)
	}
	return nil
}

// KindCount is the number of entries of one kind.
type KindCount struct {
	Kind  activity.Kind
	Count int
}

// CountByKind aggregates the log per kind, most frequent first.
func (s *Store) CountByKind(ctx context.Context) ([]KindCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) AS n
		 FROM entries
		 GROUP BY kind
		 ORDER BY n DESC, kind ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []KindCount
	for rows.Next() {
		var kc KindCount
		var kind string
		if err := rows.Scan(&kind, &kc.Count); err != nil {
			return nil, err
		}
		kc.Kind = activity.Kind(kind)
		result = append(result, kc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
