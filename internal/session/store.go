// Package session implements the persistence collaborator for coaching
// sessions. It uses SQLite to store session rows with the four tracker
// structures attached as opaque structured state, plus a per-turn
// record used for status reporting.
//
// The conversational core never issues storage queries itself: it
// receives a loaded Context and returns an updated one, and only the
// fully updated snapshot is written back.
package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// ─── Types ───────────────────────────────────────────────────────────────────

// Session is one coaching session row.
type Session struct {
	ID        string  `json:"id"`
	Role      string  `json:"role,omitempty"`
	Objective string  `json:"objective,omitempty"`
	StartedAt string  `json:"started_at"`
	UpdatedAt string  `json:"updated_at"`
	EndedAt   *string `json:"ended_at,omitempty"`
	Summary   *string `json:"summary,omitempty"`
}

// TurnRecord is the per-turn bookkeeping row behind status reporting.
type TurnRecord struct {
	ID         int64  `json:"id"`
	SessionID  string `json:"session_id"`
	Message    string `json:"message"`
	TopPattern string `json:"top_pattern,omitempty"`
	Scope      string `json:"scope,omitempty"`
	Timing     string `json:"timing,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds session store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default configuration. The data directory
// can be overridden with NORTHSTAR_DATA_DIR.
func DefaultConfig() Config {
	if dir := os.Getenv("NORTHSTAR_DATA_DIR"); dir != "" {
		return Config{DataDir: dir}
	}
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".northstar")}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store persists sessions and their conversational state in SQLite.
type Store struct {
	db  *sql.DB
	cfg Config
}

// New creates a Store with the given configuration. It creates the
// data directory if needed, opens SQLite with WAL mode, and runs
// migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("session: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "sessions.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("session: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("session: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("session: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			role       TEXT NOT NULL DEFAULT '',
			objective  TEXT NOT NULL DEFAULT '',
			context    TEXT NOT NULL DEFAULT '{}',
			started_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			ended_at   TEXT,
			summary    TEXT
		);

		CREATE TABLE IF NOT EXISTS turns (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id  TEXT NOT NULL REFERENCES sessions(id),
			message     TEXT NOT NULL,
			top_pattern TEXT NOT NULL DEFAULT '',
			scope       TEXT NOT NULL DEFAULT '',
			timing      TEXT NOT NULL DEFAULT '',
			created_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Sessions ────────────────────────────────────────────────────────────────

// CreateSession inserts a new session row with its initial context.
func (s *Store) CreateSession(id, role, objective string, ctx *Context) error {
	data, err := json.Marshal(ctx)
	if err != nil {
		return fmt.Errorf("session: marshal context: %w", err)
	}

	now := timeNow().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, role, objective, context, started_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, role, objective, string(data), now, now,
	)
	if err != nil {
		return fmt.Errorf("session: create %q: %w", id, err)
	}
	return nil
}

// GetSession returns the session row, or an error if it doesn't exist.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, role, objective, started_at, updated_at, ended_at, summary FROM sessions WHERE id = ?`, id,
	)

	var sess Session
	if err := row.Scan(&sess.ID, &sess.Role, &sess.Objective, &sess.StartedAt, &sess.UpdatedAt, &sess.EndedAt, &sess.Summary); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %q not found", id)
		}
		return nil, fmt.Errorf("session: get %q: %w", id, err)
	}
	return &sess, nil
}

// LoadContext reads the conversational state attached to a session.
func (s *Store) LoadContext(id string) (*Context, error) {
	row := s.db.QueryRow(`SELECT context FROM sessions WHERE id = ?`, id)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %q not found", id)
		}
		return nil, fmt.Errorf("session: load context for %q: %w", id, err)
	}

	var ctx Context
	if err := json.Unmarshal([]byte(raw), &ctx); err != nil {
		return nil, fmt.Errorf("session: parse context for %q: %w", id, err)
	}
	return &ctx, nil
}

// SaveContext writes the fully updated snapshot back to the session
// row. Callers must only pass complete post-turn state.
func (s *Store) SaveContext(id string, ctx *Context) error {
	data, err := json.Marshal(ctx)
	if err != nil {
		return fmt.Errorf("session: marshal context: %w", err)
	}

	now := timeNow().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE sessions SET context = ?, updated_at = ? WHERE id = ?`,
		string(data), now, id,
	)
	if err != nil {
		return fmt.Errorf("session: save context for %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %q not found", id)
	}
	return nil
}

// EndSession marks a session completed with an optional summary.
func (s *Store) EndSession(id, summary string) error {
	now := timeNow().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE sessions SET ended_at = ?, summary = ?, updated_at = ? WHERE id = ?`,
		now, summary, now, id,
	)
	if err != nil {
		return fmt.Errorf("session: end %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %q not found", id)
	}
	return nil
}

// ─── Turns ───────────────────────────────────────────────────────────────────

// RecordTurn appends one turn's bookkeeping row.
func (s *Store) RecordTurn(rec TurnRecord) (int64, error) {
	now := timeNow().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO turns (session_id, message, top_pattern, scope, timing, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Message, rec.TopPattern, rec.Scope, rec.Timing, now,
	)
	if err != nil {
		return 0, fmt.Errorf("session: record turn: %w", err)
	}
	return res.LastInsertId()
}

// RecentTurns returns up to limit turns for a session, newest first.
func (s *Store) RecentTurns(sessionID string, limit int) ([]TurnRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, session_id, message, top_pattern, scope, timing, created_at
		 FROM turns WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("session: list turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TurnRecord
	for rows.Next() {
		var rec TurnRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Message, &rec.TopPattern, &rec.Scope, &rec.Timing, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("session: scan turn: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
