package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/clive/internal/logging"
	"github.com/danielpatrickdp/clive/internal/profile"
)

// #region schema
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	coach       TEXT NOT NULL,
	state_json  TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS turns (
	id          TEXT NOT NULL,
	session_id  TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	turn_json   TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	PRIMARY KEY (session_id, seq),
	FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);
`
// #endregion schema

// timeFormat sorts lexically, unlike RFC3339Nano which trims trailing zeros.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// #region store-struct
// SQLite stores sessions in a local SQLite file.
type SQLite struct {
	db *sql.DB
}
// #endregion store-struct

// #region constructor
// NewSQLite opens a SQLite database and runs migrations.
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(sqliteSchema + logging.DecisionSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLite{db: db}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *SQLite) DB() *sql.DB {
	return s.db
}
// #endregion close

// #region sessions
// SaveSession inserts or updates a session row.
func (s *SQLite) SaveSession(ctx context.Context, rec SessionRecord) error {
	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, coach, state_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET coach = excluded.coach, state_json = excluded.state_json, updated_at = excluded.updated_at`,
		rec.ID, rec.Coach, string(stateJSON),
		rec.CreatedAt.Format(timeFormat), now.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return nil
}

// GetSession reads one session by id.
func (s *SQLite) GetSession(ctx context.Context, id string) (SessionRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, coach, state_json, created_at, updated_at FROM sessions WHERE id = ?`, id)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return rec, nil
}

// ListSessions returns the most recently updated sessions.
func (s *SQLite) ListSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, coach, state_json, created_at, updated_at
		 FROM sessions ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteSession removes a session with its turns and logged decisions.
func (s *SQLite) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM decision_log WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("delete decisions %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(r rowScanner) (SessionRecord, error) {
	var rec SessionRecord
	var stateJSON, createdStr, updatedStr string
	if err := r.Scan(&rec.ID, &rec.Coach, &stateJSON, &createdStr, &updatedStr); err != nil {
		return SessionRecord{}, err
	}
	if err := json.Unmarshal([]byte(stateJSON), &rec.State); err != nil {
		return SessionRecord{}, fmt.Errorf("unmarshal state: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(timeFormat, createdStr)
	rec.UpdatedAt, _ = time.Parse(timeFormat, updatedStr)
	return rec, nil
}
// #endregion sessions

// #region turns
// AppendTurn stores a turn after the session's existing turns.
func (s *SQLite) AppendTurn(ctx context.Context, sessionID string, turn profile.Turn) error {
	turnJSON, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var seq int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM turns WHERE session_id = ?`, sessionID,
	).Scan(&seq); err != nil {
		return fmt.Errorf("next seq: %w", err)
	}

	created := turn.Time
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO turns (id, session_id, seq, turn_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		turn.ID, sessionID, seq+1, string(turnJSON), created.Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return tx.Commit()
}

// ListTurns returns a session's turns in order.
func (s *SQLite) ListTurns(ctx context.Context, sessionID string) ([]profile.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT turn_json FROM turns WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var out []profile.Turn
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		var t profile.Turn
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
// #endregion turns

// #region decisions
// LogDecision appends to decision_log.
func (s *SQLite) LogDecision(ctx context.Context, entry logging.DecisionEntry) error {
	return logging.LogDecision(ctx, s.db, entry)
}

// DecisionCount returns how many decisions were logged for a session.
func (s *SQLite) DecisionCount(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM decision_log WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count decisions: %w", err)
	}
	return n, nil
}
// #endregion decisions
