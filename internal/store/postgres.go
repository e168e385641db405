package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/danielpatrickdp/clive/internal/logging"
	"github.com/danielpatrickdp/clive/internal/profile"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	coach       TEXT NOT NULL,
	state_json  JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS turns (
	id          TEXT NOT NULL,
	session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	turn_json   JSONB NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (session_id, seq)
);

CREATE TABLE IF NOT EXISTS decision_log (
	id          BIGSERIAL PRIMARY KEY,
	turn_id     TEXT NOT NULL,
	session_id  TEXT,
	rule        TEXT NOT NULL,
	bucket      TEXT,
	category    TEXT,
	template    TEXT,
	repeated    BOOLEAN NOT NULL DEFAULT FALSE,
	record_json JSONB,
	created_at  TIMESTAMPTZ NOT NULL
);
`

// Postgres stores sessions in PostgreSQL through a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects, pings and migrates.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the pool.
func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

func (s *Postgres) SaveSession(ctx context.Context, rec SessionRecord) error {
	stateJSON, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO sessions (id, coach, state_json, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET coach = EXCLUDED.coach, state_json = EXCLUDED.state_json, updated_at = EXCLUDED.updated_at`,
		rec.ID, rec.Coach, stateJSON, rec.CreatedAt, now,
	)
	if err != nil {
		return fmt.Errorf("save session %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Postgres) GetSession(ctx context.Context, id string) (SessionRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, coach, state_json, created_at, updated_at FROM sessions WHERE id = $1`, id)
	rec, err := scanPgSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return rec, nil
}

func (s *Postgres) ListSessions(ctx context.Context, limit int) ([]SessionRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, coach, state_json, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		rec, err := scanPgSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteSession removes a session with its turns and logged decisions.
func (s *Postgres) DeleteSession(ctx context.Context, id string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM decision_log WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("delete decisions %s: %w", id, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	return tx.Commit(ctx)
}

func scanPgSession(r pgx.Row) (SessionRecord, error) {
	var rec SessionRecord
	var stateJSON []byte
	if err := r.Scan(&rec.ID, &rec.Coach, &stateJSON, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return SessionRecord{}, err
	}
	if err := json.Unmarshal(stateJSON, &rec.State); err != nil {
		return SessionRecord{}, fmt.Errorf("unmarshal state: %w", err)
	}
	return rec, nil
}

func (s *Postgres) AppendTurn(ctx context.Context, sessionID string, turn profile.Turn) error {
	turnJSON, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}
	created := turn.Time
	if created.IsZero() {
		created = time.Now().UTC()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var seq int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(seq), 0) FROM turns WHERE session_id = $1`, sessionID,
	).Scan(&seq); err != nil {
		return fmt.Errorf("next seq: %w", err)
	}
	_, err = tx.Exec(ctx, `
		INSERT INTO turns (id, session_id, seq, turn_json, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		turn.ID, sessionID, seq+1, turnJSON, created,
	)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Postgres) ListTurns(ctx context.Context, sessionID string) ([]profile.Turn, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT turn_json FROM turns WHERE session_id = $1 ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list turns: %w", err)
	}
	defer rows.Close()

	var out []profile.Turn
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		var t profile.Turn
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("unmarshal turn: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Postgres) LogDecision(ctx context.Context, entry logging.DecisionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	var record any
	if entry.RecordJSON != "" {
		record = entry.RecordJSON
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO decision_log (turn_id, session_id, rule, bucket, category, template, repeated, record_json, created_at)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9)`,
		entry.TurnID, entry.SessionID, entry.Rule, entry.Bucket, entry.Category, entry.Template,
		entry.Repeat, record, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}
