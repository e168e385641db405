package logging

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// #region schema
// DecisionSchema creates the decision_log table on SQLite.
const DecisionSchema = `
CREATE TABLE IF NOT EXISTS decision_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	turn_id     TEXT NOT NULL,
	session_id  TEXT,
	rule        TEXT NOT NULL,
	bucket      TEXT,
	category    TEXT,
	template    TEXT,
	repeated    INTEGER NOT NULL DEFAULT 0,
	record_json TEXT,
	created_at  TEXT NOT NULL
);
`
// #endregion schema

// #region log-decision
// LogDecision writes a selection decision to the decision_log table.
func LogDecision(ctx context.Context, db *sql.DB, entry DecisionEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO decision_log (turn_id, session_id, rule, bucket, category, template, repeated, record_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.TurnID,
		nullIfEmpty(entry.SessionID),
		entry.Rule,
		nullIfEmpty(entry.Bucket),
		nullIfEmpty(entry.Category),
		nullIfEmpty(entry.Template),
		entry.Repeat,
		nullIfEmpty(entry.RecordJSON),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log decision: %w", err)
	}
	return nil
}
// #endregion log-decision

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
// #endregion helpers
