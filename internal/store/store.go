package store

import (
	"context"
	"errors"
	"time"

	"github.com/danielpatrickdp/clive/internal/logging"
	"github.com/danielpatrickdp/clive/internal/profile"
	"github.com/danielpatrickdp/clive/internal/session"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("not found")

// #region records
// SessionRecord is a persisted conversation: its id, the coach name and
// the latest decision state.
type SessionRecord struct {
	ID        string
	Coach     string
	State     session.State
	CreatedAt time.Time
	UpdatedAt time.Time
}
// #endregion records

// #region interface
// Store persists sessions, turns and selection decisions.
type Store interface {
	SaveSession(ctx context.Context, rec SessionRecord) error
	GetSession(ctx context.Context, id string) (SessionRecord, error)
	ListSessions(ctx context.Context, limit int) ([]SessionRecord, error)
	DeleteSession(ctx context.Context, id string) error
	AppendTurn(ctx context.Context, sessionID string, turn profile.Turn) error
	ListTurns(ctx context.Context, sessionID string) ([]profile.Turn, error)
	LogDecision(ctx context.Context, entry logging.DecisionEntry) error
	Close() error
}
// #endregion interface

// #region open
// Open picks Postgres when databaseURL is set and SQLite at dbPath otherwise.
func Open(ctx context.Context, databaseURL, dbPath string) (Store, error) {
	if databaseURL != "" {
		return NewPostgres(ctx, databaseURL)
	}
	return NewSQLite(dbPath)
}
// #endregion open
