package conversation

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/clive/internal/coach"
	"github.com/danielpatrickdp/clive/internal/events"
	"github.com/danielpatrickdp/clive/internal/language"
	"github.com/danielpatrickdp/clive/internal/store"
)

type recorder struct{ subjects []string }

func (r *recorder) Publish(subject string, _ any) error {
	r.subjects = append(r.subjects, subject)
	return nil
}

func newManager(t *testing.T) (*Manager, *store.SQLite, *recorder) {
	t.Helper()
	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "conv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	rec := &recorder{}
	m := NewManager(Deps{
		Store:   db,
		Emitter: events.NewEmitter(rec, nil),
		Seed:    42,
	})
	return m, db, rec
}

func TestCreate_PersistsAndGreets(t *testing.T) {
	m, db, _ := newManager(t)
	ctx := context.Background()

	id, greeting, err := m.Create(ctx)
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.Contains(t, language.Welcomes, greeting.Reply)

	rec, err := db.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Clive", rec.Coach)
}

func TestTurn_PersistsTurnDecisionAndEvents(t *testing.T) {
	m, db, pub := newManager(t)
	ctx := context.Background()
	id, _, err := m.Create(ctx)
	require.NoError(t, err)

	resp, err := m.Turn(ctx, id, "I am worried about my job")
	require.NoError(t, err)
	assert.Equal(t, "and you are worried about your job", resp.Reflection)

	turns, err := db.ListTurns(ctx, id)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "0_1", turns[0].ID)

	n, err := db.DecisionCount(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var recordJSON string
	require.NoError(t, db.DB().QueryRowContext(ctx,
		`SELECT record_json FROM decision_log WHERE session_id = ?`, id).Scan(&recordJSON))
	assert.Contains(t, recordJSON, `"original":"I am worried about my job"`)

	assert.Equal(t, []string{events.SubjectTurnCompleted}, pub.subjects)

	rec, err := db.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.State.Iteration)
}

func TestTurn_EmptyInputNotPersisted(t *testing.T) {
	m, db, pub := newManager(t)
	ctx := context.Background()
	id, _, err := m.Create(ctx)
	require.NoError(t, err)

	resp, err := m.Turn(ctx, id, "")
	require.NoError(t, err)
	assert.True(t, resp.Canned())

	turns, err := db.ListTurns(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.Empty(t, pub.subjects)
}

func TestTurn_FinalRollsSession(t *testing.T) {
	m, db, pub := newManager(t)
	ctx := context.Background()
	id, _, err := m.Create(ctx)
	require.NoError(t, err)

	resp, err := m.Turn(ctx, id, "ok goodbye then")
	require.NoError(t, err)
	assert.True(t, resp.Final)
	assert.Contains(t, language.Finals, resp.Reply)
	assert.Equal(t, []string{events.SubjectTurnCompleted, events.SubjectFinal}, pub.subjects)

	rec, err := db.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.State.Sessions)
	assert.Equal(t, 0, rec.State.Iteration)

	report, err := m.Profile(ctx, id)
	require.NoError(t, err)
	assert.Len(t, report.Turns, 1, "profile survives the new session")
}

func TestTurn_ResumesFromStore(t *testing.T) {
	db, err := store.NewSQLite(filepath.Join(t.TempDir(), "resume.db"))
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	first := NewManager(Deps{Store: db, Seed: 1})
	id, _, err := first.Create(ctx)
	require.NoError(t, err)
	_, err = first.Turn(ctx, id, "I am worried about my job")
	require.NoError(t, err)

	// A second manager over the same store, as after a restart.
	second := NewManager(Deps{Store: db, Seed: 1})
	assert.Equal(t, 0, second.Live())

	resp, err := second.Turn(ctx, id, "it keeps me awake at night")
	require.NoError(t, err)
	assert.Equal(t, "0_2", resp.Turn.ID)
	assert.Equal(t, 1, second.Live())

	report, err := second.Profile(ctx, id)
	require.NoError(t, err)
	assert.Len(t, report.Turns, 2)
	assert.Equal(t, 2, report.Iterations)
}

func TestUnknownSession(t *testing.T) {
	m, _, _ := newManager(t)
	_, err := m.Turn(context.Background(), "nope", "hello")
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)

	mem := NewManager(Deps{})
	_, err = mem.Profile(context.Background(), "nope")
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
}

func TestDelete(t *testing.T) {
	m, db, _ := newManager(t)
	ctx := context.Background()
	id, _, err := m.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, id))
	assert.Equal(t, 0, m.Live())
	_, err = db.GetSession(ctx, id)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.True(t, errors.Is(m.Delete(ctx, id), store.ErrNotFound))
}

func TestDelete_WaitsForRunningTurn(t *testing.T) {
	m, db, _ := newManager(t)
	ctx := context.Background()
	id, _, err := m.Create(ctx)
	require.NoError(t, err)
	e, err := m.lookup(ctx, id)
	require.NoError(t, err)

	// Hold the entry as a turn in flight would.
	e.mu.Lock()
	done := make(chan error, 1)
	go func() { done <- m.Delete(ctx, id) }()
	require.Eventually(t, func() bool { return m.Live() == 0 }, time.Second, time.Millisecond)

	// The turn's closing upsert lands before the delete runs.
	require.NoError(t, m.save(ctx, id, e.coach))
	e.mu.Unlock()
	require.NoError(t, <-done)

	_, err = db.GetSession(ctx, id)
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
	recs, err := m.Sessions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestTurn_OnDeletedEntry(t *testing.T) {
	m, db, _ := newManager(t)
	ctx := context.Background()
	id, _, err := m.Create(ctx)
	require.NoError(t, err)
	e, err := m.lookup(ctx, id)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, id))
	_, err = m.turn(ctx, id, e, "I am worried about my job")
	assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)

	_, err = db.GetSession(ctx, id)
	assert.True(t, errors.Is(err, store.ErrNotFound), "deleted session must stay deleted")
	n, err := db.DecisionCount(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDelete_RemovesDecisions(t *testing.T) {
	m, db, _ := newManager(t)
	ctx := context.Background()
	id, _, err := m.Create(ctx)
	require.NoError(t, err)
	_, err = m.Turn(ctx, id, "I am worried about my job")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, id))
	n, err := db.DecisionCount(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInMemoryManager(t *testing.T) {
	m := NewManager(Deps{Seed: 3, CoachOptions: []coach.Option{coach.WithName("Tess")}})
	ctx := context.Background()
	id, _, err := m.Create(ctx)
	require.NoError(t, err)
	_, err = m.Turn(ctx, id, "I feel stuck at work")
	require.NoError(t, err)

	sessions, err := m.Sessions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)
	require.NoError(t, m.Delete(ctx, id))
}

func TestSessions_NewestFirst(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	var ids []string
	for i := 0; i < 3; i++ {
		id, _, err := m.Create(ctx)
		require.NoError(t, err)
		ids = append(ids, id)
		time.Sleep(2 * time.Millisecond)
	}
	recs, err := m.Sessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	slices.Reverse(ids)
	for i, r := range recs {
		assert.Equal(t, ids[i], r.ID)
	}
}

func TestEvict(t *testing.T) {
	m, _, _ := newManager(t)
	ctx := context.Background()
	id, _, err := m.Create(ctx)
	require.NoError(t, err)

	assert.Equal(t, 0, m.Evict(time.Now().Add(-time.Hour)))
	assert.Equal(t, 1, m.Evict(time.Now().Add(time.Hour)))
	assert.Equal(t, 0, m.Live())

	// Evicted conversations come back from the store.
	_, err = m.Turn(ctx, id, "hello again coach")
	require.NoError(t, err)
}
