package conversation

// #region imports
import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/clive/internal/coach"
	"github.com/danielpatrickdp/clive/internal/events"
	"github.com/danielpatrickdp/clive/internal/logging"
	"github.com/danielpatrickdp/clive/internal/profile"
	"github.com/danielpatrickdp/clive/internal/selector"
	"github.com/danielpatrickdp/clive/internal/store"
)

// #endregion

// #region types

// Deps wires a Manager. Store and Emitter may be nil, in which case
// conversations live in memory only and no events are sent.
type Deps struct {
	Store   store.Store
	Emitter *events.Emitter
	Logger  *zap.Logger
	Seed    uint64 // 0 seeds every coach randomly
	// CoachOptions are applied to every coach the manager builds.
	CoachOptions []coach.Option
}

// entry pairs a coach with the lock that keeps its turns and their
// persistence in order. deleted is set under mu once the conversation is
// gone, so a turn queued behind the delete cannot save it back.
type entry struct {
	mu      sync.Mutex
	coach   *coach.Coach
	deleted bool
}

// Manager is the registry of live conversations keyed by session id.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*entry
	deps    Deps
	logger  *zap.Logger
}

// #endregion

// #region constructor

func NewManager(deps Deps) *Manager {
	return &Manager{
		entries: map[string]*entry{},
		deps:    deps,
		logger:  logging.OrNop(deps.Logger).Named("conversation"),
	}
}

func (m *Manager) newCoach(extra ...coach.Option) (*coach.Coach, error) {
	opts := append([]coach.Option{
		coach.WithLogger(m.deps.Logger),
		coach.WithRand(selector.NewRand(m.deps.Seed)),
	}, m.deps.CoachOptions...)
	return coach.New(append(opts, extra...)...)
}

// #endregion

// #region lifecycle

// Create starts a conversation under a fresh UUID and returns the opening
// welcome.
func (m *Manager) Create(ctx context.Context) (string, coach.Response, error) {
	c, err := m.newCoach()
	if err != nil {
		return "", coach.Response{}, fmt.Errorf("new coach: %w", err)
	}
	id := uuid.New().String()
	greeting, err := c.Respond(ctx, "")
	if err != nil {
		return "", coach.Response{}, fmt.Errorf("greet: %w", err)
	}
	if err := m.save(ctx, id, c); err != nil {
		return "", coach.Response{}, err
	}

	m.mu.Lock()
	m.entries[id] = &entry{coach: c}
	m.mu.Unlock()

	m.logger.Info("session created", zap.String("session", id))
	return id, greeting, nil
}

// Delete forgets a conversation and removes its stored rows. It waits for
// a running turn to finish first.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	e, live := m.entries[id]
	delete(m.entries, id)
	m.mu.Unlock()

	if live {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.deleted = true
	}
	if m.deps.Store == nil {
		if !live {
			return fmt.Errorf("session %s: %w", id, store.ErrNotFound)
		}
		return nil
	}
	err := m.deps.Store.DeleteSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) && live {
		return nil
	}
	return err
}

// lookup returns the live entry for id, resuming it from the store when
// it is not in memory.
func (m *Manager) lookup(ctx context.Context, id string) (*entry, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	m.mu.Unlock()
	if ok {
		return e, nil
	}
	if m.deps.Store == nil {
		return nil, fmt.Errorf("session %s: %w", id, store.ErrNotFound)
	}

	rec, err := m.deps.Store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	turns, err := m.deps.Store.ListTurns(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := m.newCoach(coach.WithState(rec.State), coach.WithTurns(turns))
	if err != nil {
		return nil, fmt.Errorf("resume coach: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another caller may have resumed it meanwhile.
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	e = &entry{coach: c}
	m.entries[id] = e
	m.logger.Info("session resumed", zap.String("session", id), zap.Int("turns", len(turns)))
	return e, nil
}

// #endregion

// #region turn

// Turn answers one utterance in the conversation. After the reply is
// computed, persistence and event failures are logged and the reply is
// still returned. A final reply rolls the coach over to a new session.
func (m *Manager) Turn(ctx context.Context, id, text string) (coach.Response, error) {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return coach.Response{}, err
	}
	return m.turn(ctx, id, e, text)
}

func (m *Manager) turn(ctx context.Context, id string, e *entry, text string) (coach.Response, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return coach.Response{}, fmt.Errorf("session %s: %w", id, store.ErrNotFound)
	}

	resp, err := e.coach.Respond(ctx, text)
	if err != nil {
		return coach.Response{}, err
	}

	if !resp.Canned() {
		m.persistTurn(ctx, id, resp)
		m.deps.Emitter.Turn(events.TurnEvent{
			SessionID: id,
			TurnID:    resp.Turn.ID,
			Category:  string(resp.Category),
			Bucket:    string(resp.Selection.Bucket),
			Rule:      resp.Selection.Rule,
			Depth:     resp.Turn.Depth,
			Danger:    resp.Danger,
			Final:     resp.Final,
			Time:      resp.Turn.Time,
		})
	}
	if resp.Final {
		if _, err := e.coach.NewSession(ctx, false); err != nil {
			m.logger.Warn("new session failed", zap.String("session", id), zap.Error(err))
		}
	}
	if err := m.save(ctx, id, e.coach); err != nil {
		m.logger.Error("save session failed", zap.String("session", id), zap.Error(err))
	}
	return resp, nil
}

func (m *Manager) persistTurn(ctx context.Context, id string, resp coach.Response) {
	st := m.deps.Store
	if st == nil {
		return
	}
	if err := st.AppendTurn(ctx, id, *resp.Turn); err != nil {
		m.logger.Error("append turn failed", zap.String("session", id), zap.Error(err))
	}

	recordJSON, err := json.Marshal(resp.Record)
	if err != nil {
		m.logger.Error("marshal selection record", zap.Error(err))
		return
	}
	err = st.LogDecision(ctx, logging.DecisionEntry{
		TurnID:     resp.Turn.ID,
		SessionID:  id,
		Rule:       resp.Selection.Rule,
		Bucket:     string(resp.Selection.Bucket),
		Category:   string(resp.Selection.Category),
		Template:   resp.Selection.Template,
		Repeat:     resp.Record.Previous != "" && resp.Selection.Template == resp.Record.Previous,
		RecordJSON: string(recordJSON),
		CreatedAt:  resp.Turn.Time,
	})
	if err != nil {
		m.logger.Error("log decision failed", zap.String("session", id), zap.Error(err))
	}
}

func (m *Manager) save(ctx context.Context, id string, c *coach.Coach) error {
	if m.deps.Store == nil {
		return nil
	}
	err := m.deps.Store.SaveSession(ctx, store.SessionRecord{ID: id, Coach: c.Name(), State: c.State()})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// #endregion

// #region queries

// Profile reports on a conversation.
func (m *Manager) Profile(ctx context.Context, id string) (profile.Report, error) {
	e, err := m.lookup(ctx, id)
	if err != nil {
		return profile.Report{}, err
	}
	return e.coach.Profile(), nil
}

// Sessions lists stored conversations, newest first.
func (m *Manager) Sessions(ctx context.Context, limit int) ([]store.SessionRecord, error) {
	if m.deps.Store == nil {
		return nil, nil
	}
	return m.deps.Store.ListSessions(ctx, limit)
}

// Live is the number of conversations held in memory.
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Evict drops conversations idle since before cutoff from memory. Stored
// rows are kept, so they resume on the next turn.
func (m *Manager) Evict(cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.entries {
		if e.mu.TryLock() {
			if last := lastActivity(e.coach); last.Before(cutoff) {
				delete(m.entries, id)
				n++
			}
			e.mu.Unlock()
		}
	}
	return n
}

func lastActivity(c *coach.Coach) time.Time {
	r := c.Profile()
	if n := len(r.Turns); n > 0 {
		return r.Turns[n-1].Time
	}
	return r.SessionStartTime
}

// #endregion
