package events

import (
	"time"

	"go.uber.org/zap"
)

// Subjects published per turn.
const (
	SubjectTurnCompleted = "clive.turn.completed"
	SubjectDanger        = "clive.session.danger"
	SubjectFinal         = "clive.session.final"
)

// Publisher sends a payload to a subject. *Client satisfies it.
type Publisher interface {
	Publish(subject string, data any) error
}

// TurnEvent describes one answered utterance.
type TurnEvent struct {
	SessionID string    `json:"session_id"`
	TurnID    string    `json:"turn_id"`
	Category  string    `json:"category"`
	Bucket    string    `json:"bucket,omitempty"`
	Rule      string    `json:"rule,omitempty"`
	Depth     int       `json:"depth"`
	Danger    bool      `json:"danger"`
	Final     bool      `json:"final"`
	Time      time.Time `json:"time"`
}

// Emitter fans a turn out to its subjects. Publish failures are logged
// and never returned. A nil Publisher makes every call a no-op.
type Emitter struct {
	pub    Publisher
	logger *zap.Logger
}

func NewEmitter(pub Publisher, logger *zap.Logger) *Emitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Emitter{pub: pub, logger: logger.Named("events")}
}

// Turn publishes the completed-turn event, then danger and final when set.
func (e *Emitter) Turn(ev TurnEvent) {
	if e == nil || e.pub == nil {
		return
	}
	e.publish(SubjectTurnCompleted, ev)
	if ev.Danger {
		e.publish(SubjectDanger, ev)
	}
	if ev.Final {
		e.publish(SubjectFinal, ev)
	}
}

func (e *Emitter) publish(subject string, ev TurnEvent) {
	if err := e.pub.Publish(subject, ev); err != nil {
		e.logger.Warn("publish failed",
			zap.String("subject", subject),
			zap.String("session", ev.SessionID),
			zap.Error(err),
		)
	}
}
