//go:build integration

package store

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/clive/internal/logging"
	"github.com/danielpatrickdp/clive/internal/profile"
)

func TestPostgres_RoundTrip(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()
	s, err := NewPostgres(ctx, dbURL)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	defer s.Close()

	id := "integration-" + uuid.New().String()[:8]
	if err := s.SaveSession(ctx, SessionRecord{ID: id, Coach: "Clive", State: sampleState()}); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	defer s.DeleteSession(ctx, id)

	got, err := s.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.State.Iteration != 1 {
		t.Errorf("iteration: got %d", got.State.Iteration)
	}

	if err := s.AppendTurn(ctx, id, profile.Turn{ID: "0_1", Original: "hello there friend"}); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	turns, err := s.ListTurns(ctx, id)
	if err != nil || len(turns) != 1 {
		t.Fatalf("ListTurns: %v %d", err, len(turns))
	}
	if err := s.LogDecision(ctx, logging.DecisionEntry{TurnID: "0_1", SessionID: id, Rule: "h"}); err != nil {
		t.Fatalf("LogDecision: %v", err)
	}

	if _, err := s.GetSession(ctx, "missing-"+id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.DeleteSession(ctx, id); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	var left int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM decision_log WHERE session_id = $1`, id).Scan(&left); err != nil {
		t.Fatalf("count decisions: %v", err)
	}
	if left != 0 {
		t.Errorf("expected decisions removed with the session, got %d", left)
	}
}
