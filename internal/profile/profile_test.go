package profile

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/danielpatrickdp/clive/internal/questions"
	"github.com/danielpatrickdp/clive/internal/session"
)

// #region heuristic-tests

func TestHeuristic_Empty(t *testing.T) {
	s, err := NewHeuristic().Score(context.Background(), "")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if s.Affect != 0 || s.Intensity != 0 || s.Temporal != (Temporal{}) {
		t.Errorf("expected zero scores, got %+v", s)
	}
}

func TestHeuristic_NegativeAffect(t *testing.T) {
	s, _ := NewHeuristic().Score(context.Background(), "I am so worried and angry")
	if s.Affect >= 0 {
		t.Errorf("expected negative affect, got %f", s.Affect)
	}
	if s.Intensity <= 0 {
		t.Errorf("expected intensity, got %f", s.Intensity)
	}
	if s.Wellbeing[NegPositiveEmotion] <= 0 {
		t.Errorf("expected NEG_P > 0, got %f", s.Wellbeing[NegPositiveEmotion])
	}
}

func TestHeuristic_PositiveAffect(t *testing.T) {
	s, _ := NewHeuristic().Score(context.Background(), "I feel happy and calm with my family")
	if s.Affect <= 0 {
		t.Errorf("expected positive affect, got %f", s.Affect)
	}
	if s.Wellbeing[PosRelationships] <= 0 {
		t.Errorf("expected POS_R > 0, got %f", s.Wellbeing[PosRelationships])
	}
}

func TestHeuristic_TemporalOrientation(t *testing.T) {
	h := NewHeuristic()
	present, _ := h.Score(context.Background(), "i want peace")
	if present.Temporal != (Temporal{Present: 1}) {
		t.Errorf("expected fully present, got %+v", present.Temporal)
	}
	future, _ := h.Score(context.Background(), "tomorrow i will start again")
	if future.Temporal.Future <= future.Temporal.Past {
		t.Errorf("expected future-leaning, got %+v", future.Temporal)
	}
	sum := future.Temporal.Past + future.Temporal.Present + future.Temporal.Future
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("orientation should sum to 1, got %f", sum)
	}
}

func TestHeuristic_Bounds(t *testing.T) {
	s, _ := NewHeuristic().Score(context.Background(), "very very very happy happy happy")
	for k, v := range s.Dimensions() {
		if v < -1 || v > 1 {
			t.Errorf("%s out of range: %f", k, v)
		}
	}
}

// #endregion heuristic-tests

// #region profile-tests

func TestProfile_Averages(t *testing.T) {
	p := New()
	p.Add(Turn{ID: "0_1", Scores: Scores{Affect: 0.5, Wellbeing: map[string]float64{PosMeaning: 1}}})
	p.Add(Turn{ID: "0_2", Scores: Scores{Affect: -0.1, Wellbeing: map[string]float64{PosMeaning: 0}}})

	avg := p.Averages()
	if math.Abs(avg["affect"]-0.2) > 1e-9 {
		t.Errorf("affect average: got %f, want 0.2", avg["affect"])
	}
	if avg[PosMeaning] != 0.5 {
		t.Errorf("POS_M average: got %f, want 0.5", avg[PosMeaning])
	}
	if len(p.Turns()) != 2 {
		t.Errorf("turns: got %d", len(p.Turns()))
	}

	p.Clear()
	if len(p.Turns()) != 0 || len(p.Averages()) != 0 {
		t.Error("expected Clear to empty the profile")
	}
}

func TestBuildReport(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	st := session.New(start)
	st.Advance(3)
	st.BeginTurn()
	st.Record("and what kind of {ITEM1}?", questions.CategoryAttributes, "job", "")

	p := New()
	p.Add(Turn{ID: "0_1", Scores: Scores{Intensity: 0.4}})

	r := BuildReport(st, p, start.Add(30*time.Second))
	if r.Iterations != 1 || r.Sessions != 0 {
		t.Errorf("counters: %+v", r)
	}
	if r.SessionRunTime != 30 {
		t.Errorf("run time: got %f, want 30", r.SessionRunTime)
	}
	if len(r.FirstTopic) != 1 || r.FirstTopic[0] != "job" {
		t.Errorf("first topic: got %v", r.FirstTopic)
	}
	if r.Averages["intensity"] != 0.4 {
		t.Errorf("intensity: got %f", r.Averages["intensity"])
	}
	names := r.DimensionNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("dimension names not sorted: %v", names)
		}
	}
}

// #endregion profile-tests
