package profile

import (
	"sort"
	"time"

	"github.com/danielpatrickdp/clive/internal/session"
)

// #region accumulator

// Profile accumulates turn records and score dimensions across sessions.
// It survives NewSession and is only emptied by Clear.
type Profile struct {
	turns []Turn
	dims  map[string][]float64
}

// New returns an empty profile.
func New() *Profile {
	return &Profile{dims: map[string][]float64{}}
}

// Add appends a turn and its scores.
func (p *Profile) Add(t Turn) {
	p.turns = append(p.turns, t)
	for k, v := range t.Scores.Dimensions() {
		p.dims[k] = append(p.dims[k], v)
	}
}

// Turns returns a copy of the recorded turns.
func (p *Profile) Turns() []Turn {
	return append([]Turn(nil), p.turns...)
}

// Averages returns the mean of every dimension seen so far.
func (p *Profile) Averages() map[string]float64 {
	out := make(map[string]float64, len(p.dims))
	for k, vs := range p.dims {
		out[k] = average(vs)
	}
	return out
}

// Clear drops every turn and score.
func (p *Profile) Clear() {
	p.turns = nil
	p.dims = map[string][]float64{}
}

// #endregion accumulator

// #region report

// Report is the read-only summary of a conversation.
type Report struct {
	Sessions         int                `json:"sessions"`
	Iterations       int                `json:"iterations"`
	SessionStartTime time.Time          `json:"session_start_time"`
	SessionRunTime   float64            `json:"session_run_time"` // seconds
	FirstTopic       []string           `json:"first_topic"`
	LastTopic        []string           `json:"last_topic"`
	StickyTopic      []string           `json:"sticky_topic"`
	Averages         map[string]float64 `json:"averages"`
	Turns            []Turn             `json:"turns"`
}

// BuildReport combines session state with accumulated scores.
func BuildReport(st *session.State, p *Profile, now time.Time) Report {
	return Report{
		Sessions:         st.Sessions,
		Iterations:       st.Iteration,
		SessionStartTime: st.StartedAt,
		SessionRunTime:   st.RunTime(now).Seconds(),
		FirstTopic:       st.First,
		LastTopic:        st.Last,
		StickyTopic:      st.Sticky,
		Averages:         p.Averages(),
		Turns:            p.Turns(),
	}
}

// DimensionNames returns the report's dimension keys in stable order.
func (r Report) DimensionNames() []string {
	names := make([]string, 0, len(r.Averages))
	for k := range r.Averages {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// #endregion report

func average(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
