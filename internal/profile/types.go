package profile

import (
	"context"
	"time"

	"github.com/danielpatrickdp/clive/internal/lexicon"
	"github.com/danielpatrickdp/clive/internal/questions"
)

// #region scorer-interface

// Scorer produces psycholinguistic scores for one utterance. Scores feed
// session reports only and never influence question selection.
type Scorer interface {
	Score(ctx context.Context, sentence string) (Scores, error)
}

// #endregion scorer-interface

// #region scores

// Temporal is the share of past, present and future orientation.
type Temporal struct {
	Past    float64 `json:"past"`
	Present float64 `json:"present"`
	Future  float64 `json:"future"`
}

// Scores is one utterance's score vector.
type Scores struct {
	Age       float64            `json:"age"`
	Gender    float64            `json:"gender"` // <0 male-leaning, >0 female-leaning
	Temporal  Temporal           `json:"temporal"`
	Optimism  float64            `json:"optimism"`
	Affect    float64            `json:"affect"`
	Intensity float64            `json:"intensity"`
	Wellbeing map[string]float64 `json:"wellbeing,omitempty"` // POS_P .. NEG_A
}

// Wellbeing dimension keys: positive and negative sides of the PERMA model.
const (
	PosPositiveEmotion = "POS_P"
	PosEngagement      = "POS_E"
	PosRelationships   = "POS_R"
	PosMeaning         = "POS_M"
	PosAccomplishment  = "POS_A"
	NegPositiveEmotion = "NEG_P"
	NegEngagement      = "NEG_E"
	NegRelationships   = "NEG_R"
	NegMeaning         = "NEG_M"
	NegAccomplishment  = "NEG_A"
)

// Dimensions flattens the score vector into named values for averaging.
func (s Scores) Dimensions() map[string]float64 {
	out := map[string]float64{
		"age":       s.Age,
		"gender":    s.Gender,
		"past":      s.Temporal.Past,
		"present":   s.Temporal.Present,
		"future":    s.Temporal.Future,
		"optimism":  s.Optimism,
		"affect":    s.Affect,
		"intensity": s.Intensity,
	}
	for k, v := range s.Wellbeing {
		out[k] = v
	}
	return out
}

// #endregion scores

// #region turn

// Turn is the record of one answered utterance.
type Turn struct {
	ID         string             `json:"id"` // <session>_<iteration>
	SessionID  string             `json:"session_id,omitempty"`
	Session    int                `json:"session"`
	Iteration  int                `json:"iteration"`
	Time       time.Time          `json:"time"`
	Depth      int                `json:"depth"`
	Category   questions.Category `json:"category"`
	Bucket     questions.Bucket   `json:"bucket"`
	Template   string             `json:"template"`
	Question   string             `json:"question"`
	Reflection string             `json:"reflection,omitempty"`
	Reply      string             `json:"reply"`
	Original   string             `json:"original"`
	Cleaned    string             `json:"cleaned"`
	Tokens     []string           `json:"tokens"`
	Items      lexicon.ItemSet    `json:"items"`
	Scores     Scores             `json:"scores"`
	Danger     bool               `json:"danger"`
	Final      bool               `json:"final"`
}

// #endregion turn
