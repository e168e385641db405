package coach

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/clive/internal/config"
	"github.com/danielpatrickdp/clive/internal/language"
	"github.com/danielpatrickdp/clive/internal/lexicon"
	"github.com/danielpatrickdp/clive/internal/logging"
	"github.com/danielpatrickdp/clive/internal/profile"
	"github.com/danielpatrickdp/clive/internal/questions"
	"github.com/danielpatrickdp/clive/internal/reflection"
	"github.com/danielpatrickdp/clive/internal/selector"
	"github.com/danielpatrickdp/clive/internal/session"
	"github.com/danielpatrickdp/clive/internal/special"
)

// #endregion

// ErrNoResponse is returned when a turn produced no reply text.
var ErrNoResponse = errors.New("no response computed")

// #region response

// Response is the result of one turn.
type Response struct {
	Reply      string             `json:"reply"`
	Reflection string             `json:"reflection,omitempty"`
	Question   string             `json:"question"`
	Category   questions.Category `json:"category"`
	Danger     bool               `json:"danger"`
	Final      bool               `json:"final"`

	// Set for answered utterances, nil for canned replies.
	Turn      *profile.Turn            `json:"-"`
	Selection *selector.Selection      `json:"-"`
	Record    *logging.SelectionRecord `json:"-"`
}

// Canned reports whether the reply answered empty input.
func (r Response) Canned() bool {
	return r.Turn == nil
}

// #endregion

// #region coach-struct

// Coach runs Clean Language turns for one conversation. Turns are
// serialized by an internal mutex.
type Coach struct {
	mu        sync.Mutex
	name      string
	opts      config.Options
	extractor lexicon.Extractor
	scorer    profile.Scorer
	detector  *special.Detector
	bank      *questions.Bank
	rnd       selector.Rand
	selector  *selector.Selector
	state     *session.State
	profile   *profile.Profile
	now       func() time.Time
	logger    *zap.Logger
	restored  []profile.Turn
}

// Option configures a Coach.
type Option func(*Coach)

// WithName sets the coach's display name.
func WithName(name string) Option { return func(c *Coach) { c.name = name } }

// WithOptions replaces the default reply options.
func WithOptions(o config.Options) Option { return func(c *Coach) { c.opts = o } }

func WithExtractor(e lexicon.Extractor) Option { return func(c *Coach) { c.extractor = e } }

func WithScorer(s profile.Scorer) Option { return func(c *Coach) { c.scorer = s } }

func WithDetector(d *special.Detector) Option { return func(c *Coach) { c.detector = d } }

// WithBank replaces the built-in question bank. The bank is validated by New.
func WithBank(b *questions.Bank) Option { return func(c *Coach) { c.bank = b } }

// WithRand sets the single random source used for every draw.
func WithRand(r selector.Rand) Option { return func(c *Coach) { c.rnd = r } }

func WithClock(now func() time.Time) Option { return func(c *Coach) { c.now = now } }

func WithLogger(l *zap.Logger) Option { return func(c *Coach) { c.logger = l } }

// WithState resumes a persisted session state.
func WithState(st session.State) Option {
	return func(c *Coach) {
		s := st
		c.state = &s
	}
}

// WithTurns seeds the profile with turns restored from storage.
func WithTurns(turns []profile.Turn) Option {
	return func(c *Coach) { c.restored = append(c.restored, turns...) }
}

// #endregion

// #region constructor

// New creates a Coach. Unset collaborators fall back to the in-process
// tagger and scorer, the built-in bank and a randomly seeded source.
func New(opts ...Option) (*Coach, error) {
	c := &Coach{
		name: "Clive",
		opts: config.DefaultOptions(),
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(c)
	}
	if err := c.opts.Validate(); err != nil {
		return nil, fmt.Errorf("coach options: %w", err)
	}
	if c.bank == nil {
		c.bank = questions.DefaultBank()
	} else if err := c.bank.Validate(); err != nil {
		return nil, err
	}
	if c.extractor == nil {
		c.extractor = lexicon.NewTagger()
	}
	if c.scorer == nil {
		c.scorer = profile.NewHeuristic()
	}
	if c.detector == nil {
		c.detector = special.NewDetector(nil, nil)
	}
	if c.rnd == nil {
		c.rnd = selector.NewRand(0)
	}
	c.logger = logging.OrNop(c.logger).Named("coach")
	c.selector = selector.New(c.bank, c.rnd, c.logger)
	if c.state == nil {
		c.state = session.New(c.now())
	}
	c.profile = profile.New()
	for _, t := range c.restored {
		c.profile.Add(t)
	}
	c.restored = nil
	return c, nil
}

// #endregion

// #region respond

// Respond answers one utterance. Empty or whitespace-only input gets a
// canned welcome or "unknown" prompt. Extraction and scoring failures are
// logged and the turn continues without them.
func (c *Coach) Respond(ctx context.Context, utterance string) (Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.respond(ctx, utterance)
	if err != nil {
		return Response{}, err
	}
	if resp.Reply == "" {
		return Response{}, ErrNoResponse
	}
	return resp, nil
}

func (c *Coach) respond(ctx context.Context, utterance string) (Response, error) {
	st := c.state
	st.Advance(c.opts.MaxDepth)

	if strings.TrimSpace(utterance) == "" {
		return c.canned(), nil
	}

	st.BeginTurn()
	cleaned := lexicon.Clean(utterance)
	tokens := lexicon.Tokenize(cleaned, c.opts.RemoveStopWords)
	specials := c.detector.Detect(tokens)

	var refl string
	if len(tokens) > 2 {
		refl = reflection.Build(tokens, c.opts.TrimFirstConnective)
	}

	items, err := c.extractor.Extract(ctx, lexicon.Normalize(utterance))
	if err != nil {
		c.logger.Warn("extraction failed, continuing without items", zap.Error(err))
		items = lexicon.ItemSet{}
	}

	sticky := append([]string(nil), st.Sticky...)
	previous := st.LastQuestion
	sel, err := c.selector.Select(selector.Input{
		Items:      items,
		Sticky:     sticky,
		Plurals:    st.Plurals,
		Previous:   previous,
		QuoteItems: c.opts.QuoteItems,
	})
	if err != nil {
		return Response{}, fmt.Errorf("select question: %w", err)
	}
	st.Record(sel.Template, sel.Category, sel.Item1, sel.Item2)
	st.RememberPlurals(items)

	question := sel.Text
	if c.opts.TrimSecondConnective {
		question = strings.TrimPrefix(question, reflection.Connective)
	}
	reply := question
	if refl != "" {
		reply = refl + ", " + question
	}
	if specials.Final {
		reply = pickString(c.rnd, language.Finals)
	}

	scores, err := c.scorer.Score(ctx, utterance)
	if err != nil {
		c.logger.Warn("scoring failed", zap.Error(err))
		scores = profile.Scores{}
	}

	turn := profile.Turn{
		ID:         fmt.Sprintf("%d_%d", st.Sessions, st.Iteration),
		Session:    st.Sessions,
		Iteration:  st.Iteration,
		Time:       c.now(),
		Depth:      st.Depth,
		Category:   sel.Category,
		Bucket:     sel.Bucket,
		Template:   sel.Template,
		Question:   question,
		Reflection: refl,
		Reply:      reply,
		Original:   utterance,
		Cleaned:    cleaned,
		Tokens:     tokens,
		Items:      items,
		Scores:     scores,
		Danger:     specials.Danger,
		Final:      specials.Final,
	}
	c.profile.Add(turn)

	record := logging.SelectionRecord{
		TurnID:     turn.ID,
		Original:   utterance,
		Cleaned:    cleaned,
		Depth:      st.Depth,
		Nouns:      items.Nouns,
		Verbs:      items.Verbs,
		Adjectives: items.Adjectives,
		Entities:   items.Entities,
		Tense:      string(items.Tense),
		Sticky:     sticky,
		Previous:   previous,
		Rule:       sel.Rule,
		Bucket:     string(sel.Bucket),
		Category:   string(sel.Category),
		Template:   sel.Template,
		Item1:      sel.Item1,
		Item2:      sel.Item2,
		Question:   question,
	}

	c.logger.Info("turn",
		zap.String("turn", turn.ID),
		zap.Int("depth", st.Depth),
		zap.String("rule", sel.Rule),
		zap.String("category", string(sel.Category)),
		zap.Bool("danger", specials.Danger),
		zap.Bool("final", specials.Final),
	)

	return Response{
		Reply:      reply,
		Reflection: refl,
		Question:   question,
		Category:   sel.Category,
		Danger:     specials.Danger,
		Final:      specials.Final,
		Turn:       &turn,
		Selection:  &sel,
		Record:     &record,
	}, nil
}

// canned answers empty input: a welcome at the start of a session,
// otherwise an "unknown" prompt.
func (c *Coach) canned() Response {
	category, pool := questions.CategoryUnknown, language.Unknowns
	if c.state.AtStart() {
		category, pool = questions.CategoryWelcome, language.Welcomes
	}
	text := pickString(c.rnd, pool)
	c.state.RecordCanned(category, text)
	return Response{Reply: text, Question: text, Category: category}
}

// #endregion

// #region sessions

// NewSession starts the next session. Turn state is cleared, the profile
// is kept. With greet set the opening welcome is returned.
func (c *Coach) NewSession(ctx context.Context, greet bool) (Response, error) {
	c.mu.Lock()
	c.state.NextSession(c.now())
	c.mu.Unlock()
	if !greet {
		return Response{}, nil
	}
	return c.Respond(ctx, "")
}

// Reset clears session state and the profile.
func (c *Coach) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = session.New(c.now())
	c.profile.Clear()
}

// State returns a copy of the current session state.
func (c *Coach) State() session.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.state
}

// Profile reports the session counters and averaged scores.
func (c *Coach) Profile() profile.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return profile.BuildReport(c.state, c.profile, c.now())
}

// Name is the coach's display name.
func (c *Coach) Name() string { return c.name }

// Options returns the active options.
func (c *Coach) Options() config.Options { return c.opts }

// #endregion

func pickString(r selector.Rand, xs []string) string {
	return xs[r.IntN(len(xs))]
}
