package codec

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/clive/internal/lexicon"
	"github.com/danielpatrickdp/clive/internal/profile"
)

// #region mock
type mockLexiconService struct {
	extractResp *structpb.Struct
	extractErr  error
	scoreResp   *structpb.Struct
	scoreErr    error

	lastSentence string
}

func (m *mockLexiconService) Extract(_ context.Context, in *structpb.Struct, _ ...grpc.CallOption) (*structpb.Struct, error) {
	m.lastSentence, _ = sentenceOf(in)
	return m.extractResp, m.extractErr
}

func (m *mockLexiconService) Score(_ context.Context, in *structpb.Struct, _ ...grpc.CallOption) (*structpb.Struct, error) {
	m.lastSentence, _ = sentenceOf(in)
	return m.scoreResp, m.scoreErr
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	return s
}

type fixedExtractor struct{ items lexicon.ItemSet }

func (f fixedExtractor) Extract(context.Context, string) (lexicon.ItemSet, error) {
	return f.items, nil
}

type brokenScorer struct{}

func (brokenScorer) Score(context.Context, string) (profile.Scores, error) {
	return profile.Scores{}, errors.New("model not loaded")
}

// #endregion mock

// #region constructor-tests
func TestNewClient_LazyDial(t *testing.T) {
	client, err := NewClient("localhost:0")
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	defer client.Close()
}

func TestNewClientWithService(t *testing.T) {
	c := NewClientWithService(&mockLexiconService{})
	if c == nil || c.client == nil {
		t.Fatal("expected client with injected service")
	}
	if err := c.Close(); err != nil {
		t.Errorf("close without conn: %v", err)
	}
}

// #endregion constructor-tests

// #region extract-tests
func TestExtract_Success(t *testing.T) {
	mock := &mockLexiconService{
		extractResp: mustStruct(t, map[string]any{
			"nouns":      []any{"rules", "job"},
			"verbs":      []any{"worried"},
			"adjectives": []any{},
			"entities":   []any{"London"},
			"plurals":    map[string]any{"rules": true},
			"tense":      "past",
		}),
	}
	c := NewClientWithService(mock)

	items, err := c.Extract(context.Background(), "the rules at my job in london worried me")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := lexicon.ItemSet{
		Nouns:      []string{"rules", "job"},
		Verbs:      []string{"worried"},
		Adjectives: []string{},
		Entities:   []string{"London"},
		Plurals:    map[string]bool{"rules": true},
		Tense:      lexicon.TensePast,
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if !items.IsPlural("rules") || items.IsPlural("job") {
		t.Error("plurality not carried")
	}
	if mock.lastSentence != "the rules at my job in london worried me" {
		t.Errorf("sentence not sent: %q", mock.lastSentence)
	}
}

func TestExtract_UnknownTenseDefaultsPresent(t *testing.T) {
	mock := &mockLexiconService{extractResp: mustStruct(t, map[string]any{"tense": "pluperfect"})}
	items, err := NewClientWithService(mock).Extract(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items.Tense != lexicon.TensePresent {
		t.Errorf("tense: got %q", items.Tense)
	}
}

func TestExtract_Error(t *testing.T) {
	mock := &mockLexiconService{extractErr: errors.New("rpc failed")}
	_, err := NewClientWithService(mock).Extract(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, mock.extractErr) {
		t.Errorf("expected wrapped rpc error, got: %v", err)
	}
}

func TestExtract_BadShape(t *testing.T) {
	mock := &mockLexiconService{extractResp: mustStruct(t, map[string]any{"nouns": "not a list"})}
	if _, err := NewClientWithService(mock).Extract(context.Background(), "x"); err == nil {
		t.Fatal("expected decode error")
	}
}

// #endregion extract-tests

// #region score-tests
func TestScore_Success(t *testing.T) {
	mock := &mockLexiconService{
		scoreResp: mustStruct(t, map[string]any{
			"affect":    -0.4,
			"optimism":  0.1,
			"temporal":  map[string]any{"past": 0.2, "present": 0.7, "future": 0.1},
			"wellbeing": map[string]any{"NEG_A": 0.3},
		}),
	}
	scores, err := NewClientWithService(mock).Score(context.Background(), "I am worried about my job")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := profile.Scores{
		Affect:    -0.4,
		Optimism:  0.1,
		Temporal:  profile.Temporal{Past: 0.2, Present: 0.7, Future: 0.1},
		Wellbeing: map[string]float64{profile.NegAccomplishment: 0.3},
	}
	if diff := cmp.Diff(want, scores); diff != "" {
		t.Errorf("scores mismatch (-want +got):\n%s", diff)
	}
}

func TestScore_Error(t *testing.T) {
	mock := &mockLexiconService{scoreErr: errors.New("score failed")}
	_, err := NewClientWithService(mock).Score(context.Background(), "x")
	if !errors.Is(err, mock.scoreErr) {
		t.Errorf("expected wrapped score error, got: %v", err)
	}
}

// #endregion score-tests

// #region bufconn-tests
func dialServer(t *testing.T, srv LexiconServer) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	RegisterLexiconServer(gs, srv)
	go gs.Serve(lis)
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufnet: %v", err)
	}
	c := &Client{conn: conn, client: NewLexiconServiceClient(conn)}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRoundTrip_OverGRPC(t *testing.T) {
	want := lexicon.ItemSet{
		Nouns:   []string{"rules"},
		Verbs:   []string{"follow"},
		Plurals: map[string]bool{"rules": true},
		Tense:   lexicon.TenseFuture,
	}
	c := dialServer(t, NewServer(fixedExtractor{items: want}, nil))

	got, err := c.Extract(context.Background(), "i will follow the rules")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}

	scores, err := c.Score(context.Background(), "i will follow the rules")
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if scores.Temporal.Future == 0 {
		t.Errorf("heuristic scorer should see future orientation: %+v", scores.Temporal)
	}
}

func TestServer_ErrorsBecomeStatus(t *testing.T) {
	c := dialServer(t, NewServer(nil, brokenScorer{}))
	_, err := c.Score(context.Background(), "anything")
	if status.Code(errors.Unwrap(err)) != codes.Internal {
		t.Errorf("expected Internal status, got %v", err)
	}

	_, err = c.client.Extract(context.Background(), &structpb.Struct{})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument for missing sentence, got %v", err)
	}
}

// #endregion bufconn-tests
