package codec

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/danielpatrickdp/clive/internal/lexicon"
	"github.com/danielpatrickdp/clive/internal/profile"
)

// #region client-struct
// Client wraps the gRPC connection to the NLP sidecar. It satisfies both
// lexicon.Extractor and profile.Scorer.
type Client struct {
	conn   *grpc.ClientConn
	client LexiconServiceClient
}

var (
	_ lexicon.Extractor = (*Client)(nil)
	_ profile.Scorer    = (*Client)(nil)
)
// #endregion client-struct

// #region constructor
// NewClient connects to the sidecar gRPC server.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: NewLexiconServiceClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewClientWithService(svc LexiconServiceClient) *Client {
	return &Client{client: svc}
}

// #endregion constructor

// #region close
// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
// #endregion close

// #region extract
// Extract asks the sidecar for the lexical items of a cleaned sentence.
func (c *Client) Extract(ctx context.Context, sentence string) (lexicon.ItemSet, error) {
	resp, err := c.client.Extract(ctx, sentenceRequest(sentence))
	if err != nil {
		return lexicon.ItemSet{}, fmt.Errorf("extract rpc: %w", err)
	}
	var items lexicon.ItemSet
	if err := fromStruct(resp, &items); err != nil {
		return lexicon.ItemSet{}, fmt.Errorf("extract response: %w", err)
	}
	items.Tense = lexicon.ParseTense(string(items.Tense))
	return items, nil
}
// #endregion extract

// #region score
// Score asks the sidecar for an utterance's profile scores.
func (c *Client) Score(ctx context.Context, sentence string) (profile.Scores, error) {
	resp, err := c.client.Score(ctx, sentenceRequest(sentence))
	if err != nil {
		return profile.Scores{}, fmt.Errorf("score rpc: %w", err)
	}
	var scores profile.Scores
	if err := fromStruct(resp, &scores); err != nil {
		return profile.Scores{}, fmt.Errorf("score response: %w", err)
	}
	return scores, nil
}
// #endregion score
