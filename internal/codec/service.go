package codec

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/clive/internal/lexicon"
	"github.com/danielpatrickdp/clive/internal/profile"
)

// #region service-desc
const (
	serviceName   = "clive.lexicon.v1.Lexicon"
	extractMethod = "/" + serviceName + "/Extract"
	scoreMethod   = "/" + serviceName + "/Score"
)

// LexiconServiceClient is the client side of the NLP sidecar.
type LexiconServiceClient interface {
	Extract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Score(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type lexiconServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLexiconServiceClient binds a connection to the sidecar service.
func NewLexiconServiceClient(cc grpc.ClientConnInterface) LexiconServiceClient {
	return &lexiconServiceClient{cc: cc}
}

func (c *lexiconServiceClient) Extract(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, extractMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *lexiconServiceClient) Score(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, scoreMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// LexiconServer is the server side of the NLP sidecar.
type LexiconServer interface {
	Extract(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	Score(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// RegisterLexiconServer registers srv on s.
func RegisterLexiconServer(s grpc.ServiceRegistrar, srv LexiconServer) {
	s.RegisterService(&lexiconServiceDesc, srv)
}

func extractHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LexiconServer).Extract(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: extractMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(LexiconServer).Extract(ctx, req.(*structpb.Struct))
	})
}

func scoreHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LexiconServer).Score(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: scoreMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(LexiconServer).Score(ctx, req.(*structpb.Struct))
	})
}

var lexiconServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*LexiconServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Extract", Handler: extractHandler},
		{MethodName: "Score", Handler: scoreHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "clive/lexicon.proto",
}
// #endregion service-desc

// #region server
// Server answers sidecar RPCs with in-process capabilities.
type Server struct {
	extractor lexicon.Extractor
	scorer    profile.Scorer
}

// NewServer serves the given capabilities. Nil arguments fall back to the
// in-process tagger and keyword scorer.
func NewServer(e lexicon.Extractor, s profile.Scorer) *Server {
	if e == nil {
		e = lexicon.NewTagger()
	}
	if s == nil {
		s = profile.NewHeuristic()
	}
	return &Server{extractor: e, scorer: s}
}

func (s *Server) Extract(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sentence, err := sentenceOf(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	items, err := s.extractor.Extract(ctx, sentence)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "extract: %v", err)
	}
	return toStruct(items)
}

func (s *Server) Score(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	sentence, err := sentenceOf(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	scores, err := s.scorer.Score(ctx, sentence)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "score: %v", err)
	}
	return toStruct(scores)
}
// #endregion server
