package server

import (
	"context"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	coreGrpc "github.com/msto63/jackc/pkg/core/grpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote analyzer
type Client struct {
	conn  *grpc.ClientConn
	owned bool
}

// Dial connects to the analyzer at target ("host:port")
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	conn, err := coreGrpc.Dial(coreGrpc.DefaultClientConfig(target), opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, owned: true}, nil
}

// NewClient wraps an existing connection. Close leaves conn open.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

// Analyze parses req.Source remotely
func (c *Client) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	return c.call(ctx, analyzeMethod, req)
}

// Tokenize returns the remote token stream document of req.Source
func (c *Client) Tokenize(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error) {
	return c.call(ctx, tokenizeMethod, req)
}

func (c *Client) call(ctx context.Context, method string, req AnalyzeRequest) (*AnalyzeResponse, error) {
	in, err := req.toStruct()
	if err != nil {
		return nil, mdwerror.Wrap(err, "encode request").WithCode(mdwerror.CodeInvalidInput)
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return nil, coreGrpc.FromStatus(err)
	}
	resp := responseFromStruct(out)
	return &resp, nil
}

// Serving asks the remote health service whether the analyzer is serving
func (c *Client) Serving(ctx context.Context) (bool, error) {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return false, coreGrpc.FromStatus(err)
	}
	return resp.Status == healthpb.HealthCheckResponse_SERVING, nil
}

// Close closes the connection if the client opened it
func (c *Client) Close() error {
	if !c.owned {
		return nil
	}
	return c.conn.Close()
}
