package grpc

import (
	"time"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"github.com/msto63/jackc/pkg/core/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// ClientConfig holds the settings of a connection to a jackc server
type ClientConfig struct {
	Target string
	// MaxRecvMsgSize bounds returned trees, MaxSendMsgSize submitted sources
	MaxRecvMsgSize int
	MaxSendMsgSize int
	// Keepalive is the ping interval on idle connections; zero disables pings
	Keepalive time.Duration
}

// ClientFromConfig mirrors the message limits of the server section, so a
// client never sends what the server would reject.
func ClientFromConfig(target string, c config.ServerConfig) ClientConfig {
	return ClientConfig{
		Target:         target,
		MaxRecvMsgSize: c.MaxSendMsgSize,
		MaxSendMsgSize: c.MaxRecvMsgSize,
		Keepalive:      c.KeepaliveInterval.Duration,
	}
}

// DefaultClientConfig returns the client settings matching a server with
// the default configuration.
func DefaultClientConfig(target string) ClientConfig {
	return ClientFromConfig(target, config.Default().Server)
}

// Dial prepares an insecure connection to cfg.Target. The connection is
// established lazily on the first call.
func Dial(cfg ClientConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(ClientCallIDInterceptor(), ClientLogInterceptor()),
	}
	var callOpts []grpc.CallOption
	if cfg.MaxRecvMsgSize > 0 {
		callOpts = append(callOpts, grpc.MaxCallRecvMsgSize(cfg.MaxRecvMsgSize))
	}
	if cfg.MaxSendMsgSize > 0 {
		callOpts = append(callOpts, grpc.MaxCallSendMsgSize(cfg.MaxSendMsgSize))
	}
	if len(callOpts) > 0 {
		dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(callOpts...))
	}
	if cfg.Keepalive > 0 {
		dialOpts = append(dialOpts, grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                cfg.Keepalive,
			PermitWithoutStream: true,
		}))
	}

	conn, err := grpc.NewClient(cfg.Target, append(dialOpts, opts...)...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "invalid analyzer address").
			WithCode(mdwerror.CodeNetworkError).WithDetail("target", cfg.Target)
	}
	return conn, nil
}
