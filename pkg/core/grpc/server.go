// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package:     grpc
// Description: gRPC server construction shared by jackc services
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package grpc

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"github.com/msto63/jackc/pkg/core/config"
	"github.com/msto63/jackc/pkg/core/logging"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// ServerConfig is the transport part of the [server] configuration section
type ServerConfig struct {
	Host             string
	Port             int
	MaxRecvMsgSize   int
	MaxSendMsgSize   int
	EnableReflection bool
	// Keepalive pings idle clients every Keepalive and drops them when no
	// answer arrives within KeepaliveTimeout
	Keepalive        time.Duration
	KeepaliveTimeout time.Duration
}

// Addr returns "host:port"
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DefaultServerConfig returns the transport settings of config.Default
func DefaultServerConfig() ServerConfig {
	return ServerFromConfig(config.Default().Server)
}

// ServerFromConfig extracts the transport settings of a server section
func ServerFromConfig(c config.ServerConfig) ServerConfig {
	return ServerConfig{
		Host:             c.Host,
		Port:             c.Port,
		MaxRecvMsgSize:   c.MaxRecvMsgSize,
		MaxSendMsgSize:   c.MaxSendMsgSize,
		EnableReflection: c.EnableReflection,
		Keepalive:        c.KeepaliveInterval.Duration,
		KeepaliveTimeout: c.KeepaliveTimeout.Duration,
	}
}

// Server is a gRPC server that also answers the standard health protocol
type Server struct {
	cfg    ServerConfig
	grpc   *grpc.Server
	health *grpchealth.Server
	logger *logging.Logger

	mu  sync.Mutex
	lis net.Listener
}

// NewServer creates a gRPC server with panic recovery, call IDs, access
// logging and error mapping installed. Services are registered on
// GRPCServer before Serve.
func NewServer(cfg ServerConfig, opts ...grpc.ServerOption) *Server {
	base := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(),
			CallIDInterceptor(),
			AccessLogInterceptor(),
			ErrorInterceptor(),
		),
		grpc.ChainStreamInterceptor(
			StreamRecoveryInterceptor(),
			StreamAccessLogInterceptor(),
		),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	}
	if cfg.MaxRecvMsgSize > 0 {
		base = append(base, grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize))
	}
	if cfg.MaxSendMsgSize > 0 {
		base = append(base, grpc.MaxSendMsgSize(cfg.MaxSendMsgSize))
	}
	if cfg.Keepalive > 0 {
		base = append(base, grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    cfg.Keepalive,
			Timeout: cfg.KeepaliveTimeout,
		}))
	}

	s := &Server{
		cfg:    cfg,
		grpc:   grpc.NewServer(append(base, opts...)...),
		health: grpchealth.NewServer(),
		logger: logging.New("grpc-server"),
	}
	healthpb.RegisterHealthServer(s.grpc, s.health)
	if cfg.EnableReflection {
		reflection.Register(s.grpc)
	}
	return s
}

// GRPCServer returns the underlying server for service registration
func (s *Server) GRPCServer() *grpc.Server { return s.grpc }

// SetServing publishes the health of service. The empty name stands for
// the whole server.
func (s *Server) SetServing(service string, serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, st)
}

// Serve accepts connections on lis until the server stops
func (s *Server) Serve(lis net.Listener) error {
	s.mu.Lock()
	s.lis = lis
	s.mu.Unlock()
	s.logger.Info("gRPC server listening", "address", lis.Addr().String())
	return s.grpc.Serve(lis)
}

// Start listens on the configured address and serves
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return mdwerror.Wrap(err, "cannot listen").
			WithCode(mdwerror.CodeNetworkError).WithDetail("address", s.cfg.Addr())
	}
	return s.Serve(lis)
}

// Stop drains running calls. When ctx ends first the remaining
// connections are closed.
func (s *Server) Stop(ctx context.Context) {
	s.health.Shutdown()
	drained := make(chan struct{})
	go func() {
		s.grpc.GracefulStop()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		s.grpc.Stop()
		<-drained
	}
}

// Address returns the bound address once serving, the configured one before
func (s *Server) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis != nil {
		return s.lis.Addr().String()
	}
	return s.cfg.Addr()
}
