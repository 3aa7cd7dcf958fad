// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package:     server
// Description: gRPC front end of the Jack analyzer
// Author:      Mike Stoffels
// Created:     2025-12-10
// License:     MIT
// ============================================================================

// Package server exposes the analyzer as the gRPC service jackc.v1.Analyzer
// and provides a matching client.
package server

import (
	"context"
	"net"
	"strconv"
	"time"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	"github.com/msto63/jackc/internal/analyzer/service"
	"github.com/msto63/jackc/internal/analyzer/store"
	"github.com/msto63/jackc/internal/jack/parser"
	"github.com/msto63/jackc/pkg/core/cache"
	"github.com/msto63/jackc/pkg/core/config"
	coreGrpc "github.com/msto63/jackc/pkg/core/grpc"
	"github.com/msto63/jackc/pkg/core/health"
	"github.com/msto63/jackc/pkg/core/logging"
	"github.com/msto63/jackc/pkg/core/version"
	"google.golang.org/protobuf/types/known/structpb"
)

// Config holds server configuration
type Config struct {
	GRPC coreGrpc.ServerConfig
	// CacheEntries bounds the Analyze response cache; negative disables it.
	CacheEntries int
	CacheTTL     time.Duration
	// MaxOutput caps the trees and token streams built for a request;
	// zero means unbounded.
	MaxOutput int
	// History is pinged by the health check when set.
	History store.Store
	Logger  *logging.Logger
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return ConfigFrom(config.Default().Server)
}

// ConfigFrom converts the server section of the file configuration.
func ConfigFrom(c config.ServerConfig) Config {
	return Config{
		GRPC:         coreGrpc.ServerFromConfig(c),
		CacheEntries: c.CacheEntries,
		CacheTTL:     c.CacheTTL.Duration,
		MaxOutput:    c.MaxSendMsgSize,
	}
}

// Server is the analyzer gRPC server
type Server struct {
	service   *service.Service
	grpc      *coreGrpc.Server
	health    *health.Registry
	cache     *cache.Cache[AnalyzeResponse]
	logger    *logging.Logger
	startTime time.Time
}

// New creates a new analyzer server backed by svc
func New(svc *service.Service, cfg Config) (*Server, error) {
	if svc == nil {
		return nil, mdwerror.New("analyzer service is required").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("server.New")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("grpc-server")
	}
	if cfg.MaxOutput > 0 {
		svc = svc.WithOutputLimit(cfg.MaxOutput)
	}

	registry := health.NewRegistry("jackc", version.ComponentVersion("grpc"))
	registry.Add("parser", func(ctx context.Context) error {
		_, _, err := svc.AnalyzeSource(ctx, "class HealthCheck { }", parser.StyleFull, false)
		return err
	})
	if cfg.History != nil {
		registry.Add("history", cfg.History.Ping)
	}

	s := &Server{
		service:   svc,
		grpc:      coreGrpc.NewServer(cfg.GRPC),
		health:    registry,
		logger:    logger,
		startTime: time.Now(),
	}
	if cfg.CacheEntries >= 0 {
		s.cache = cache.New[AnalyzeResponse](cache.Config{
			MaxItems:        cfg.CacheEntries,
			TTL:             cfg.CacheTTL,
			CleanupInterval: time.Minute,
		})
	}
	RegisterAnalyzerServer(s.grpc.GRPCServer(), s)
	s.RefreshHealth(context.Background())

	return s, nil
}

// Analyze parses the request source and returns its tree
func (s *Server) Analyze(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := requestFromStruct(in)
	if err != nil {
		return nil, err
	}
	def := s.service.Config()
	style, err := req.style(def.Style)
	if err != nil {
		return nil, err
	}
	annotate := req.Annotate || def.Annotate

	analyze := func() (AnalyzeResponse, error) {
		xml, stats, err := s.service.AnalyzeSource(ctx, req.Source, style, annotate)
		if err != nil {
			s.logger.Debug("Analyze rejected source", "name", req.Name, "error", err.Error())
			return AnalyzeResponse{}, err
		}
		s.logger.Debug("Analyzed source", "name", req.Name, "tokens", stats.Tokens)
		return AnalyzeResponse{
			XML:    xml,
			Class:  stats.Class,
			Tokens: stats.Tokens,
			Lines:  stats.Lines,
		}, nil
	}

	var resp AnalyzeResponse
	if s.cache != nil {
		resp, err = s.cache.GetOrSet(cache.Key(style.String(), strconv.FormatBool(annotate), req.Source), analyze)
	} else {
		resp, err = analyze()
	}
	if err != nil {
		return nil, err
	}
	return resp.toStruct(), nil
}

// CacheStats returns the hit and miss counts of the response cache
func (s *Server) CacheStats() (hits, misses int64) {
	if s.cache == nil {
		return 0, 0
	}
	hits, misses, _ = s.cache.Stats()
	return hits, misses
}

// Tokenize returns the token stream document of the request source
func (s *Server) Tokenize(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := requestFromStruct(in)
	if err != nil {
		return nil, err
	}
	doc, n, err := s.service.Tokenize(ctx, req.Source)
	if err != nil {
		return nil, err
	}
	return AnalyzeResponse{XML: doc, Tokens: n}.toStruct(), nil
}

// RefreshHealth runs all checks and publishes the result in the gRPC
// health service, for the analyzer and for the server as a whole.
func (s *Server) RefreshHealth(ctx context.Context) *health.Report {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	report := s.health.Run(ctx)
	s.grpc.SetServing(ServiceName, report.Serving())
	s.grpc.SetServing("", report.Serving())
	if !report.Serving() {
		s.logger.Warn("Health check failed", "report", report.String())
	}
	return report
}

// WatchHealth refreshes the health status every interval until ctx is done
func (s *Server) WatchHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RefreshHealth(ctx)
		}
	}
}

// Serve serves on lis until Stop is called
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Starting analyzer server", "address", lis.Addr().String())
	return s.grpc.Serve(lis)
}

// Start listens on the configured address and serves
func (s *Server) Start() error {
	s.logger.Info("Starting analyzer server", "address", s.grpc.Address())
	return s.grpc.Start()
}

// Stop gracefully stops the server, forcing it after timeout
func (s *Server) Stop(timeout time.Duration) {
	s.logger.Info("Stopping analyzer server", "uptime", time.Since(s.startTime).Round(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.grpc.Stop(ctx)
	if s.cache != nil {
		s.cache.Close()
	}
}

// Address returns the listen address
func (s *Server) Address() string {
	return s.grpc.Address()
}
