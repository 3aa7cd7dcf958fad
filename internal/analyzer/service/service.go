// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package:     service
// Description: Batch syntax analysis of Jack source trees
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

// Package service drives the Jack parser over files and directories.
//
// A run discovers every source below a root, analyzes each one into its
// own tree file on a bounded worker pool and reports a per-file Summary.
// Runs are optionally recorded in the history store.
package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
	mdwlog "github.com/msto63/jackc/foundation/core/log"
	"github.com/msto63/jackc/foundation/utils/filex"
	"github.com/msto63/jackc/internal/analyzer/store"
	"github.com/msto63/jackc/internal/jack/parser"
	"github.com/msto63/jackc/pkg/core/config"
	"github.com/msto63/jackc/pkg/core/logging"
)

// Config holds the analyzer configuration
type Config struct {
	SourceExt   string
	OutputExt   string
	TokenSuffix string
	Style       parser.Style
	Annotate    bool
	// EmitTokens writes the token stream next to every tree.
	EmitTokens      bool
	Workers         int
	ContinueOnError bool
	// MaxOutput bounds the results of AnalyzeSource and Tokenize in bytes;
	// zero means unbounded. Files are never capped.
	MaxOutput int

	// History records runs when set.
	History store.Store
	Logger  *logging.Logger
}

// DefaultConfig returns the default analyzer configuration
func DefaultConfig() Config {
	cfg, _ := ConfigFrom(config.Default().Analyzer)
	return cfg
}

// ConfigFrom converts the analyzer section of the file configuration.
func ConfigFrom(c config.AnalyzerConfig) (Config, error) {
	style, err := parser.ParseStyle(c.Style)
	if err != nil {
		return Config{}, mdwerror.Wrap(err, "analyzer.style").WithCode(mdwerror.CodeInvalidConfig)
	}
	return Config{
		SourceExt:       c.SourceExt,
		OutputExt:       c.OutputExt,
		TokenSuffix:     c.TokenSuffix,
		Style:           style,
		Annotate:        c.Annotate,
		EmitTokens:      c.EmitTokens,
		Workers:         c.Workers,
		ContinueOnError: c.ContinueOnError,
	}, nil
}

// Service analyzes Jack sources
type Service struct {
	cfg     Config
	logger  *logging.Logger
	history store.Store
}

// NewService creates a new analyzer service
func NewService(cfg Config) (*Service, error) {
	def := DefaultConfig()
	if cfg.SourceExt == "" {
		cfg.SourceExt = def.SourceExt
	}
	if cfg.OutputExt == "" {
		cfg.OutputExt = def.OutputExt
	}
	if cfg.TokenSuffix == "" {
		cfg.TokenSuffix = def.TokenSuffix
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	cfg.SourceExt = filex.NormalizeExt(cfg.SourceExt)
	cfg.OutputExt = filex.NormalizeExt(cfg.OutputExt)
	if cfg.SourceExt == cfg.OutputExt {
		return nil, mdwerror.Newf("output extension %s equals source extension", cfg.OutputExt).
			WithCode(mdwerror.CodeInvalidConfig)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("analyzer")
	}

	return &Service{
		cfg:     cfg,
		logger:  logger,
		history: cfg.History,
	}, nil
}

// WithOutputLimit returns a copy of s whose in-memory results are capped
// at limit bytes.
func (s *Service) WithOutputLimit(limit int) *Service {
	c := *s
	c.cfg.MaxOutput = limit
	return &c
}

// Config returns the effective configuration
func (s *Service) Config() Config {
	return s.cfg
}

// Job is one source file and the files derived from it
type Job struct {
	Source      string
	Output      string
	TokenOutput string
}

// JobFor derives the destinations of one source file.
func (s *Service) JobFor(source string) Job {
	job := Job{
		Source: source,
		Output: filex.ReplaceExt(source, "", s.cfg.OutputExt),
	}
	if s.cfg.EmitTokens {
		job.TokenOutput = filex.ReplaceExt(source, s.cfg.TokenSuffix, s.cfg.OutputExt)
	}
	return job
}

// Discover lists the jobs for root, which may be a single source file or
// a directory searched recursively.
func (s *Service) Discover(root string) ([]Job, error) {
	if !filex.Exists(root) {
		return nil, mdwerror.Newf("path does not exist: %s", root).
			WithCode(mdwerror.CodeNotFound).WithDetail("path", root)
	}
	if filex.IsFile(root) && !filex.HasExt(root, s.cfg.SourceExt) {
		return nil, mdwerror.Newf("%s is not a %s file", root, s.cfg.SourceExt).
			WithCode(mdwerror.CodeInvalidInput).WithDetail("path", root)
	}

	sources, err := filex.FindByExt(root, s.cfg.SourceExt)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to search sources").WithCode(mdwerror.CodeIOError)
	}

	jobs := make([]Job, 0, len(sources))
	for _, src := range sources {
		jobs = append(jobs, s.JobFor(src))
	}
	return jobs, nil
}

// Status is the outcome of one job
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result describes one analyzed file
type Result struct {
	Job
	Status   Status
	Err      error
	Class    string
	Tokens   int
	Lines    int
	Duration time.Duration
	SHA256   string
}

// AnalyzeFile parses one source into its tree file and, when enabled, its
// token file. The result carries the error instead of returning it.
func (s *Service) AnalyzeFile(ctx context.Context, job Job) Result {
	res := Result{Job: job}
	if err := ctx.Err(); err != nil {
		res.Status = StatusSkipped
		res.Err = mdwerror.Wrap(err, "analysis canceled").WithCode(mdwerror.CodeCanceled)
		return res
	}

	timer := s.logger.Base().WithSource(job.Source).StartTimer("analyze")
	start := time.Now()

	err := s.analyzeFile(&res)
	res.Duration = time.Since(start)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err
		timer.Fail(err)
		return res
	}

	res.Status = StatusOK
	timer.Stop(mdwlog.Fields{"tokens": res.Tokens, "lines": res.Lines})
	return res
}

func (s *Service) analyzeFile(res *Result) error {
	src, err := os.ReadFile(res.Source)
	if err != nil {
		return mdwerror.Wrap(err, "cannot read source").WithCode(mdwerror.CodeIOError).WithDetail("path", res.Source)
	}
	res.SHA256 = filex.SHA256Bytes(src)

	err = writeFile(res.Output, func(f *os.File) error {
		p := parser.New(bytes.NewReader(src), f, s.parserOptions(s.cfg.Style, s.cfg.Annotate))
		err := p.Compile()
		stats := p.Stats()
		res.Tokens, res.Lines, res.Class = stats.Tokens, stats.Lines, stats.Class
		return err
	})
	if err != nil {
		return withPath(err, res.Source)
	}

	if res.TokenOutput != "" {
		err = writeFile(res.TokenOutput, func(f *os.File) error {
			_, err := WriteTokens(bytes.NewReader(src), f)
			return err
		})
		if err != nil {
			return withPath(err, res.Source)
		}
	}
	return nil
}

// writeFile creates path and runs fn on it. Output written before fn
// fails is kept.
func writeFile(path string, fn func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return mdwerror.Wrap(err, "cannot create output").WithCode(mdwerror.CodeIOError).WithDetail("path", path)
	}
	err = fn(f)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = mdwerror.Wrap(cerr, "cannot write output").WithCode(mdwerror.CodeIOError).WithDetail("path", path)
	}
	return err
}

// AnalyzeSource parses in-memory source and returns the tree text. On
// failure the partial tree is returned together with the error. A tree
// larger than MaxOutput fails with CodeInvalidInput.
func (s *Service) AnalyzeSource(ctx context.Context, src string, style parser.Style, annotate bool) (string, parser.Stats, error) {
	if err := ctx.Err(); err != nil {
		return "", parser.Stats{}, mdwerror.Wrap(err, "analysis canceled").WithCode(mdwerror.CodeCanceled)
	}
	buf := &limitedBuffer{max: s.cfg.MaxOutput}
	stats, err := parser.Parse(strings.NewReader(src), buf, s.parserOptions(style, annotate))
	return buf.String(), stats, err
}

// Tokenize returns the token stream document of in-memory source.
func (s *Service) Tokenize(ctx context.Context, src string) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, mdwerror.Wrap(err, "tokenize canceled").WithCode(mdwerror.CodeCanceled)
	}
	buf := &limitedBuffer{max: s.cfg.MaxOutput}
	n, err := WriteTokens(strings.NewReader(src), buf)
	return buf.String(), n, err
}

func (s *Service) parserOptions(style parser.Style, annotate bool) parser.Options {
	return parser.Options{
		Style:    style,
		Annotate: annotate,
		Logger:   s.logger.Base(),
	}
}

// withPath prefixes err with the source path, keeping its code.
func withPath(err error, path string) error {
	return mdwerror.Wrap(err, filepath.ToSlash(path)).WithDetail("path", path)
}

// Summary describes a finished run
type Summary struct {
	RunID     string
	Root      string
	Results   []Result
	Succeeded int
	Failed    int
	Skipped   int
	Duration  time.Duration
}

// Err returns the first failure of the run, or nil.
func (s *Summary) Err() error {
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			return r.Err
		}
	}
	return nil
}

// String returns a one-line description of the summary
func (s *Summary) String() string {
	return fmt.Sprintf("%d files: %d ok, %d failed, %d skipped in %v",
		len(s.Results), s.Succeeded, s.Failed, s.Skipped, s.Duration.Round(time.Millisecond))
}
