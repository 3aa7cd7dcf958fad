// ============================================================================
// jackc - Jack Syntax Analyzer
// ============================================================================
//
// Package:     config
// Description: Typed configuration loaded from TOML or YAML files
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	mdwerror "github.com/msto63/jackc/foundation/core/error"
	mdwlog "github.com/msto63/jackc/foundation/core/log"
	"gopkg.in/yaml.v3"
)

// Environment variables
const (
	EnvConfig      = "JACKC_CONFIG"
	EnvLogLevel    = "JACKC_LOG_LEVEL"
	EnvWorkers     = "JACKC_WORKERS"
	EnvHistoryPath = "JACKC_HISTORY_PATH"
)

// ErrNotFound is returned by LoadFromEnv when no configuration file exists.
var ErrNotFound = errors.New("no config file found")

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general" yaml:"general"`
	Analyzer AnalyzerConfig `toml:"analyzer" yaml:"analyzer"`
	History  HistoryConfig  `toml:"history" yaml:"history"`
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Watch    WatchConfig    `toml:"watch" yaml:"watch"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// AnalyzerConfig holds batch analysis settings
type AnalyzerConfig struct {
	SourceExt   string `toml:"source_ext" yaml:"source_ext"`
	OutputExt   string `toml:"output_ext" yaml:"output_ext"`
	TokenSuffix string `toml:"token_suffix" yaml:"token_suffix"`
	Style       string `toml:"style" yaml:"style"`
	Annotate    bool   `toml:"annotate" yaml:"annotate"`
	EmitTokens  bool   `toml:"emit_tokens" yaml:"emit_tokens"`
	Workers     int    `toml:"workers" yaml:"workers"`
	// ContinueOnError keeps analyzing the remaining files after a failure.
	ContinueOnError bool `toml:"continue_on_error" yaml:"continue_on_error"`
}

// HistoryConfig holds the run history database settings
type HistoryConfig struct {
	Enabled       bool   `toml:"enabled" yaml:"enabled"`
	Path          string `toml:"path" yaml:"path"`
	RetentionDays int    `toml:"retention_days" yaml:"retention_days"`
}

// ServerConfig holds the gRPC analysis service settings
type ServerConfig struct {
	Host              string   `toml:"host" yaml:"host"`
	Port              int      `toml:"port" yaml:"port"`
	MaxRecvMsgSize    int      `toml:"max_recv_msg_size" yaml:"max_recv_msg_size"`
	MaxSendMsgSize    int      `toml:"max_send_msg_size" yaml:"max_send_msg_size"`
	KeepaliveInterval Duration `toml:"keepalive_interval" yaml:"keepalive_interval"`
	KeepaliveTimeout  Duration `toml:"keepalive_timeout" yaml:"keepalive_timeout"`
	EnableReflection  bool     `toml:"enable_reflection" yaml:"enable_reflection"`
	// CacheEntries bounds the analysis response cache; negative disables it.
	CacheEntries int      `toml:"cache_entries" yaml:"cache_entries"`
	CacheTTL     Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}
	return d.UnmarshalText([]byte(value.Value))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.Newf("config file not found: %s", path).
				WithCode(mdwerror.CodeNotFound).WithDetail("path", path)
		}
		return nil, mdwerror.Wrap(err, "failed to read config").WithCode(mdwerror.CodeIOError)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the JACKC_CONFIG environment
// variable or the first existing default location.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, fmt.Errorf("%w, set %s or create jackc.toml", ErrNotFound, EnvConfig)
	}
	return Load(path)
}

// Resolve loads path when given, otherwise the environment or default
// locations, and falls back to defaults when no file exists at all.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	cfg, err := LoadFromEnv()
	if errors.Is(err, ErrNotFound) {
		cfg = Default()
		if err := cfg.applyEnvOverrides(); err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// DefaultPaths lists the locations searched for a configuration file.
func DefaultPaths() []string {
	paths := []string{
		"./jackc.toml",
		"./jackc.yaml",
		"./configs/jackc.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config/jackc/config.toml"),
			filepath.Join(home, ".config/jackc/config.yaml"),
		)
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "jackc"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Analyzer
	if c.Analyzer.SourceExt == "" {
		c.Analyzer.SourceExt = ".jack"
	}
	if c.Analyzer.OutputExt == "" {
		c.Analyzer.OutputExt = ".xml"
	}
	if c.Analyzer.TokenSuffix == "" {
		c.Analyzer.TokenSuffix = "T"
	}
	if c.Analyzer.Style == "" {
		c.Analyzer.Style = "full"
	}
	if c.Analyzer.Workers == 0 {
		c.Analyzer.Workers = 4
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = 30
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 9310
	}
	if c.Server.MaxRecvMsgSize == 0 {
		c.Server.MaxRecvMsgSize = 4 * 1024 * 1024
	}
	if c.Server.MaxSendMsgSize == 0 {
		c.Server.MaxSendMsgSize = 16 * 1024 * 1024
	}
	if c.Server.KeepaliveInterval.Duration == 0 {
		c.Server.KeepaliveInterval.Duration = 30 * time.Second
	}
	if c.Server.KeepaliveTimeout.Duration == 0 {
		c.Server.KeepaliveTimeout.Duration = 10 * time.Second
	}
	if c.Server.CacheEntries == 0 {
		c.Server.CacheEntries = 256
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL.Duration = 10 * time.Minute
	}

	// Watch
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 200 * time.Millisecond
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// applyEnvOverrides applies JACKC_* variables on top of the file values.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return mdwerror.Newf("%s must be an integer, got %q", EnvWorkers, v).
				WithCode(mdwerror.CodeInvalidConfig)
		}
		c.Analyzer.Workers = n
	}
	if v := os.Getenv(EnvHistoryPath); v != "" {
		c.History.Path = v
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string

	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("general.log_level: %v", err))
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		problems = append(problems, fmt.Sprintf("general.log_format: %v", err))
	}
	if !strings.HasPrefix(c.Analyzer.SourceExt, ".") {
		problems = append(problems, "analyzer.source_ext must start with '.'")
	}
	if !strings.HasPrefix(c.Analyzer.OutputExt, ".") {
		problems = append(problems, "analyzer.output_ext must start with '.'")
	}
	if strings.EqualFold(c.Analyzer.SourceExt, c.Analyzer.OutputExt) {
		problems = append(problems, "analyzer.output_ext must differ from source_ext")
	}
	switch strings.ToLower(c.Analyzer.Style) {
	case "full", "course", "nand2tetris":
	default:
		problems = append(problems, fmt.Sprintf("analyzer.style: unknown style %q", c.Analyzer.Style))
	}
	if c.Analyzer.Workers < 1 || c.Analyzer.Workers > 256 {
		problems = append(problems, fmt.Sprintf("analyzer.workers must be between 1 and 256, got %d", c.Analyzer.Workers))
	}
	if c.History.RetentionDays < 0 {
		problems = append(problems, "history.retention_days must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port out of range: %d", c.Server.Port))
	}

	if len(problems) > 0 {
		return mdwerror.New("invalid configuration: " + strings.Join(problems, "; ")).
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("problems", len(problems))
	}
	return nil
}

// ServerAddress returns the listen address of the analysis service
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
