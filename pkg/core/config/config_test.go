package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/jackc/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	d := Duration{5 * time.Minute}
	result, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(result) != "5m0s" {
		t.Errorf("MarshalText() = %v, want 5m0s", string(result))
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := Default()

	if cfg.General.Name != "jackc" {
		t.Errorf("General.Name = %v, want jackc", cfg.General.Name)
	}
	if cfg.General.LogLevel != "info" {
		t.Errorf("General.LogLevel = %v, want info", cfg.General.LogLevel)
	}
	if cfg.Analyzer.SourceExt != ".jack" {
		t.Errorf("Analyzer.SourceExt = %v, want .jack", cfg.Analyzer.SourceExt)
	}
	if cfg.Analyzer.OutputExt != ".xml" {
		t.Errorf("Analyzer.OutputExt = %v, want .xml", cfg.Analyzer.OutputExt)
	}
	if cfg.Analyzer.TokenSuffix != "T" {
		t.Errorf("Analyzer.TokenSuffix = %v, want T", cfg.Analyzer.TokenSuffix)
	}
	if cfg.Analyzer.Style != "full" {
		t.Errorf("Analyzer.Style = %v, want full", cfg.Analyzer.Style)
	}
	if cfg.Analyzer.Workers != 4 {
		t.Errorf("Analyzer.Workers = %v, want 4", cfg.Analyzer.Workers)
	}
	if cfg.History.Path != filepath.Join("./data", "history.db") {
		t.Errorf("History.Path = %v", cfg.History.Path)
	}
	if cfg.Server.Port != 9310 {
		t.Errorf("Server.Port = %v, want 9310", cfg.Server.Port)
	}
	if cfg.Watch.Debounce.Duration != 200*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 200ms", cfg.Watch.Debounce.Duration)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}
	if got := cfg.ServerAddress(); got != "127.0.0.1:9310" {
		t.Errorf("ServerAddress() = %v, want 127.0.0.1:9310", got)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/jackc.toml")
	if !mdwerror.HasCode(err, mdwerror.CodeNotFound) {
		t.Errorf("Load() error = %v, want %s", err, mdwerror.CodeNotFound)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jackc.toml")
	content := `
[general]
log_level = "debug"

[analyzer]
style = "course"
annotate = true
workers = 2

[server]
port = 9999
keepalive_interval = "1m"

[watch]
debounce = "50ms"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("General.LogLevel = %v, want debug", cfg.General.LogLevel)
	}
	if cfg.Analyzer.Style != "course" || !cfg.Analyzer.Annotate || cfg.Analyzer.Workers != 2 {
		t.Errorf("Analyzer = %+v", cfg.Analyzer)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %v, want 9999", cfg.Server.Port)
	}
	if cfg.Server.KeepaliveInterval.Duration != time.Minute {
		t.Errorf("Server.KeepaliveInterval = %v, want 1m", cfg.Server.KeepaliveInterval.Duration)
	}
	if cfg.Watch.Debounce.Duration != 50*time.Millisecond {
		t.Errorf("Watch.Debounce = %v, want 50ms", cfg.Watch.Debounce.Duration)
	}
	// untouched sections keep their defaults
	if cfg.Analyzer.SourceExt != ".jack" {
		t.Errorf("Analyzer.SourceExt = %v, want .jack (default)", cfg.Analyzer.SourceExt)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jackc.yaml")
	content := `
analyzer:
  emit_tokens: true
  continue_on_error: true
history:
  enabled: true
  path: /tmp/jackc-history.db
watch:
  debounce: 1s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Analyzer.EmitTokens || !cfg.Analyzer.ContinueOnError {
		t.Errorf("Analyzer = %+v", cfg.Analyzer)
	}
	if !cfg.History.Enabled || cfg.History.Path != "/tmp/jackc-history.db" {
		t.Errorf("History = %+v", cfg.History)
	}
	if cfg.Watch.Debounce.Duration != time.Second {
		t.Errorf("Watch.Debounce = %v, want 1s", cfg.Watch.Debounce.Duration)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		code    mdwerror.Code
	}{
		{"malformed toml", "a.toml", "[analyzer\nstyle=", mdwerror.CodeConfigError},
		{"malformed yaml", "a.yaml", "analyzer: [", mdwerror.CodeConfigError},
		{"bad duration", "a.toml", "[watch]\ndebounce = \"soon\"", mdwerror.CodeConfigError},
		{"bad style", "a.toml", "[analyzer]\nstyle = \"tree\"", mdwerror.CodeInvalidConfig},
		{"bad port", "a.yaml", "server:\n  port: 70000", mdwerror.CodeInvalidConfig},
		{"same extensions", "a.toml", "[analyzer]\noutput_ext = \".jack\"", mdwerror.CodeInvalidConfig},
		{"bad log level", "a.toml", "[general]\nlog_level = \"loud\"", mdwerror.CodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write test config: %v", err)
			}
			_, err := Load(path)
			if !mdwerror.HasCode(err, tt.code) {
				t.Errorf("Load() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jackc.toml")
	if err := os.WriteFile(path, []byte("[analyzer]\nworkers = 2\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	t.Setenv(EnvWorkers, "8")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvHistoryPath, "/var/lib/jackc/h.db")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Analyzer.Workers != 8 {
		t.Errorf("Analyzer.Workers = %v, want 8", cfg.Analyzer.Workers)
	}
	if cfg.General.LogLevel != "warn" {
		t.Errorf("General.LogLevel = %v, want warn", cfg.General.LogLevel)
	}
	if cfg.History.Path != "/var/lib/jackc/h.db" {
		t.Errorf("History.Path = %v", cfg.History.Path)
	}

	t.Setenv(EnvWorkers, "many")
	if _, err := Load(path); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
		t.Errorf("Load() error = %v, want %s", err, mdwerror.CodeInvalidConfig)
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("JACKC_TEST_DATA", "/srv/jackc")

	cfg := &Config{General: GeneralConfig{DataDir: "$JACKC_TEST_DATA"}}
	cfg.applyDefaults()
	cfg.expandEnvVars()

	if cfg.General.DataDir != "/srv/jackc" {
		t.Errorf("DataDir = %v, want /srv/jackc", cfg.General.DataDir)
	}
	if cfg.History.Path != filepath.Join("/srv/jackc", "history.db") {
		t.Errorf("History.Path = %v", cfg.History.Path)
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	t.Setenv(EnvConfig, "")
	t.Setenv("HOME", t.TempDir())

	originalWd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(originalWd)

	_, err := LoadFromEnv()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadFromEnv() error = %v, want ErrNotFound", err)
	}

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Analyzer.SourceExt != ".jack" {
		t.Errorf("Resolve() did not fall back to defaults: %+v", cfg.Analyzer)
	}
}
