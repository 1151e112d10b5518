package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	coremetrics "github.com/orderpulse-lab/orderpulse/internal/core/metrics"
)

// Import row-error modes.
const (
	// OnRowErrorAbort fails the whole import on the first bad row.
	OnRowErrorAbort = "abort"
	// OnRowErrorSkip skips bad rows and records them in the import report.
	OnRowErrorSkip = "skip"
)

// Config represents the top-level application config plus resolved metric rules.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Import   ImportConfig   `koanf:"import"`

	// MetricRules is populated by Load after parsing metric rule files.
	MetricRules []coremetrics.MetricRule `koanf:"-"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	Type         string `koanf:"type"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type MetricsConfig struct {
	// ConfigDir optionally holds *.yaml metric rule files that extend or
	// override the builtin sales/profits/orders dispatch table.
	ConfigDir string `koanf:"config_dir"`
}

type ImportConfig struct {
	// OnRowError chooses what a bad CSV row does to a bulk import:
	// "abort" (historical behavior) or "skip" (per-row skip-and-report).
	OnRowError string `koanf:"on_row_error"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}
	if c.Database.Type != "" && c.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database.type %q", c.Database.Type)
	}

	if c.Import.OnRowError != OnRowErrorAbort && c.Import.OnRowError != OnRowErrorSkip {
		return fmt.Errorf("invalid import.on_row_error %q (must be abort or skip)", c.Import.OnRowError)
	}

	return nil
}

// Load parses config from file + env, validates it, then loads and validates
// metric rules.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 1,
		"server.mode":             "release",
		"database.type":           "postgres",
		"database.dsn":            "",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.auto_migrate":   true,
		"metrics.config_dir":      "./config/metrics",
		"import.on_row_error":     OnRowErrorAbort,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("ORDERPULSE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "ORDERPULSE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := coremetrics.NewFileSystemMetricRepository(cfg.Metrics.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load metric rules: %w", err)
	}
	cfg.MetricRules = repo.GetRules()

	return &cfg, nil
}
