package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/railoptima/railoptima/core/audit"
	"github.com/railoptima/railoptima/core/generator"
	"github.com/railoptima/railoptima/core/metrics"
	"github.com/railoptima/railoptima/core/monitoring"
	"github.com/railoptima/railoptima/core/optimizer"
)

// Config aggregates every component's settings.
type Config struct {
	Schedule   ScheduleConfig    `json:"schedule"`
	Optimizer  optimizer.Config  `json:"optimizer"`
	Audit      audit.Config      `json:"audit"`
	History    HistoryConfig     `json:"history"`
	Metrics    metrics.Config    `json:"metrics"`
	API        APIConfig         `json:"api"`
	Monitoring monitoring.Config `json:"monitoring"`
	Generator  generator.Config  `json:"generator"`
}

// Load reads the configuration file (JSON or YAML by extension) and applies
// RAIL_-prefixed environment overrides, then defaults and validation.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, e.g. RAIL_METRICS__PROMETHEUS_PORT.
	// The callback emits dot-delimited keys, so the provider must split on
	// "." for the override to land inside the right section.
	if err := k.Load(env.Provider("RAIL_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "rail_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies defaults to every section.
func (c *Config) SetDefaults() {
	c.Schedule.SetDefaults()
	c.Optimizer.SetDefaults()
	c.Audit.SetDefaults()
	c.History.SetDefaults()
	c.Metrics.SetDefaults()
	c.API.SetDefaults()
	c.Monitoring.SetDefaults()
	c.Generator.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Optimizer.Validate(); err != nil {
		return fmt.Errorf("optimizer: %w", err)
	}
	if err := c.Audit.Validate(); err != nil {
		return fmt.Errorf("audit: %w", err)
	}
	if err := c.History.Validate(); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if err := c.Generator.Validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	return nil
}

// ScheduleConfig defines the default file locations of the pipeline.
type ScheduleConfig struct {
	InputPath    string `json:"input_path"`
	BaselinePath string `json:"baseline_path"`
	OutputCSV    string `json:"output_csv"`
	OutputJSON   string `json:"output_json"`
	ReportPath   string `json:"report_path"`
	AuditPath    string `json:"audit_path"`
}

// SetDefaults applies the conventional file layout.
func (c *ScheduleConfig) SetDefaults() {
	if c.InputPath == "" {
		c.InputPath = "trains.csv"
	}
	if c.OutputCSV == "" {
		c.OutputCSV = "schedule_output.csv"
	}
	if c.OutputJSON == "" {
		c.OutputJSON = "schedule_output.json"
	}
	if c.ReportPath == "" {
		c.ReportPath = "validation_report.txt"
	}
	if c.AuditPath == "" {
		c.AuditPath = "audit_report.csv"
	}
}

// HistoryConfig selects the run-history store.
type HistoryConfig struct {
	// Backend selects the store type: "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *HistoryConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "runs.log"
	}
}

// Validate checks mandatory fields.
func (c HistoryConfig) Validate() error {
	if c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// APIConfig defines the mock REST API server settings.
type APIConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8000"
	}
}
