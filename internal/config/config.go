package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/peter-kozarec/equitycalc/pkg/equity"
)

const (
	SourceDuckDB     = "duckdb"
	SourceClickHouse = "clickhouse"
	SourceBinary     = "binary"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Engine equity.Parameters `yaml:"engine"`
	Source SourceConfig      `yaml:"source"`
	Batch  BatchConfig       `yaml:"batch"`
	Report ReportConfig      `yaml:"report"`
	Log    LogConfig         `yaml:"log"`
}

type SourceConfig struct {
	Kind     string   `yaml:"kind"`
	DSN      string   `yaml:"dsn"`
	Table    string   `yaml:"table"`
	Symbols  []string `yaml:"symbols"`
	Rollover bool     `yaml:"rollover"`
	// Files maps symbol to a BinaryStep file, used by the binary source.
	Files map[string]string `yaml:"files"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"`
}

type ReportConfig struct {
	PeriodsPerYear int `yaml:"periods_per_year"`
}

type LogConfig struct {
	Dev   bool   `yaml:"dev"`
	Level string `yaml:"level"`
}

func Default() Config {
	return Config{
		Engine: equity.DefaultParameters(),
		Source: SourceConfig{Kind: SourceDuckDB, Table: "bars"},
		Report: ReportConfig{PeriodsPerYear: 252},
		Log:    LogConfig{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked applies the file on top of Default without validating.
// Relative binary file paths are resolved against the config directory.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("unable to parse %q: %w", path, err)
	}
	for symbol, file := range c.Source.Files {
		if !filepath.IsAbs(file) {
			c.Source.Files[symbol] = filepath.Join(filepath.Dir(path), file)
		}
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine config invalid: %w", err)
	}
	switch c.Source.Kind {
	case SourceDuckDB, SourceClickHouse:
		if c.Source.Table == "" {
			return errors.New("source.table is required")
		}
	case SourceBinary:
		if len(c.Source.Files) == 0 {
			return errors.New("source.files is required for the binary source")
		}
	default:
		return fmt.Errorf("unsupported source.kind %q", c.Source.Kind)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative, got %d", c.Batch.Workers)
	}
	return nil
}

func (c *Config) EngineOptions() []equity.Option {
	return []equity.Option{equity.WithParameters(c.Engine)}
}
