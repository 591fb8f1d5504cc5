// Package config loads the persisted generator settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no config file is named
const DefaultFile = "dbtomodel.yaml"

// Entity formats
const (
	FormatEloquent = "eloquent"
	FormatGo       = "go"
)

// DefaultIgnoredTables are framework tables that never get models
var DefaultIgnoredTables = []string{
	"migrations",
	"failed_jobs",
	"password_resets",
	"audits",
	"sessions",
	"sp_password_resets",
	"email_logs",
}

// Paths holds the output directories
type Paths struct {
	Model     string `yaml:"model"`
	Migration string `yaml:"migration"`
}

// Config holds the generator configuration
type Config struct {
	DatabaseURL            string    `yaml:"database_url"`
	IgnoredTables          TableList `yaml:"ignored_tables"`
	Paths                  Paths     `yaml:"paths"`
	MaxColumnsPerMigration int       `yaml:"max_columns_per_migration"`
	Namespace              string    `yaml:"namespace"`
	StubPath               string    `yaml:"stub_path"`
	EntityFormat           string    `yaml:"entity_format"`
	GoPackage              string    `yaml:"go_package"`
}

// TableList is a YAML list of table names, also accepted as one comma-separated string
type TableList []string

// UnmarshalYAML implements yaml.Unmarshaler for TableList
func (l *TableList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = SplitList(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	default:
		return fmt.Errorf("expected table name or list, got %v", node.Kind)
	}
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		IgnoredTables: append(TableList(nil), DefaultIgnoredTables...),
		Paths: Paths{
			Model:     "app/Models",
			Migration: "database/migrations",
		},
		MaxColumnsPerMigration: 15,
		Namespace:              `App\Models`,
		EntityFormat:           FormatEloquent,
		GoPackage:              "models",
	}
}

// Load reads the config file over the defaults, then applies the environment.
// An empty path reads DefaultFile if it exists; a named file must exist.
// DATABASE_URL, from the environment or a .env file, overrides database_url.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (silently ignore if missing)
	_ = godotenv.Load()

	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values a run depends on
func (c *Config) Validate() error {
	switch c.EntityFormat {
	case FormatEloquent, FormatGo:
	default:
		return fmt.Errorf("unknown entity format %q (want %s or %s)", c.EntityFormat, FormatEloquent, FormatGo)
	}
	if c.Paths.Model == "" || c.Paths.Migration == "" {
		return fmt.Errorf("paths.model and paths.migration must not be empty")
	}
	return nil
}

// SplitList parses a comma-separated list, dropping blanks
func SplitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
