// Package config loads jsonmodel settings from defaults, a YAML file, the environment and flags
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonmodel/internal/generator"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/naming"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "JSONMODEL_"

// Config represents the complete configuration for jsonmodel
type Config struct {
	ClassName   string            `yaml:"class_name" env:"CLASS_NAME, overwrite"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Naming      NamingConfig      `yaml:"naming"`
	Output      OutputConfig      `yaml:"output"`
	Dev         DevConfig         `yaml:"dev"`
}

// PersistenceConfig controls the database block of the generated class
type PersistenceConfig struct {
	Enabled     bool   `yaml:"enabled" env:"DATABASE, overwrite"`
	Master      bool   `yaml:"master" env:"MASTER, overwrite"`
	FilterField string `yaml:"filter_field" env:"FILTER_FIELD, overwrite"`
	IDField     string `yaml:"id_field" env:"ID_FIELD, overwrite"`
	// DisplayField is the member getNameList returns for master entities
	DisplayField string `yaml:"display_field" env:"DISPLAY_FIELD, overwrite"`
	// Verify runs the generated SQL against an in-memory SQLite database
	Verify bool `yaml:"verify" env:"VERIFY, overwrite"`
}

// NamingConfig controls how the class name is treated
type NamingConfig struct {
	NormalizeClassName bool `yaml:"normalize_class_name" env:"NORMALIZE_CLASS_NAME, overwrite"`
}

// OutputConfig controls the shape of the generated document
type OutputConfig struct {
	Format bool   `yaml:"format" env:"FORMAT, overwrite"`
	Indent string `yaml:"indent" env:"INDENT, overwrite"`
	// LoggerCall and DatabaseCall are the collaborators the generated code calls into
	LoggerCall   string `yaml:"logger_call" env:"LOGGER_CALL, overwrite"`
	DatabaseCall string `yaml:"database_call" env:"DATABASE_CALL, overwrite"`
	// Banner surrounds stdout output with copy markers
	Banner bool `yaml:"banner" env:"BANNER, overwrite"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug" env:"DEBUG, overwrite"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	tmpl := generator.DefaultTemplate()
	return &Config{
		Persistence: PersistenceConfig{
			DisplayField: tmpl.DisplayField,
		},
		Output: OutputConfig{
			Format:       true,
			Indent:       "    ",
			LoggerCall:   tmpl.LoggerCall,
			DatabaseCall: tmpl.DatabaseCall,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonmodel.yml", ".jsonmodel.yaml", "jsonmodel.yml", "jsonmodel.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// ApplyEnv overlays JSONMODEL_* variables from lookuper onto cfg. Variables that are not
// set leave the existing values alone.
func ApplyEnv(ctx context.Context, cfg *Config, lookuper envconfig.Lookuper) error {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	}); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}
	return nil
}

// CLIOverrides are the values given on the command line. Empty strings and false booleans
// mean "not given".
type CLIOverrides struct {
	ClassName   string
	Database    bool
	Master      bool
	FilterField string
	IDField     string
	NoFormat    bool
	Verify      bool
	Debug       bool
}

// Apply merges CLI overrides into cfg. Booleans can only switch features on, except
// NoFormat which switches formatting off.
func (o CLIOverrides) Apply(cfg *Config) {
	if o.ClassName != "" {
		cfg.ClassName = o.ClassName
	}
	if o.FilterField != "" {
		cfg.Persistence.FilterField = o.FilterField
	}
	if o.IDField != "" {
		cfg.Persistence.IDField = o.IDField
	}
	cfg.Persistence.Enabled = cfg.Persistence.Enabled || o.Database
	cfg.Persistence.Master = cfg.Persistence.Master || o.Master
	cfg.Persistence.Verify = cfg.Persistence.Verify || o.Verify
	cfg.Dev.Debug = cfg.Dev.Debug || o.Debug
	if o.NoFormat {
		cfg.Output.Format = false
	}
}

// LoadConfigWithCLI loads config with precedence defaults < file < environment < CLI
func LoadConfigWithCLI(ctx context.Context, configPath string, lookuper envconfig.Lookuper, cli CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if err := ApplyEnv(ctx, cfg, lookuper); err != nil {
		return nil, err
	}

	cli.Apply(cfg)
	return cfg, nil
}

// ResolvedClassName returns the class name, normalised to PascalCase when configured
func (c *Config) ResolvedClassName() string {
	if c.Naming.NormalizeClassName {
		return naming.ClassName(c.ClassName)
	}
	return c.ClassName
}

// Options converts the persistence settings into generation options
func (c *Config) Options() models.Options {
	return models.Options{
		EmitPersistence: c.Persistence.Enabled,
		IsMasterEntity:  c.Persistence.Master,
		FilterFieldKey:  c.Persistence.FilterField,
		IDFieldKey:      c.Persistence.IDField,
	}
}

// Template returns the collaborators the generated code calls into
func (c *Config) Template() generator.Template {
	return generator.Template{
		LoggerCall:   c.Output.LoggerCall,
		DatabaseCall: c.Output.DatabaseCall,
		DisplayField: c.Persistence.DisplayField,
	}
}
