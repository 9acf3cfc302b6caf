package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/model"
)

// FileName is the configuration file at the root of a tally workspace.
const FileName = "tally.yaml"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Statement StatementConfig    `yaml:"statement"`
	Directory DirectoryConfig    `yaml:"directory"`
	Budget    map[string]float64 `yaml:"budget,omitempty"` // category -> monthly allocation
	Log       LogConfig          `yaml:"log"`
	Server    ServerConfig       `yaml:"server"`
}

// StatementConfig describes the statement layout.
type StatementConfig struct {
	// PurchaseTypes is the precedence order for type resolution. When a raw
	// entry contains several labels, the one listed last wins.
	PurchaseTypes  []string `yaml:"purchase_types"`
	TerminalMarker string   `yaml:"terminal_marker"`
	TotalsMarker   string   `yaml:"totals_marker"`
}

// DirectoryConfig locates the counterparty directory.
type DirectoryConfig struct {
	Path string `yaml:"path"` // relative paths resolve against the workspace root
}

// LogConfig controls diagnostics.
type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	types := make([]string, len(model.DefaultPurchaseTypes))
	for i, pt := range model.DefaultPurchaseTypes {
		types[i] = string(pt)
	}
	return &Config{
		Statement: StatementConfig{
			PurchaseTypes:  types,
			TerminalMarker: "Totals",
			TotalsMarker:   "Debits and Credits",
		},
		Directory: DirectoryConfig{
			Path: "directory/counterparties.csv",
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// PurchaseTypes returns the configured precedence list.
func (c *Config) PurchaseTypes() []model.PurchaseType {
	out := make([]model.PurchaseType, len(c.Statement.PurchaseTypes))
	for i, s := range c.Statement.PurchaseTypes {
		out[i] = model.PurchaseType(s)
	}
	return out
}

// Allocations returns the budget as decimals, rounded to cents.
func (c *Config) Allocations() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(c.Budget))
	for cat, v := range c.Budget {
		out[cat] = decimal.NewFromFloat(v).Round(2)
	}
	return out
}

// DirectoryPath resolves the directory CSV path against root.
func (c *Config) DirectoryPath(root string) string {
	if filepath.IsAbs(c.Directory.Path) {
		return c.Directory.Path
	}
	return filepath.Join(root, c.Directory.Path)
}

// Environment variables that override the file.
const (
	EnvLogLevel  = "TALLY_LOG_LEVEL"
	EnvAddr      = "TALLY_ADDR"
	EnvDirectory = "TALLY_DIRECTORY"
)

// ApplyEnv overrides cfg from the process environment and, for variables not
// set there, from the dotenv file at envFile. A missing envFile is not an error.
func ApplyEnv(cfg *Config, envFile string) error {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("reading %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvAddr); ok {
		cfg.Server.Addr = v
	}
	if v, ok := lookup(EnvDirectory); ok {
		cfg.Directory.Path = v
	}
	return nil
}
