package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dueldanov/europa/internal/interpreter"
)

// DefaultFileName is looked up in the user's home directory when no
// explicit config path is given.
const DefaultFileName = ".europa.yaml"

var (
	// ErrInvalidConfig is returned when a config file holds out-of-range values
	ErrInvalidConfig = errors.New("invalid config")
)

// Config holds the settings of the europa command
type Config struct {
	Verbose       bool   `yaml:"verbose"`
	MaxCallDepth  int    `yaml:"max_call_depth"`
	MaxScriptSize int    `yaml:"max_script_size"` // bytes; 0 = unlimited
	CacheSize     int    `yaml:"cache_size"`      // parsed programs; 0 disables
	HistoryFile   string `yaml:"history_file"`
	MetricsAddr   string `yaml:"metrics_addr"`
	ReportFile    string `yaml:"report_file"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		MaxCallDepth:  interpreter.DefaultMaxCallDepth,
		MaxScriptSize: 1 << 20,
		CacheSize:     256,
		HistoryFile:   ".europa_history",
	}
}

// Decode reads YAML from r on top of the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads the config file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Load resolves the configuration: the explicit path when given, else
// $HOME/.europa.yaml when it exists, else the defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	candidate := filepath.Join(home, DefaultFileName)
	if _, err := os.Stat(candidate); err != nil {
		return Default(), nil
	}
	return LoadFile(candidate)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.MaxCallDepth <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "max_call_depth must be positive, got %d", c.MaxCallDepth)
	}
	if c.MaxCallDepth > interpreter.MaxCallDepthLimit {
		return errors.Wrapf(ErrInvalidConfig, "max_call_depth must not exceed %d, got %d",
			interpreter.MaxCallDepthLimit, c.MaxCallDepth)
	}
	if c.MaxScriptSize < 0 {
		return errors.Wrapf(ErrInvalidConfig, "max_script_size must not be negative, got %d", c.MaxScriptSize)
	}
	if c.CacheSize < 0 {
		return errors.Wrapf(ErrInvalidConfig, "cache_size must not be negative, got %d", c.CacheSize)
	}
	return nil
}
