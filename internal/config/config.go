// Package config loads the resolve-server configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	recurrence "github.com/njchilds90/gorecurrence"
	"github.com/njchilds90/gorecurrence/internal/logging"
	"github.com/njchilds90/gorecurrence/symbol"
)

// MCP transport modes.
const (
	MCPHTTP  = "http"
	MCPStdio = "stdio"
	MCPOff   = "off"
)

// Config is the resolve-server configuration.
type Config struct {
	Addr         string        `yaml:"addr"`
	LogLevel     string        `yaml:"log_level"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	MaxOrder     int           `yaml:"max_order"`
	MaxTerms     int           `yaml:"max_terms"`
	MCP          string        `yaml:"mcp"`
	Metrics      bool          `yaml:"metrics"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:         ":8080",
		LogLevel:     "info",
		MaxBodyBytes: 1 << 20,
		MaxOrder:     recurrence.MaxOrder,
		MaxTerms:     200,
		MCP:          MCPHTTP,
		Metrics:      true,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes))
	}
	if c.MaxOrder <= 0 || c.MaxOrder > symbol.MaxRootDegree {
		errs = append(errs, fmt.Errorf("max_order must be between 1 and %d, got %d", symbol.MaxRootDegree, c.MaxOrder))
	}
	if c.MaxTerms <= 0 {
		errs = append(errs, fmt.Errorf("max_terms must be positive, got %d", c.MaxTerms))
	}
	switch c.MCP {
	case MCPHTTP, MCPStdio, MCPOff:
	default:
		errs = append(errs, fmt.Errorf("mcp must be one of http, stdio, off, got %q", c.MCP))
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
