package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/ishanjain/namedpipe/pkg/namedpipe"
	"gopkg.in/yaml.v3"
)

// Config represents the pipecat configuration
type Config struct {
	// Pipe to create
	Pipe PipeConfig `yaml:"pipe"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// PipeConfig describes the named pipe channel
type PipeConfig struct {
	// Name is the pipe suffix; the token is appended to it
	Name string `yaml:"name"`

	// Direction relative to this process: inbound or outbound
	Direction string `yaml:"direction"`

	// Token makes the name unique (default: process id)
	Token string `yaml:"token,omitempty"`

	// Dir holds FIFOs on POSIX systems (default: $XDG_RUNTIME_DIR or temp dir)
	Dir string `yaml:"dir,omitempty"`

	// BufferSize in bytes (default: 65536)
	BufferSize int `yaml:"buffer_size,omitempty"`

	// ConnectTimeout bounds waiting for the peer, e.g. "30s" (default: no limit)
	ConnectTimeout time.Duration `yaml:"connect_timeout,omitempty"`

	// Permissive lets other users open the pipe
	Permissive bool `yaml:"permissive,omitempty"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level: info, debug, error
	Level string `yaml:"level,omitempty"`

	// Format: text, json
	Format string `yaml:"format,omitempty"`

	// Verbose enables verbose logging
	Verbose bool `yaml:"verbose,omitempty"`
}

// Default returns a configuration with every default applied and no pipe
// name, for runs driven by flags alone.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults
	cfg.setDefaults()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for unspecified fields
func (c *Config) setDefaults() {
	if c.Pipe.Direction == "" {
		c.Pipe.Direction = namedpipe.Outbound.String()
	}
	if c.Pipe.BufferSize == 0 {
		c.Pipe.BufferSize = namedpipe.DefaultBufferSize
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Pipe.Name == "" {
		return fmt.Errorf("pipe: name is required")
	}
	if _, ok := namedpipe.ParseDirection(c.Pipe.Direction); !ok {
		return fmt.Errorf("pipe: invalid direction %q (must be one of: inbound, outbound)", c.Pipe.Direction)
	}
	if c.Pipe.BufferSize < 0 || c.Pipe.BufferSize > namedpipe.MaxBufferSize {
		return fmt.Errorf("pipe: invalid buffer_size %d (must be between 0 and %d)", c.Pipe.BufferSize, namedpipe.MaxBufferSize)
	}
	if c.Pipe.ConnectTimeout < 0 {
		return fmt.Errorf("pipe: invalid connect_timeout %s", c.Pipe.ConnectTimeout)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: info, debug, error)", c.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be one of: text, json)", c.Logging.Format)
	}

	return nil
}

// PipeOptions converts the pipe section into channel options. Call
// Validate first; an invalid direction falls back to outbound.
func (c *Config) PipeOptions(logger logr.Logger) (*namedpipe.Options, namedpipe.Direction) {
	dir, ok := namedpipe.ParseDirection(c.Pipe.Direction)
	if !ok {
		dir = namedpipe.Outbound
	}
	return &namedpipe.Options{
		Token:          c.Pipe.Token,
		Dir:            c.Pipe.Dir,
		BufferSize:     c.Pipe.BufferSize,
		ConnectTimeout: c.Pipe.ConnectTimeout,
		Permissive:     c.Pipe.Permissive,
		Logger:         logger,
	}, dir
}

// MergeWithFlags merges CLI flags with config file (flags take precedence)
func (c *Config) MergeWithFlags(flags map[string]interface{}) {
	// Pipe settings
	if name, ok := flags["name"].(string); ok && name != "" {
		c.Pipe.Name = name
	}
	if inbound, ok := flags["inbound"].(bool); ok && inbound {
		c.Pipe.Direction = namedpipe.Inbound.String()
	}
	if outbound, ok := flags["outbound"].(bool); ok && outbound {
		c.Pipe.Direction = namedpipe.Outbound.String()
	}
	if token, ok := flags["token"].(string); ok && token != "" {
		c.Pipe.Token = token
	}
	if dir, ok := flags["dir"].(string); ok && dir != "" {
		c.Pipe.Dir = dir
	}
	if timeout, ok := flags["timeout"].(time.Duration); ok && timeout > 0 {
		c.Pipe.ConnectTimeout = timeout
	}
	if permissive, ok := flags["permissive"].(bool); ok && permissive {
		c.Pipe.Permissive = true
	}

	// Logging settings
	if verbose, ok := flags["v"].(bool); ok && verbose {
		c.Logging.Verbose = true
	}
}
