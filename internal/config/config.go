// Package config loads the application configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/jsvensson/customtheme/internal/kv"
	"github.com/jsvensson/customtheme/internal/theme"
)

// DefaultPath is the configuration file read when none is given.
const DefaultPath = "customtheme.hcl"

// Config is the decoded configuration file.
type Config struct {
	Storage Storage
	Server  Server
	Theme   Theme
	Log     Log
}

// Storage selects the persistence backend.
type Storage struct {
	Driver string `hcl:"driver,optional"`
	Path   string `hcl:"path,optional"`
}

// Server configures the HTTP surface.
type Server struct {
	Listen string `hcl:"listen,optional"`
}

// Theme holds theme defaults.
type Theme struct {
	DefaultSelector string `hcl:"default_selector,optional"`
}

// Log configures commonlog.
type Log struct {
	Verbosity int    `hcl:"verbosity,optional"`
	File      string `hcl:"file,optional"`
}

// file mirrors Config with optional blocks for decoding.
type file struct {
	Storage *Storage `hcl:"storage,block"`
	Server  *Server  `hcl:"server,block"`
	Theme   *Theme   `hcl:"theme,block"`
	Log     *Log     `hcl:"log,block"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Storage: Storage{Driver: kv.DriverFile, Path: ".customtheme"},
		Server:  Server{Listen: "127.0.0.1:8080"},
		Theme:   Theme{DefaultSelector: string(theme.SelectorLight)},
		Log:     Log{Verbosity: 0},
	}
}

// Load reads the configuration at path over the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	src, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(src, path)
}

// Parse decodes HCL configuration source over the defaults and validates it.
func Parse(src []byte, filename string) (*Config, error) {
	f, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	var raw file
	if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("decoding config: %s", diags.Error())
	}

	cfg := Default()
	if raw.Storage != nil {
		if raw.Storage.Driver != "" {
			cfg.Storage.Driver = raw.Storage.Driver
		}
		if raw.Storage.Path != "" {
			cfg.Storage.Path = raw.Storage.Path
		}
	}
	if raw.Server != nil && raw.Server.Listen != "" {
		cfg.Server.Listen = raw.Server.Listen
	}
	if raw.Theme != nil && raw.Theme.DefaultSelector != "" {
		cfg.Theme.DefaultSelector = raw.Theme.DefaultSelector
	}
	if raw.Log != nil {
		cfg.Log = *raw.Log
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be caught by decoding.
func (c *Config) Validate() error {
	drivers := []string{kv.DriverFile, kv.DriverSQLite, kv.DriverMemory}
	if !slices.Contains(drivers, c.Storage.Driver) {
		return fmt.Errorf("storage driver %q is not one of %v", c.Storage.Driver, drivers)
	}
	if c.Storage.Driver != kv.DriverMemory && c.Storage.Path == "" {
		return fmt.Errorf("storage path is required for driver %q", c.Storage.Driver)
	}
	if _, err := theme.ParseSelector(c.Theme.DefaultSelector); err != nil {
		return fmt.Errorf("theme default_selector: %w", err)
	}
	if c.Log.Verbosity < 0 {
		return fmt.Errorf("log verbosity must not be negative, got %d", c.Log.Verbosity)
	}
	return nil
}

// Selector returns the validated default selector.
func (c *Config) Selector() theme.Selector {
	sel, err := theme.ParseSelector(c.Theme.DefaultSelector)
	if err != nil {
		return theme.SelectorLight
	}
	return sel
}
