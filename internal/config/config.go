// Package config loads moxiutil settings from a YAML or JSON file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	yaml "go.yaml.in/yaml/v3"

	"github.com/couchbase/moxi-sub001/internal/cstr"
	"github.com/couchbase/moxi-sub001/internal/logging"
)

// Log controls the process logger.
type Log struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // text or json
}

// Alloc controls how owned strings are allocated.
type Alloc struct {
	Policy string `json:"policy,omitempty" yaml:"policy,omitempty"` // abort or propagate
	Limit  string `json:"limit,omitempty" yaml:"limit,omitempty"`   // e.g. "64MiB"; empty or "0" = unlimited
}

// Split holds tokenizer defaults.
type Split struct {
	Delims   string `json:"delims,omitempty" yaml:"delims,omitempty"`
	Parallel int    `json:"parallel,omitempty" yaml:"parallel,omitempty"`
}

// Config is the moxiutil configuration file.
type Config struct {
	Log        Log   `json:"log" yaml:"log"`
	Alloc      Alloc `json:"alloc" yaml:"alloc"`
	Split      Split `json:"split" yaml:"split"`
	WatchStdin bool  `json:"watch_stdin,omitempty" yaml:"watch_stdin,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Log:   Log{Level: "info", Format: "text"},
		Alloc: Alloc{Policy: "abort"},
		Split: Split{Delims: " \t", Parallel: 4},
	}
}

// LoadFromPath reads a config file (YAML or JSON) on top of Default.
// Format is detected by extension (.yaml/.yml, .json) or by content.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses config from bytes. ext is the file extension used as a format
// hint; empty means detect from content.
func Load(data []byte, ext string) (*Config, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == "" {
		ext = ".yaml"
		if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
			ext = ".json"
		}
	}

	c := Default()
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config json: %w", err)
		}
	case ".yaml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every field that has a fixed vocabulary.
func (c *Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if _, err := cstr.ParsePolicy(c.Alloc.Policy); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Limit(); err != nil {
		errs = append(errs, err)
	}
	if c.Split.Parallel < 0 {
		errs = append(errs, fmt.Errorf("split.parallel must not be negative, got %d", c.Split.Parallel))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Limit returns the allocation budget in bytes; 0 means unlimited.
func (c *Config) Limit() (uint64, error) {
	s := strings.TrimSpace(c.Alloc.Limit)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("alloc.limit: %w", err)
	}
	return n, nil
}

// Policy returns the parsed allocation policy.
func (c *Config) Policy() (cstr.Policy, error) {
	return cstr.ParsePolicy(c.Alloc.Policy)
}
