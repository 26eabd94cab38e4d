// Package config loads the CLI configuration from an optional YAML file and
// AGEGROUP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reoring/agegroup/extract"
)

// Config holds all agegroup CLI configuration.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Watch  WatchConfig  `yaml:"watch"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error
	Encoding string `yaml:"encoding"` // console, json
}

// InputConfig configures how input is read.
type InputConfig struct {
	Format extract.Format `yaml:"format"`
	Strict bool           `yaml:"strict"` // validate the input shape against the JSON Schema
}

// OutputConfig configures how results are written.
type OutputConfig struct {
	Format extract.Format `yaml:"format"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Encoding: "console"},
		Input:  InputConfig{Format: extract.JSON},
		Output: OutputConfig{Format: extract.JSON},
		Watch:  WatchConfig{Debounce: 300 * time.Millisecond},
	}
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("AGEGROUP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("AGEGROUP_LOG_ENCODING"); v != "" {
		c.Log.Encoding = v
	}
	if v := os.Getenv("AGEGROUP_INPUT_FORMAT"); v != "" {
		f, err := extract.ParseFormat(v)
		if err != nil {
			return fmt.Errorf("AGEGROUP_INPUT_FORMAT: %w", err)
		}
		c.Input.Format = f
	}
	if v := os.Getenv("AGEGROUP_OUTPUT_FORMAT"); v != "" {
		f, err := extract.ParseFormat(v)
		if err != nil {
			return fmt.Errorf("AGEGROUP_OUTPUT_FORMAT: %w", err)
		}
		c.Output.Format = f
	}
	if v := os.Getenv("AGEGROUP_STRICT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AGEGROUP_STRICT: %w", err)
		}
		c.Input.Strict = b
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: unknown level %q", c.Log.Level)
	}
	switch c.Log.Encoding {
	case "console", "json":
	default:
		return fmt.Errorf("log.encoding: unknown encoding %q", c.Log.Encoding)
	}
	if c.Watch.Debounce < 0 {
		return errors.New("watch.debounce: must not be negative")
	}
	return nil
}
