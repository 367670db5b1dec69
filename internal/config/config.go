// Package config loads the opushead command configuration.
//
// The file is YAML:
//
//	log:
//	  level: info
//	  format: ""
//	defaults:
//	  pre_skip: 312
//	  gain: 0
//	  input_rate: 48000
//
// Missing keys keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/thesyncim/opushead"
)

// EnvPath names the environment variable consulted when no path is given.
const EnvPath = "OPUSHEAD_CONFIG"

// Config is the command configuration.
type Config struct {
	Log      Log      `yaml:"log"`
	Defaults Defaults `yaml:"defaults"`
}

// Log configures the command logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults are the header field values used when a flag is not set.
type Defaults struct {
	PreSkip   uint16 `yaml:"pre_skip"`
	Gain      int16  `yaml:"gain"`
	InputRate uint32 `yaml:"input_rate"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: Log{Level: "info"},
		Defaults: Defaults{
			PreSkip:   312,
			InputRate: opushead.DecodeSampleRate,
		},
	}
}

// Load reads the configuration from path, or from $OPUSHEAD_CONFIG when
// path is empty. With neither set it returns Default. A file that was
// named but cannot be read is an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg, keeping fields the document does not set.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks the values that the YAML types cannot.
func (c *Config) Validate() error {
	if c.Defaults.InputRate == 0 {
		return errors.New("defaults.input_rate must be positive")
	}
	return nil
}
