// Package config loads lifeexp settings from a YAML file merged over
// defaults. Command-line flags override the loaded values in each cmd.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/ezoic/lifeexp/pkg/errors"
	"github.com/ezoic/lifeexp/pkg/log"
)

const (
	// DefaultFile is read from the working directory when no file is named.
	DefaultFile = "lifeexp.yaml"
	// EnvFile names a config file when -config is not given.
	EnvFile = "LIFEEXP_CONFIG"
)

// Config is the full application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Train   TrainConfig   `yaml:"train"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
}

// DataConfig locates the training CSV.
type DataConfig struct {
	Path string `yaml:"path"`
}

// TrainConfig holds the gradient descent settings and the default weights
// file written by train.
type TrainConfig struct {
	LearningRate float64 `yaml:"learning_rate"`
	WeightsPath  string  `yaml:"weights_path"`
}

// ServerConfig configures the prediction server. With Watch set the server
// reloads the weights file when it changes.
type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

// LogConfig selects the log level and format. A non-empty File sends logs to
// a rotated file instead of stderr.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// HistoryConfig enables the training run ledger when Path is non-empty.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Data:  DataConfig{Path: "data/bmi_and_life_expectancy.csv"},
		Train: TrainConfig{LearningRate: 1e-6, WeightsPath: "weights.gob"},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path falls
// back to $LIFEEXP_CONFIG and then to lifeexp.yaml; only the implicit
// lifeexp.yaml may be absent.
//
// Load does not validate the values: callers apply their overrides and then
// call Validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := true
	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path == "" {
		path, explicit = DefaultFile, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.NewParseError(path, 0, "", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	lr := c.Train.LearningRate
	if !(lr > 0) || math.IsInf(lr, 0) {
		return errors.NewValidationError("train.learning_rate", "must be a positive finite number", lr)
	}
	for _, f := range []struct{ name, value string }{
		{"data.path", c.Data.Path},
		{"train.weights_path", c.Train.WeightsPath},
		{"server.addr", c.Server.Addr},
	} {
		if f.value == "" {
			return errors.NewValidationError(f.name, "must not be empty", f.value)
		}
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return errors.NewValidationError("log.level", "unknown level", c.Log.Level)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return errors.NewValidationError("log.format", "must be console or json", c.Log.Format)
	}
	return nil
}

// LogOptions converts the log section for log.Configure.
func (c *Config) LogOptions() log.Options {
	return log.Options{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}

// String renders the configuration as YAML.
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(out)
}
