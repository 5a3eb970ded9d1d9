// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package config holds chanctl configuration, read with viper
// from a config file, the environment and command line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nxgtw/go-msgchan/mq"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables, e.g. CHANCTL_LOGGING_LEVEL.
const EnvPrefix = "CHANCTL"

// Config is the complete chanctl configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Registry RegistryConfig `mapstructure:"registry"`
	Bench    BenchConfig    `mapstructure:"bench"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Format is text or json.
	Format string `mapstructure:"format"`
}

// RegistryConfig controls channels created from manifests.
type RegistryConfig struct {
	// DefaultLimit is used for channels, which don't set a limit.
	// Negative - unbounded, 0 - rendezvous.
	DefaultLimit int `mapstructure:"default_limit"`
}

// BenchConfig controls the bench command.
type BenchConfig struct {
	Producers int `mapstructure:"producers"`
	Consumers int `mapstructure:"consumers"`
	// Messages is the number of messages sent by every producer.
	Messages int `mapstructure:"messages"`
	Limit    int `mapstructure:"limit"`
	// SendTimeoutMs and RecvTimeoutMs follow the integer convention:
	// 0 - no wait, negative - forever.
	SendTimeoutMs int `mapstructure:"send_timeout_ms"`
	RecvTimeoutMs int `mapstructure:"recv_timeout_ms"`
}

// SendTimeout returns the send timeout.
func (c *BenchConfig) SendTimeout() mq.Timeout {
	return mq.Millis(c.SendTimeoutMs)
}

// RecvTimeout returns the receive timeout.
func (c *BenchConfig) RecvTimeout() mq.Timeout {
	return mq.Millis(c.RecvTimeoutMs)
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Registry: RegistryConfig{
			DefaultLimit: mq.Unbounded,
		},
		Bench: BenchConfig{
			Producers:     4,
			Consumers:     4,
			Messages:      10000,
			Limit:         64,
			SendTimeoutMs: -1,
			RecvTimeoutMs: -1,
		},
	}
}

// SetDefaults registers default values in v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("registry.default_limit", defaults.Registry.DefaultLimit)

	v.SetDefault("bench.producers", defaults.Bench.Producers)
	v.SetDefault("bench.consumers", defaults.Bench.Consumers)
	v.SetDefault("bench.messages", defaults.Bench.Messages)
	v.SetDefault("bench.limit", defaults.Bench.Limit)
	v.SetDefault("bench.send_timeout_ms", defaults.Bench.SendTimeoutMs)
	v.SetDefault("bench.recv_timeout_ms", defaults.Bench.RecvTimeoutMs)
}

// Setup prepares v: defaults, the environment, and the config file.
// If file is empty, chanctl.yaml is searched in the current directory and in Dir().
// A missing default config file is not an error.
func Setup(v *viper.Viper, file string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("chanctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(err, "config: failed to read config file")
	}
	return nil
}

// Load reads the configuration from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: failed to decode")
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// Dir returns the user's chanctl config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chanctl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chanctl"
	}
	return filepath.Join(home, ".config", "chanctl")
}
