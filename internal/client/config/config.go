// Package config loads the terminal client's configuration with viper.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STOCKRESEARCH_SERVER.
const EnvPrefix = "STOCKRESEARCH"

// Config holds client configuration.
type Config struct {
	Server  string `mapstructure:"server"`
	DBPath  string `mapstructure:"db"`
	Debug   bool   `mapstructure:"debug"`
	LogFile string `mapstructure:"log_file"`
}

// DefaultConfigDir returns the client's configuration directory.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "stockresearch")
}

// New returns a viper instance with defaults, environment overrides and an
// optional config.toml in configDir.
func New(configDir string) *viper.Viper {
	v := viper.New()
	v.SetDefault("server", "http://localhost:8080")
	v.SetDefault("db", filepath.Join(configDir, "client.db"))
	v.SetDefault("debug", false)
	v.SetDefault("log_file", "")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	return v
}

// Load reads the optional config file and unmarshals the merged settings.
// Flags bound to v take precedence over the environment and the file.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
