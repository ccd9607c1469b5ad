package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ichiban/horn/proof"
)

// Config is the content of a config file. Command line flags take precedence over it.
type Config struct {
	Verbose  bool     `yaml:"verbose"`
	LogLevel string   `yaml:"log_level"`
	MaxDepth int      `yaml:"max_depth"`
	Database string   `yaml:"database"`
	Program  string   `yaml:"program"`
	Consult  []string `yaml:"consult"`
}

// DefaultConfig returns the config without a config file.
func DefaultConfig() Config {
	return Config{
		LogLevel: logrus.WarnLevel.String(),
		MaxDepth: proof.DefaultMaxDepth,
	}
}

// LoadConfig loads a config from a YAML file. Keys missing in the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	if _, err := cfg.Level(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Level returns the log level.
func (c Config) Level() (logrus.Level, error) {
	return logrus.ParseLevel(c.LogLevel)
}
