// Package config handles harmonium configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all daemon configuration.
type Config struct {
	Listen   ListenConfig   `yaml:"listen"`
	Database DatabaseConfig `yaml:"database"`
	Ollama   OllamaConfig   `yaml:"ollama"`
	Engine   EngineConfig   `yaml:"engine"`
	Idle     IdleConfig     `yaml:"idle"`
	AdminKey string         `yaml:"admin_key"`
	LogLevel string         `yaml:"log_level"`
}

// ListenConfig defines the HTTP API listener.
type ListenConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig defines the SQLite store location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// OllamaConfig defines the generation backend. An empty URL disables it.
type OllamaConfig struct {
	URL        string `yaml:"url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Timeout returns the request timeout as a duration.
func (o OllamaConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSec) * time.Second
}

// EngineConfig selects the update rule and its stochastic source.
type EngineConfig struct {
	// Rule: "damped" (default) or "nonlinear".
	Rule string `yaml:"rule"`
	// Noise: "gaussian" (default) or "fractal". Only the nonlinear rule
	// consumes noise.
	Noise string `yaml:"noise"`
	Seed  int64  `yaml:"seed"`
}

// IdleConfig controls the autonomous observation loop.
type IdleConfig struct {
	Enabled     bool `yaml:"enabled"`
	IntervalSec int  `yaml:"interval_sec"`
}

// Interval returns the idle interval as a duration.
func (i IdleConfig) Interval() time.Duration {
	return time.Duration(i.IntervalSec) * time.Second
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:   ListenConfig{Port: 8643},
		Database: DatabaseConfig{Path: "data/harmonium.db"},
		Ollama: OllamaConfig{
			URL:        "http://localhost:11434",
			Model:      "llama3.2:3b",
			TimeoutSec: 10,
		},
		Engine: EngineConfig{Rule: "damped", Noise: "gaussian", Seed: 42},
		Idle:   IdleConfig{Enabled: false, IntervalSec: 30},
	}
}

// DefaultSearchPaths returns the config file search order.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "harmonium", "config.yaml"))
	}
	paths = append(paths, "/etc/harmonium/config.yaml")
	return paths
}

// Load reads configuration. An explicit path must exist; otherwise the
// search paths are tried and, if none exists, the defaults are returned —
// a missing config file is not an error.
// Environment overrides are applied last: HARMONIUM_ADMIN_KEY, OLLAMA_URL.
func Load(explicit string) (Config, error) {
	cfg := Default()

	path := explicit
	if path == "" {
		for _, p := range DefaultSearchPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("HARMONIUM_ADMIN_KEY"); v != "" {
		cfg.AdminKey = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.Ollama.URL = v
	}

	return cfg, nil
}
