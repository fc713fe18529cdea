// Package config provides configuration loading and structs for the
// kyori server and CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application. Extensions
// filters every audio directory load, background and evaluation sets
// alike.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Extensions []string         `yaml:"extensions"`
	Server     ServerConfig     `yaml:"server"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Cache      CacheConfig      `yaml:"cache"`
	Background BackgroundConfig `yaml:"background"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// EmbeddingConfig holds VGGish embedder settings. UsePCA and
// UseActivation select the model output head; they are embedder options,
// not scoring options, and are folded into the statistics cache key.
type EmbeddingConfig struct {
	ModelPath     string  `yaml:"model_path"`
	Dimensions    int     `yaml:"dimensions"`
	SampleRate    int     `yaml:"sample_rate"`
	WindowSeconds float64 `yaml:"window_seconds"`
	UsePCA        bool    `yaml:"use_pca"`
	UseActivation bool    `yaml:"use_activation"`
	CacheSize     int     `yaml:"cache_size"`
	Workers       int     `yaml:"workers"`
}

// CacheConfig holds the background-statistics cache settings.
// Backend is "disk" or "sqlite".
type CacheConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// BackgroundConfig holds the reference audio set settings.
type BackgroundConfig struct {
	Directory string `yaml:"directory"`
}

// Load reads and parses the config file at path, expands paths, and
// applies defaults. Returns an error if the file cannot be read or
// parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	cfg.Cache.Path = expandPath(cfg.Cache.Path, configDir)
	cfg.Background.Directory = expandPath(cfg.Background.Directory, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
