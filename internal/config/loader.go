package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"lxllama/internal/provider"
)

// Config holds runtime parameters for the CLI and the HTTP server.
// Zero values mean "unspecified"; flags override file values in main.
type Config struct {
	// ModelID selects the model, e.g. hf:<repo_id>[:<filename>].
	ModelID    string `json:"model_id" yaml:"model_id" toml:"model_id"`
	MaxWorkers int    `json:"max_workers" yaml:"max_workers" toml:"max_workers"`
	Verbose    bool   `json:"verbose" yaml:"verbose" toml:"verbose"`
	// ModelOptions are passed to the model loader (n_ctx, n_gpu_layers, cache_dir, ...).
	ModelOptions map[string]any `json:"model_options" yaml:"model_options" toml:"model_options"`
	// CompletionOptions apply to every completion (max_tokens, temperature, stop, ...).
	CompletionOptions map[string]any `json:"completion_options" yaml:"completion_options" toml:"completion_options"`

	Addr                string   `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel            string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	MaxBodyBytes        int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	InferTimeoutSeconds int64    `json:"infer_timeout_seconds" yaml:"infer_timeout_seconds" toml:"infer_timeout_seconds"`
	CORSEnabled         bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins  []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	CORSAllowedMethods  []string `json:"cors_allowed_methods" yaml:"cors_allowed_methods" toml:"cors_allowed_methods"`
	CORSAllowedHeaders  []string `json:"cors_allowed_headers" yaml:"cors_allowed_headers" toml:"cors_allowed_headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Provider returns the provider construction config.
func (c Config) Provider() provider.Config {
	return provider.Config{
		MaxWorkers:        c.MaxWorkers,
		Verbose:           c.Verbose,
		ModelOptions:      maps.Clone(c.ModelOptions),
		CompletionOptions: maps.Clone(c.CompletionOptions),
	}
}
