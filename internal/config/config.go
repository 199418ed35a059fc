// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults, and API keys
// can come from the environment instead.
type Config struct {
	// Backends
	OllamaURL         string `json:"ollama_url,omitempty" validate:"omitempty,url"`
	OpenRouterBaseURL string `json:"openrouter_base_url,omitempty" validate:"omitempty,url"`
	OpenRouterAPIKey  string `json:"openrouter_api_key,omitempty"`
	GeminiAPIKey      string `json:"gemini_api_key,omitempty"`

	// Pipeline behavior
	AttemptTimeoutSeconds int `json:"attempt_timeout_seconds,omitempty" validate:"gte=0,lte=3600"`
	MaxConcurrent         int `json:"max_concurrent,omitempty" validate:"gte=0,lte=32"`
	MinTextLength         int `json:"min_text_length,omitempty" validate:"gte=0"`

	// Paths
	DataDir        string `json:"data_dir,omitempty"`         // Root for cached text and results
	GroundTruthDir string `json:"ground_truth_dir,omitempty"` // Directory of ground truth JSON files

	// Persistence and output
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

var validate = validator.New()

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		OllamaURL:             "http://localhost:11434",
		AttemptTimeoutSeconds: 120,
		MaxConcurrent:         3,
		MinTextLength:         120,
		DataDir:               "data",
		GroundTruthDir:        "ground_truth",
	}
}

// Load loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overlays environment variables onto the config. Environment
// values win over file values so deployments can keep keys out of files.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		c.OllamaURL = v
	}
	if v := os.Getenv("OPENROUTER_BASE_URL"); v != "" {
		c.OpenRouterBaseURL = v
	}
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		c.OpenRouterAPIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.GeminiAPIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.GroundTruthDir != "" {
		if info, err := os.Stat(c.GroundTruthDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: 'ground_truth_dir' is not a directory: %s", c.GroundTruthDir)
		}
	}
	return nil
}

// WithDefaults returns a new Config with unset fields filled from defaults.
func (c *Config) WithDefaults(defaults Config) Config {
	result := *c

	if result.OllamaURL == "" {
		result.OllamaURL = defaults.OllamaURL
	}
	if result.OpenRouterBaseURL == "" {
		result.OpenRouterBaseURL = defaults.OpenRouterBaseURL
	}
	if result.OpenRouterAPIKey == "" {
		result.OpenRouterAPIKey = defaults.OpenRouterAPIKey
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.GroundTruthDir == "" {
		result.GroundTruthDir = defaults.GroundTruthDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.AttemptTimeoutSeconds == 0 {
		result.AttemptTimeoutSeconds = defaults.AttemptTimeoutSeconds
	}
	if result.MaxConcurrent == 0 {
		result.MaxConcurrent = defaults.MaxConcurrent
	}
	if result.MinTextLength == 0 {
		result.MinTextLength = defaults.MinTextLength
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
