// Package config loads and persists workstation configuration.
//
// Settings live in .pwx-config.yaml and can be overridden with
// PWX_-prefixed environment variables. Provider credentials are never
// written to the config file; they come from CLAUDE_API_KEY,
// OPENAI_API_KEY, ULM_API_KEY and GEMINI_API_KEY.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config enumerates every recognized option. Unknown keys are
// rejected by Set; bad values are rejected by Validate.
type Config struct {
	OutputDirectory    string  `mapstructure:"output_dir" yaml:"output_dir,omitempty"`
	TemplatesDirectory string  `mapstructure:"templates_dir" yaml:"templates_dir,omitempty"`
	AssetsDirectory    string  `mapstructure:"assets_dir" yaml:"assets_dir,omitempty"`
	ClaudeModel        string  `mapstructure:"claude_model" yaml:"claude_model,omitempty"`
	OpenAIModel        string  `mapstructure:"openai_model" yaml:"openai_model,omitempty"`
	ULMBaseURL         string  `mapstructure:"ulm_base_url" yaml:"ulm_base_url,omitempty"`
	GeminiModel        string  `mapstructure:"gemini_model" yaml:"gemini_model,omitempty"`
	ServerAddr         string  `mapstructure:"server_addr" yaml:"server_addr,omitempty"`
	RequestsPerSecond  float64 `mapstructure:"requests_per_second" yaml:"requests_per_second,omitempty"`
	MaxRetries         int     `mapstructure:"max_retries" yaml:"max_retries,omitempty"`

	// Credentials, resolved from the environment at load time.
	Keys Keys `mapstructure:"-" yaml:"-"`
}

// Keys holds provider API keys. Empty means not configured; adapters
// fail fast with a configuration error rather than attempting a call.
type Keys struct {
	Claude string
	OpenAI string
	ULM    string
	Gemini string
}

// FieldError reports an invalid or missing configuration field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

var (
	configFile = ".pwx-config.yaml"
	v          *viper.Viper
)

var validKeys = []string{
	"output_dir", "templates_dir", "assets_dir",
	"claude_model", "openai_model", "ulm_base_url", "gemini_model",
	"server_addr", "requests_per_second", "max_retries",
}

func init() {
	v = newViper()
}

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetConfigFile(configFile)

	nv.SetDefault("output_dir", "./output")
	nv.SetDefault("templates_dir", "./templates")
	nv.SetDefault("assets_dir", "./assets")
	nv.SetDefault("claude_model", "claude-3-sonnet-20240229")
	nv.SetDefault("openai_model", "gpt-4o")
	nv.SetDefault("ulm_base_url", "https://api.ulm.example.com/v1")
	nv.SetDefault("gemini_model", "gemini-2.5-flash")
	nv.SetDefault("server_addr", ":8080")
	nv.SetDefault("requests_per_second", 1.0)
	nv.SetDefault("max_retries", 0)

	nv.SetEnvPrefix("PWX")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	// Missing config file is fine; defaults apply.
	_ = nv.ReadInConfig()
	return nv
}

// Path returns the config file location.
func Path() string {
	return configFile
}

// Load unmarshals the config, resolves credentials from the
// environment, and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Keys = Keys{
		Claude: os.Getenv("CLAUDE_API_KEY"),
		OpenAI: os.Getenv("OPENAI_API_KEY"),
		ULM:    os.Getenv("ULM_API_KEY"),
		Gemini: os.Getenv("GEMINI_API_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field. Credentials are deliberately not
// required here: each adapter reports its own missing key.
func (c *Config) Validate() error {
	if c.OutputDirectory == "" {
		return &FieldError{Field: "output_dir", Reason: "must not be empty"}
	}
	if c.TemplatesDirectory == "" {
		return &FieldError{Field: "templates_dir", Reason: "must not be empty"}
	}
	if c.AssetsDirectory == "" {
		return &FieldError{Field: "assets_dir", Reason: "must not be empty"}
	}
	if c.ULMBaseURL == "" {
		return &FieldError{Field: "ulm_base_url", Reason: "must not be empty"}
	}
	if c.RequestsPerSecond <= 0 {
		return &FieldError{Field: "requests_per_second", Reason: "must be positive"}
	}
	if c.MaxRetries < 0 {
		return &FieldError{Field: "max_retries", Reason: "must not be negative"}
	}
	if c.ServerAddr == "" {
		return &FieldError{Field: "server_addr", Reason: "must not be empty"}
	}
	return nil
}

// Get returns a single config value by key.
func Get(key string) (string, error) {
	for _, k := range validKeys {
		if k == key {
			return v.GetString(key), nil
		}
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// Set updates a single config value and persists the file.
func Set(key, value string) error {
	found := false
	for _, k := range validKeys {
		if k == key {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("unknown config key: %s (valid: %s)", key, strings.Join(validKeys, ", "))
	}

	v.Set(key, value)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	return writeConfig(&cfg)
}

// All returns every user-facing setting.
func All() map[string]string {
	out := make(map[string]string, len(validKeys))
	for _, k := range validKeys {
		out[k] = v.GetString(k)
	}
	return out
}

// Save persists the full config.
func Save(c *Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return writeConfig(c)
}

func writeConfig(cfg *Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(configFile, buf.Bytes(), 0o644)
}

// ResetForTest points the package at a temp location (only use in tests).
func ResetForTest(testPath string) {
	configFile = testPath + "/.pwx-config.yaml"
	v = newViper()
}
