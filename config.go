package chatpod

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/boat-builder/chatpod/llm"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all chatpod configuration.
type Config struct {
	// Remote model
	Provider string        `yaml:"provider"` // gemini, openai, mock
	APIKey   string        `yaml:"api_key"`
	BaseURL  string        `yaml:"base_url"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`

	// Web surface
	Addr         string        `yaml:"addr"`
	AllowOrigins []string      `yaml:"allow_origins"`
	SessionTTL   time.Duration `yaml:"session_ttl"`

	// Logging
	LogLevel  string `yaml:"log_level"`  // debug, info, warn, error
	LogFormat string `yaml:"log_format"` // text, json

	// TagSessions sends the session ID with each OpenAI request as
	// custom_identifier. Only proxy gateways accept the extra field.
	TagSessions bool `yaml:"tag_sessions"`

	// Provider credentials found in the environment. They are looked up by
	// the provider in effect when the config is used, so a provider chosen
	// after LoadConfig still gets its own key.
	envKeys     map[string]string
	envBaseURLs map[string]string
}

func DefaultConfig() *Config {
	return &Config{
		Provider:   llm.ProviderGemini,
		Timeout:    60 * time.Second,
		Addr:       "127.0.0.1:8501",
		SessionTTL: DefaultSessionTTL,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// LoadConfig reads .env (if present), then the YAML file at path (if not
// empty), then environment overrides.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, falling back to environment variables", "error", err)
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := getEnv("CHATPOD_PROVIDER", ""); v != "" {
		c.Provider = strings.ToLower(v)
	}

	c.envKeys = map[string]string{
		llm.ProviderGemini: getEnv("GOOGLE_API_KEY", getEnv("GEMINI_API_KEY", "")),
		llm.ProviderOpenAI: getEnv("OPENAI_API_KEY", ""),
	}
	c.envBaseURLs = map[string]string{
		llm.ProviderOpenAI: getEnv("OPENAI_BASE_URL", ""),
	}

	if v := getEnv("CHATPOD_BASE_URL", ""); v != "" {
		c.BaseURL = v
	}
	if v := getEnv("CHATPOD_MODEL", ""); v != "" {
		c.Model = v
	}
	if v := getEnv("CHATPOD_ADDR", ""); v != "" {
		c.Addr = v
	}
	if v := getEnv("CHATPOD_LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("CHATPOD_LOG_FORMAT", ""); v != "" {
		c.LogFormat = v
	}
	if v := getEnv("CHATPOD_TAG_SESSIONS", ""); v != "" {
		tag, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CHATPOD_TAG_SESSIONS: %w", err)
		}
		c.TagSessions = tag
	}

	var err error
	if c.Timeout, err = durationEnv("CHATPOD_TIMEOUT", c.Timeout); err != nil {
		return err
	}
	if c.SessionTTL, err = durationEnv("CHATPOD_SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	return nil
}

// Validate reports the first problem that would stop the server from starting.
func (c *Config) Validate() error {
	switch c.Provider {
	case llm.ProviderGemini, llm.ProviderOpenAI:
		if c.Credential() == "" {
			return fmt.Errorf("API key is required for provider %q", c.Provider)
		}
	case llm.ProviderMock:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.Addr == "" {
		return errors.New("listen address is required")
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	return nil
}

// Credential returns the API key for the current provider. A key from the
// provider's own environment variable wins over api_key.
func (c *Config) Credential() string {
	if v := c.envKeys[c.Provider]; v != "" {
		return v
	}
	return c.APIKey
}

// Endpoint returns the base URL for the current provider. An explicit
// base_url (file, CHATPOD_BASE_URL or flag) wins over OPENAI_BASE_URL.
func (c *Config) Endpoint() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return c.envBaseURLs[c.Provider]
}

// LLMConfig returns the settings for llm.New.
func (c *Config) LLMConfig() llm.Config {
	return llm.Config{
		Provider:    c.Provider,
		APIKey:      c.Credential(),
		BaseURL:     c.Endpoint(),
		Model:       c.Model,
		Timeout:     c.Timeout,
		TagSessions: c.TagSessions,
	}
}

// NewLogger builds the process logger described by the config.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
