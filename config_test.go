package chatpod

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boat-builder/chatpod/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearChatpodEnv(t *testing.T) {
	for _, key := range []string{
		"GOOGLE_API_KEY", "GEMINI_API_KEY", "OPENAI_API_KEY", "OPENAI_BASE_URL",
		"CHATPOD_PROVIDER", "CHATPOD_BASE_URL", "CHATPOD_MODEL", "CHATPOD_ADDR",
		"CHATPOD_TIMEOUT", "CHATPOD_SESSION_TTL", "CHATPOD_LOG_LEVEL", "CHATPOD_LOG_FORMAT",
		"CHATPOD_TAG_SESSIONS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults with GOOGLE_API_KEY", func(t *testing.T) {
		clearChatpodEnv(t)
		t.Setenv("GOOGLE_API_KEY", "g-key")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, llm.ProviderGemini, cfg.Provider)
		assert.Equal(t, "g-key", cfg.Credential())
		assert.Equal(t, 60*time.Second, cfg.Timeout)
		assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("yaml file then env overrides", func(t *testing.T) {
		clearChatpodEnv(t)
		path := filepath.Join(t.TempDir(), "chatpod.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
provider: openai
api_key: file-key
model: gpt-4o
timeout: 15s
addr: ":9000"
session_ttl: 5m
allow_origins:
  - http://localhost:3000
`), 0o644))
		t.Setenv("OPENAI_API_KEY", "env-key")
		t.Setenv("CHATPOD_MODEL", "gpt-4o-mini")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, llm.ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "file-key", cfg.APIKey)
		assert.Equal(t, "env-key", cfg.Credential())
		assert.Equal(t, "gpt-4o-mini", cfg.Model)
		assert.Equal(t, 15*time.Second, cfg.Timeout)
		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
		assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowOrigins)

		llmCfg := cfg.LLMConfig()
		assert.Equal(t, "env-key", llmCfg.APIKey)
		assert.Equal(t, "gpt-4o-mini", llmCfg.Model)
		assert.Equal(t, 15*time.Second, llmCfg.Timeout)
	})

	t.Run("provider changed after load", func(t *testing.T) {
		clearChatpodEnv(t)
		t.Setenv("GOOGLE_API_KEY", "AIza-google")
		t.Setenv("OPENAI_API_KEY", "sk-openai")
		t.Setenv("OPENAI_BASE_URL", "https://gateway.example/v1")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "AIza-google", cfg.Credential())
		assert.Empty(t, cfg.Endpoint(), "OPENAI_BASE_URL is not for gemini")

		cfg.Provider = llm.ProviderOpenAI
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "sk-openai", cfg.LLMConfig().APIKey)
		assert.Equal(t, "https://gateway.example/v1", cfg.LLMConfig().BaseURL)

		cfg.BaseURL = "http://localhost:4000"
		assert.Equal(t, "http://localhost:4000", cfg.Endpoint())
	})

	t.Run("openai key only", func(t *testing.T) {
		clearChatpodEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-openai")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Error(t, cfg.Validate(), "gemini has no key")

		cfg.Provider = llm.ProviderOpenAI
		assert.NoError(t, cfg.Validate())
	})

	t.Run("tag sessions", func(t *testing.T) {
		clearChatpodEnv(t)
		t.Setenv("CHATPOD_TAG_SESSIONS", "true")
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.True(t, cfg.LLMConfig().TagSessions)

		t.Setenv("CHATPOD_TAG_SESSIONS", "sometimes")
		_, err = LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		clearChatpodEnv(t)
		t.Setenv("CHATPOD_TIMEOUT", "soon")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		clearChatpodEnv(t)
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.Validate(), "gemini without a key")

	cfg.Provider = llm.ProviderMock
	assert.NoError(t, cfg.Validate())

	cfg.Provider = "bard"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.APIKey = "k"
	cfg.Addr = ""
	assert.Error(t, cfg.Validate())
}
