package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DATABASE_URL", "CLAUDE_API_KEY", "LLM_MIN_INTERVAL", "ALLOWED_ORIGINS", "KEEP_PREAMBLE", "LLM_ENABLED"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.LLMMinInterval)
	assert.False(t, cfg.KeepPreamble)
	assert.False(t, cfg.AssistantEnabled())
	assert.Len(t, cfg.AllowedOrigins, 2)
	assert.ErrorIs(t, cfg.RequireDatabase(), ErrMissingDatabaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/resumeiq")
	t.Setenv("CLAUDE_API_KEY", "sk-test")
	t.Setenv("LLM_ENABLED", "true")
	t.Setenv("LLM_MIN_INTERVAL", "2.5")
	t.Setenv("KEEP_PREAMBLE", "true")
	t.Setenv("BATCH_LIMIT", "8")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	require.NoError(t, cfg.RequireDatabase())
	assert.True(t, cfg.AssistantEnabled())
	assert.Equal(t, 2500*time.Millisecond, cfg.LLMMinInterval)
	assert.True(t, cfg.KeepPreamble)
	assert.Equal(t, 8, cfg.BatchLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_DUR", "750ms")
	t.Setenv("X_BAD", "soon")
	t.Setenv("X_INT", "abc")
	t.Setenv("X_BOOL", "nah")

	assert.Equal(t, 750*time.Millisecond, getEnvDuration("X_DUR", time.Second))
	assert.Equal(t, time.Second, getEnvDuration("X_BAD", time.Second))
	assert.Equal(t, 3, getEnvInt("X_INT", 3))
	assert.True(t, getEnvBool("X_BOOL", true))
}

func TestAssistantDisabledByFlag(t *testing.T) {
	t.Setenv("CLAUDE_API_KEY", "sk-test")
	t.Setenv("LLM_ENABLED", "false")
	assert.False(t, Load().AssistantEnabled())
}
