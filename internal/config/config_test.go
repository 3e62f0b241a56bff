package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jordanarrivado/ajs-portfolio/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("OPENAI_ENDPOINT", "https://models.github.ai/inference")
	t.Setenv("OPENAI_API_KEY", "key-1")
	t.Setenv("OPENAI_API_KEY2", "key-2")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 130*time.Second, cfg.Server.MiddlewareTimeout)
	assert.Equal(t, 140*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "openai/gpt-4.1", cfg.LLM.Model)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 1.0, cfg.LLM.TopP)
	assert.Equal(t, "Asia/Manila", cfg.Database.Timezone)
	assert.False(t, cfg.Database.TLS)
	assert.Equal(t, 5000, cfg.Admin.ExportLimit)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.Auth.Enabled())

	assert.Equal(t, "mongodb://localhost:27017", cfg.Database.URI)
	assert.Equal(t, "mongodb", cfg.Database.Scheme())
	assert.Equal(t, "key-2", cfg.LLM.APIKey2)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("OPENAI_MODEL", "openai/gpt-4o-mini")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENV", "production")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "openai/gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_TimeoutsCoverFallbackCall(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_TIMEOUT", "90s")
	t.Setenv("SERVER_MIDDLEWARE_TIMEOUT", "30s")
	t.Setenv("SERVER_WRITE_TIMEOUT", "30s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 190*time.Second, cfg.Server.MiddlewareTimeout)
	assert.Equal(t, 200*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_LongerTimeoutsKept(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SERVER_MIDDLEWARE_TIMEOUT", "300s")
	t.Setenv("SERVER_WRITE_TIMEOUT", "400s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 300*time.Second, cfg.Server.MiddlewareTimeout)
	assert.Equal(t, 400*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_File(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7000\nadmin:\n  export_limit: 50\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Admin.ExportLimit)
}

func TestValidate(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	cfg.Database.URI = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")

	cfg.Database.URI = "sqlite://chat.db"
	cfg.LLM.Endpoint = ""
	assert.Error(t, cfg.Validate())

	cfg.LLM.Provider = "gemini"
	assert.NoError(t, cfg.Validate())

	cfg.Auth.AdminPasswordHash = "$2a$10$hash"
	assert.Error(t, cfg.Validate())

	cfg.Auth.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestSetupLogging_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "server.log")

	closer, err := config.SetupLogging(config.LoggingConfig{Level: "debug", File: path}, true)
	require.NoError(t, err)
	require.NotNil(t, closer)
	assert.NoError(t, closer.Close())
}
