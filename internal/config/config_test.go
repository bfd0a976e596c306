package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", "/home/tester")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "7009", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, "/api/v1", cfg.APIV1Str)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, filepath.Join("/home/tester", ".config/codeme/token.yaml"), cfg.TokenFile)
	assert.False(t, cfg.LinkIdempotencyKeys)
	assert.Equal(t, int64(20*1024*1024), cfg.MaxUploadBytes())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_BASE_URL", "https://codeme.example.com/")
	t.Setenv("LINK_IDEMPOTENCY_KEYS", "true")
	t.Setenv("MAX_UPLOAD_SIZE_MB", "5")
	t.Setenv("TOKEN_FILE", "/tmp/codeme-token.yaml")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://codeme.example.com", cfg.APIBaseURL, "trailing slash is trimmed from the base URL")
	assert.True(t, cfg.LinkIdempotencyKeys)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, "/tmp/codeme-token.yaml", cfg.TokenFile)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "PORT: \"7100\"\nAUTH_LOGIN_URL: https://codeme.example.com/api/v1/auth/google/login\nHTTP_TIMEOUT_SEC: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7100", cfg.Port)
	assert.Equal(t, "https://codeme.example.com/api/v1/auth/google/login", cfg.AuthLoginURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout())
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Run("invalid base url", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("API_BASE_URL", "not a url")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})

	t.Run("plain http in production", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("API_BASE_URL", "http://codeme.example.com")

		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "https in production")
	})

	t.Run("unknown environment", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ENVIRONMENT", "qa")

		_, err := Load("")
		require.Error(t, err)
	})
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
