package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LoadDefaults(t *testing.T) {
	dir := t.TempDir()

	settings, err := NewManagerWithDir(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, settings.APIURL)
	assert.Equal(t, "api/v1", settings.APIPrefix)
	assert.Equal(t, DefaultWebURL, settings.WebURL)
	assert.Equal(t, 30*time.Second, settings.Timeout)
	assert.Equal(t, "warn", settings.LogLevel)
	assert.Equal(t, BackendFile, settings.CredentialsBackend)
	assert.Equal(t, filepath.Join(dir, CredentialsFileName), settings.CredentialsPath)
	assert.Zero(t, settings.RateLimit)
}

func TestManager_LoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`api_url: https://api.resto.test
timeout: 5s
rate_limit: 2.5
credentials_backend: redis
redis_addr: cache:6379
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0600))

	t.Setenv("RESTO_API_URL", "https://staging.resto.test")
	t.Setenv("RESTO_LOG_LEVEL", "debug")

	m := NewManagerWithDir(dir)
	settings, err := m.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.resto.test", settings.APIURL)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, 5*time.Second, settings.Timeout)
	assert.Equal(t, 2.5, settings.RateLimit)
	assert.Equal(t, BackendRedis, settings.CredentialsBackend)
	assert.Equal(t, "cache:6379", settings.RedisAddr)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), m.ConfigFileUsed())
}

func TestManager_Set(t *testing.T) {
	m := NewManagerWithDir(t.TempDir())
	m.Set("log_level", "debug")

	settings, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", settings.LogLevel)
}

func TestManager_LoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown backend", content: "credentials_backend: vault\n"},
		{name: "negative rate", content: "rate_limit: -1\n"},
		{name: "empty url", content: "api_url: \"\"\n"},
		{name: "malformed yaml", content: "api_url: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(tt.content), 0600))

			_, err := NewManagerWithDir(dir).Load()
			assert.Error(t, err)
		})
	}
}
