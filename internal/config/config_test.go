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
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5050", cfg.Port)
	assert.Equal(t, DefaultSigninEndpoint, cfg.SigninEndpoint)
	assert.Equal(t, DefaultGraphQLEndpoint, cfg.GraphQLEndpoint)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.True(t, cfg.SecureCookies)
}

func TestLoad_YAMLFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("port: \"8080\"\npoll_interval: 10s\nallowed_origins:\n  - http://localhost:5173\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9000") // env wins over file

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoad_EnvOrigins(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:5173, https://dash.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:5173", "https://dash.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_BadPollInterval(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("POLL_INTERVAL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Config{PollInterval: time.Second}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingDatabaseURL)

	cfg.DatabaseURL = "postgres://localhost/dash"
	assert.NoError(t, cfg.Validate())

	cfg.PollInterval = 0
	assert.Error(t, cfg.Validate())
}
