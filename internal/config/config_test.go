package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"FLORABASE_API_URL", "FLORABASE_STORAGE_PATH", "FLORABASE_LOG_LEVEL",
		"FLORABASE_DEBOUNCE", "FLORABASE_TIMEOUT", "MAPS_API_KEY",
		"DEVAPI_PORT", "DEVAPI_JWT_SECRET", "DEVAPI_ADMIN_EMAIL", "DEVAPI_ADMIN_PASSWORD",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", cfg.APIURL)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 5000, cfg.DevAPI.Port)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".florabase", "storage.db"), cfg.StoragePath)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"FLORABASE_API_URL=https://florabase.example/api/\nFLORABASE_DEBOUNCE=50ms\nMAPS_API_KEY=from-file\n",
	), 0o600))
	t.Setenv("MAPS_API_KEY", "from-env")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "https://florabase.example/api", cfg.APIURL)
	assert.Equal(t, 50*time.Millisecond, cfg.Debounce)
	assert.Equal(t, "from-env", cfg.MapsAPIKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"FLORABASE_API_URL", "localhost:5000"},
		{"FLORABASE_LOG_LEVEL", "loud"},
		{"FLORABASE_DEBOUNCE", "soon"},
		{"FLORABASE_TIMEOUT", "-1s"},
		{"DEVAPI_PORT", "70000"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
