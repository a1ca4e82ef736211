package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/counsellor/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
  json: true
gemini:
  api_key: test-key
  model_name: gemini-2.0-flash
  timeout: 30s
http:
  jwt_secret: a-secret
  cors_origins:
    - https://app.example.com
scheduler:
  tasks:
    sql_maintenance:
      enabled: false
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Logger.JSON)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.ModelName)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.HTTP.CORSOrigins)
	assert.False(t, cfg.Scheduler.Tasks["sql_maintenance"].Enabled)
	assert.True(t, cfg.Scheduler.Tasks["conversation_prune"].Enabled)

	// untouched values keep their defaults
	assert.Equal(t, config.DefaultDirectoryBaseURL, cfg.Directory.BaseURL)
	assert.Equal(t, config.DefaultDirectoryTimeout, cfg.Directory.Timeout)
	assert.Equal(t, 0, cfg.Gemini.MaxRetries)
	assert.NotEmpty(t, cfg.Messages.ChatFallback)
}

func TestLoadConfig_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("COUNSELLOR_GEMINI_API_KEY", "env-key")
	t.Setenv("COUNSELLOR_HTTP_JWT_SECRET", "env-secret")
	t.Setenv("COUNSELLOR_HTTP_ADDR", ":9999")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Gemini.APIKey)
	assert.Equal(t, "env-secret", cfg.HTTP.JWTSecret)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
}

func TestLoadConfig_LegacyEnvironmentNames(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "legacy-key")
	t.Setenv("SECRET_KEY", "legacy-secret")
	t.Setenv("UNIVERSITY_API_URL", "http://directory.internal")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "legacy-key", cfg.Gemini.APIKey)
	assert.Equal(t, "legacy-secret", cfg.HTTP.JWTSecret)
	assert.Equal(t, "http://directory.internal", cfg.Directory.BaseURL)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing api key",
			body: "http:\n  jwt_secret: s\n",
		},
		{
			name: "missing jwt secret",
			body: "gemini:\n  api_key: k\n",
		},
		{
			name: "bad log level",
			body: "gemini:\n  api_key: k\nhttp:\n  jwt_secret: s\nlogger:\n  level: verbose\n",
		},
		{
			name: "telegram enabled without token",
			body: "gemini:\n  api_key: k\nhttp:\n  jwt_secret: s\ntelegram:\n  enabled: true\n",
		},
		{
			name: "temperature out of range",
			body: "gemini:\n  api_key: k\n  temperature: 3\nhttp:\n  jwt_secret: s\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, config.ErrConfiguration)
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	t.Parallel()
	assert.ErrorIs(t, config.Validate(nil), config.ErrConfiguration)
}
