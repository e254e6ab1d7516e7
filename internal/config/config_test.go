package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: test.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "stolik", cfg.App.Name)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
	assert.Equal(t, 10.0, cfg.API.RateLimit.RPS)
	assert.Equal(t, 20, cfg.API.RateLimit.Burst)
	assert.Equal(t, 2.0, cfg.Booking.DefaultDurationHours)
	assert.Equal(t, "5m", cfg.Booking.ScheduleCacheTTL)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "from_env.db")
	path := writeConfig(t, `
database:
  path: ${TEST_DB_PATH}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from_env.db", cfg.Database.Path)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  name: stolik
  environment: test
database:
  path: test.db
redis:
  address: localhost:6379
  db: 1
api:
  enabled: true
  port: 9000
  auth:
    enabled: true
    api_keys:
      - key: secret-key
        name: frontdesk
  rate_limit:
    rps: 5
    burst: 10
booking:
  default_duration_hours: 1.5
  schedule_cache_ttl: 10m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.App.Environment)
	assert.Equal(t, 9000, cfg.API.Port)
	assert.True(t, cfg.API.Auth.Enabled)
	require.Len(t, cfg.API.Auth.APIKeys, 1)
	assert.Equal(t, "secret-key", cfg.API.Auth.APIKeys[0].Key)
	assert.Equal(t, "frontdesk", cfg.API.Auth.APIKeys[0].Name)
	assert.Equal(t, 1.5, cfg.Booking.DefaultDurationHours)
	assert.Equal(t, "10m", cfg.Booking.ScheduleCacheTTL)
}

func TestValidateMissingDatabasePath(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: info
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path")
}

func TestValidateAuthWithoutKeys(t *testing.T) {
	path := writeConfig(t, `
database:
  path: test.db
api:
  enabled: true
  auth:
    enabled: true
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api keys")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
