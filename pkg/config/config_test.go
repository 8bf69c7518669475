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

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5", cfg.Weather.BaseURL)
	assert.Equal(t, "metric", cfg.Weather.Units)
	assert.Equal(t, 10*time.Minute, cfg.Weather.CacheTTL)
	assert.Equal(t, 8, cfg.Weather.MaxConcurrency)
	assert.True(t, cfg.Observability.MetricsEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	file := filepath.Join(dir, "citytemp.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
mode: prod
server:
  port: 9000
weather:
  api_key: from-file
  cache_ttl: 1m
`), 0o600))

	t.Setenv("CITYTEMP_WEATHER_API_KEY", "from-env")
	t.Setenv("CITYTEMP_DATABASE_NAME", "cities_test")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Weather.APIKey)
	assert.Equal(t, time.Minute, cfg.Weather.CacheTTL)
	assert.Equal(t, "cities_test", cfg.Database.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Server.Port = 0
	cfg.Weather.MaxConcurrency = 0
	cfg.Weather.CacheTTL = -time.Second

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "max_concurrency")
	assert.Contains(t, err.Error(), "cache_ttl")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "citytemp",
		Password: "p@ss",
		Name:     "cities",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://citytemp:p%40ss@db:5433/cities?sslmode=disable", d.DSN())
}
